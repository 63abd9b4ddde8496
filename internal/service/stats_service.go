package service

import (
	"context"
	"time"

	"github.com/lumenworks/studio-portal-backend/internal/db"
	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/stats"
)

// ============================================
// Stats Service
// ============================================

const forecastCacheTTL = 60 * time.Second

type StatsService interface {
	Overview(ctx context.Context) (*stats.Overview, error)
	Forecast(ctx context.Context) (*stats.Forecast, error)
	ClientProjections(ctx context.Context) ([]stats.ClientProjection, error)
	LeadScores(ctx context.Context) ([]stats.LeadScore, error)
	InvalidateForecast(ctx context.Context)
}

type statsService struct {
	reportingRepo repository.ReportingRepository
	redis         *db.RedisDB
}

func NewStatsService(reportingRepo repository.ReportingRepository, redis *db.RedisDB) StatsService {
	return &statsService{reportingRepo: reportingRepo, redis: redis}
}

func (s *statsService) Overview(ctx context.Context) (*stats.Overview, error) {
	facts, err := s.reportingRepo.ProjectFacts(ctx)
	if err != nil {
		return nil, err
	}
	overview := stats.ComputeOverview(facts)
	return &overview, nil
}

// Forecast recomputes from the full project collection; the result is
// cached briefly so a stats page refresh storm stays off the database.
func (s *statsService) Forecast(ctx context.Context) (*stats.Forecast, error) {
	if s.redis != nil {
		var cached stats.Forecast
		if err := s.redis.GetCache(ctx, "forecast", &cached); err == nil {
			return &cached, nil
		}
	}

	facts, err := s.reportingRepo.ProjectFacts(ctx)
	if err != nil {
		return nil, err
	}
	forecast := stats.ComputeForecast(facts)

	if s.redis != nil {
		_ = s.redis.SetCache(ctx, "forecast", forecast, forecastCacheTTL)
	}

	return &forecast, nil
}

func (s *statsService) ClientProjections(ctx context.Context) ([]stats.ClientProjection, error) {
	facts, err := s.reportingRepo.ProjectFacts(ctx)
	if err != nil {
		return nil, err
	}
	return stats.ComputeClientProjections(facts), nil
}

func (s *statsService) LeadScores(ctx context.Context) ([]stats.LeadScore, error) {
	facts, err := s.reportingRepo.MessageFacts(ctx)
	if err != nil {
		return nil, err
	}
	return stats.ScoreMessages(facts), nil
}

func (s *statsService) InvalidateForecast(ctx context.Context) {
	if s.redis != nil {
		_ = s.redis.InvalidateCache(ctx, "forecast")
	}
}
