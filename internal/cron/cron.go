package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/socket"
)

// Scheduler handles scheduled maintenance tasks
type Scheduler struct {
	cron        *cron.Cron
	repos       *repository.Repositories
	broadcaster *socket.Broadcaster
}

// NewScheduler creates a new scheduler
func NewScheduler(repos *repository.Repositories, broadcaster *socket.Broadcaster) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		repos:       repos,
		broadcaster: broadcaster,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run every hour - purge expired login tokens
	s.cron.AddFunc("0 * * * *", func() {
		log.Println("[Cron] Purging expired login tokens...")
		s.purgeExpiredLoginTokens()
	})

	// Run every hour - expire checkout sessions the watcher never fulfilled
	s.cron.AddFunc("30 * * * *", func() {
		log.Println("[Cron] Expiring stale checkout sessions...")
		s.expireStaleCheckouts()
	})

	// Run every day at midnight - expire pending invites past their window
	s.cron.AddFunc("0 0 * * *", func() {
		log.Println("[Cron] Expiring stale invites...")
		s.expireInvites()
	})

	// Run every day at 9 AM - flag leads nobody has touched in a month
	s.cron.AddFunc("0 9 * * *", func() {
		log.Println("[Cron] Running stale lead check...")
		s.checkStaleLeads()
	})

	s.cron.Start()
	log.Println("⏰ Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("⏰ Scheduler stopped")
}

func (s *Scheduler) purgeExpiredLoginTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.repos.ProfileRepo.DeleteExpiredLoginTokens(ctx)
	if err != nil {
		log.Printf("[Cron] Error purging login tokens: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[Cron] Purged %d expired login tokens", n)
	}
}

func (s *Scheduler) expireStaleCheckouts() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.repos.BillingRepo.ExpireStaleCheckoutSessions(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		log.Printf("[Cron] Error expiring checkout sessions: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[Cron] Expired %d stale checkout sessions", n)
	}
}

func (s *Scheduler) expireInvites() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.repos.InviteRepo.ExpirePending(ctx)
	if err != nil {
		log.Printf("[Cron] Error expiring invites: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[Cron] Expired %d invites", n)
	}
}

func (s *Scheduler) checkStaleLeads() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -30)
	leads, err := s.repos.LeadRepo.FindStale(ctx, cutoff)
	if err != nil {
		log.Printf("[Cron] Error finding stale leads: %v", err)
		return
	}
	for _, lead := range leads {
		lastUpdate := lead.UpdatedAt.Format("2006-01-02")
		log.Printf("[Cron] Stale lead: %s (%s) untouched since %s", lead.Name, lead.ID, lastUpdate)
		if s.broadcaster != nil {
			s.broadcaster.BroadcastLeadStale(lead.ID, lead.Name, lastUpdate)
		}
	}
	if len(leads) > 0 {
		log.Printf("[Cron] %d stale leads need a follow-up", len(leads))
	}
}
