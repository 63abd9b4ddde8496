package service

import (
	"errors"

	"github.com/lumenworks/studio-portal-backend/internal/config"
	"github.com/lumenworks/studio-portal-backend/internal/db"
	"github.com/lumenworks/studio-portal-backend/internal/email"
	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/socket"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("resource already exists")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInactiveUser     = errors.New("account is deactivated")
	ErrAlreadyConverted = errors.New("already converted to a project")
	ErrNoClientMessage  = errors.New("thread has no client message to convert")
	ErrInvalidStage     = errors.New("invalid pipeline stage")
	ErrInviteExists     = errors.New("a pending invite already exists for this email")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth       AuthService
	User       UserService
	Lead       LeadService
	Message    MessageService
	Project    ProjectService
	Conversion ConversionService
	Pipeline   PipelineService
	Stats      StatsService
	Invite     InviteService
	Billing    BillingService

	Broadcaster *socket.Broadcaster
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	Redis       *db.RedisDB
	EmailSvc    *email.Service
	Broadcaster *socket.Broadcaster
}

func NewServices(deps *ServiceDeps) *Services {
	return &Services{
		Auth:       NewAuthService(deps.Config, deps.Repos.ProfileRepo, deps.Repos.InviteRepo, deps.Redis, deps.EmailSvc),
		User:       NewUserService(deps.Repos.ProfileRepo),
		Lead:       NewLeadService(deps.Repos.LeadRepo, deps.Broadcaster),
		Message:    NewMessageService(deps.Config, deps.Repos.MessageRepo, deps.EmailSvc, deps.Broadcaster),
		Project:    NewProjectService(deps.Repos.ProjectRepo, deps.Broadcaster),
		Conversion: NewConversionService(deps.Repos, deps.Broadcaster),
		Pipeline:   NewPipelineService(deps.Repos.LeadRepo, deps.Broadcaster),
		Stats:      NewStatsService(deps.Repos.ReportingRepo, deps.Redis),
		Invite:     NewInviteService(deps.Config, deps.Repos.InviteRepo, deps.Repos.ProfileRepo, deps.EmailSvc),
		Billing:    NewBillingService(deps.Config, deps.Repos.BillingRepo, deps.Broadcaster),

		Broadcaster: deps.Broadcaster,
	}
}
