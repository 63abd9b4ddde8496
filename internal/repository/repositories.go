package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	// Core repositories (pgxpool)
	LeadRepo       LeadRepository
	MessageRepo    MessageRepository
	ProjectRepo    ProjectRepository
	ProfileRepo    ProfileRepository
	InviteRepo     InviteRepository
	BillingRepo    BillingRepository
	ConversionRepo ConversionRepository

	// Read-only reporting repository (sqlx)
	ReportingRepo ReportingRepository
}

func NewRepositories(pool *pgxpool.Pool, reporting *sqlx.DB) *Repositories {
	return &Repositories{
		LeadRepo:       NewLeadRepository(pool),
		MessageRepo:    NewMessageRepository(pool),
		ProjectRepo:    NewProjectRepository(pool),
		ProfileRepo:    NewProfileRepository(pool),
		InviteRepo:     NewInviteRepository(pool),
		BillingRepo:    NewBillingRepository(pool),
		ConversionRepo: NewConversionRepository(pool),

		ReportingRepo: NewReportingRepository(reporting),
	}
}
