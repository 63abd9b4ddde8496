package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ProjectFact is the slice of a project the stats engine needs.
type ProjectFact struct {
	Status     string              `db:"status"`
	ClientUID  *string             `db:"client_uid"`
	ClientName string              `db:"client_name"`
	Budget     decimal.NullDecimal `db:"budget"`
}

// MessageFact is the slice of a message the lead scorer needs.
type MessageFact struct {
	ThreadID   string `db:"thread_id"`
	Name       string `db:"name"`
	Status     string `db:"status"`
	BodyLength int    `db:"body_length"`
}

// ReportingRepository feeds the stats engine. Read-only; the stats page
// recomputes from the full collections on every view.
type ReportingRepository interface {
	ProjectFacts(ctx context.Context) ([]ProjectFact, error)
	MessageFacts(ctx context.Context) ([]MessageFact, error)
}

type sqlxReportingRepository struct {
	db *sqlx.DB
}

func NewReportingRepository(db *sqlx.DB) ReportingRepository {
	return &sqlxReportingRepository{db: db}
}

func (r *sqlxReportingRepository) ProjectFacts(ctx context.Context) ([]ProjectFact, error) {
	var facts []ProjectFact
	err := r.db.SelectContext(ctx, &facts, `
		SELECT status, client_uid, client_name, budget
		FROM projects
	`)
	return facts, err
}

func (r *sqlxReportingRepository) MessageFacts(ctx context.Context) ([]MessageFact, error) {
	var facts []MessageFact
	err := r.db.SelectContext(ctx, &facts, `
		SELECT thread_id, name, status, LENGTH(body) AS body_length
		FROM messages
	`)
	return facts, err
}
