package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Lead is an unconverted sales prospect. Status and PipelineStage are two
// independent axes: Status is the coarse lifecycle flag edited on the leads
// page, PipelineStage is the Kanban lane moved on the pipeline board. A
// pipeline move never touches Status and vice versa, except for conversion,
// which sets Status to "converted" and freezes the record.
type Lead struct {
	ID                   string
	Name                 string
	Email                string
	Phone                string
	Company              string
	Status               string
	PipelineStage        string
	Source               string
	Notes                string
	Value                decimal.NullDecimal
	ConvertedToProjectID *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	FindAll(ctx context.Context) ([]*Lead, error)
	FindByStatus(ctx context.Context, status string) ([]*Lead, error)
	FindByStage(ctx context.Context, stage string) ([]*Lead, error)
	CountByStage(ctx context.Context) (map[string]int, error)
	FindStale(ctx context.Context, cutoff time.Time) ([]*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	UpdateStage(ctx context.Context, id, stage string) error
	Delete(ctx context.Context, id string) error
}

type pgLeadRepository struct {
	pool *pgxpool.Pool
}

func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &pgLeadRepository{pool: pool}
}

const leadColumns = `id, name, email, phone, company, status, pipeline_stage, source, notes, value, converted_to_project_id, created_at, updated_at`

func (r *pgLeadRepository) Create(ctx context.Context, lead *Lead) error {
	query := `
		INSERT INTO leads (name, email, phone, company, status, pipeline_stage, source, notes, value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		lead.Name, lead.Email, lead.Phone, lead.Company, lead.Status,
		lead.PipelineStage, lead.Source, lead.Notes, lead.Value,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
}

func (r *pgLeadRepository) FindByID(ctx context.Context, id string) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	l := &Lead{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Status,
		&l.PipelineStage, &l.Source, &l.Notes, &l.Value,
		&l.ConvertedToProjectID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *pgLeadRepository) FindAll(ctx context.Context) ([]*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC`
	return r.queryLeads(ctx, query)
}

func (r *pgLeadRepository) FindByStatus(ctx context.Context, status string) ([]*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE status = $1 ORDER BY created_at DESC`
	return r.queryLeads(ctx, query, status)
}

func (r *pgLeadRepository) FindByStage(ctx context.Context, stage string) ([]*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE pipeline_stage = $1 ORDER BY created_at DESC`
	return r.queryLeads(ctx, query, stage)
}

func (r *pgLeadRepository) CountByStage(ctx context.Context) (map[string]int, error) {
	query := `SELECT pipeline_stage, COUNT(*) FROM leads GROUP BY pipeline_stage`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var stage string
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, err
		}
		counts[stage] = count
	}
	return counts, rows.Err()
}

func (r *pgLeadRepository) FindStale(ctx context.Context, cutoff time.Time) ([]*Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE updated_at < $1
		  AND status NOT IN ('converted', 'won', 'lost')
		  AND pipeline_stage != 'closed'
		ORDER BY updated_at
	`
	return r.queryLeads(ctx, query, cutoff)
}

func (r *pgLeadRepository) Update(ctx context.Context, lead *Lead) error {
	query := `
		UPDATE leads
		SET name = $2, email = $3, phone = $4, company = $5, status = $6,
		    pipeline_stage = $7, source = $8, notes = $9, value = $10, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.Company, lead.Status,
		lead.PipelineStage, lead.Source, lead.Notes, lead.Value,
	)
	return err
}

// UpdateStage writes the pipeline stage alone. Last write wins; concurrent
// moves are reconciled by the broadcast that follows every move.
func (r *pgLeadRepository) UpdateStage(ctx context.Context, id, stage string) error {
	query := `UPDATE leads SET pipeline_stage = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, stage)
	return err
}

func (r *pgLeadRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM leads WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgLeadRepository) queryLeads(ctx context.Context, query string, args ...interface{}) ([]*Lead, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*Lead
	for rows.Next() {
		l := &Lead{}
		if err := rows.Scan(
			&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Status,
			&l.PipelineStage, &l.Source, &l.Notes, &l.Value,
			&l.ConvertedToProjectID, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}
