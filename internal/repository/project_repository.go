package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Project is an active engagement. For projects born from a conversion
// exactly one of SourceLeadID/SourceMessageID is set; both are nil for
// manually created projects (enforced by a CHECK constraint).
type Project struct {
	ID              string
	Title           string
	Description     string
	ClientUID       *string
	ClientName      string
	ClientEmail     string
	Status          string
	Phase           string
	Budget          decimal.NullDecimal
	SourceLeadID    *string
	SourceMessageID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	FindAll(ctx context.Context) ([]*Project, error)
	FindByClient(ctx context.Context, clientUID string) ([]*Project, error)
	FindBySourceLead(ctx context.Context, leadID string) (*Project, error)
	FindBySourceMessage(ctx context.Context, messageID string) (*Project, error)
	Update(ctx context.Context, project *Project) error
	UpdateStatus(ctx context.Context, id, status string) error
	UpdatePhase(ctx context.Context, id, phase string) error
	Delete(ctx context.Context, id string) error
}

type pgProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &pgProjectRepository{pool: pool}
}

const projectColumns = `id, title, description, client_uid, client_name, client_email, status, phase, budget, source_lead_id, source_message_id, created_at, updated_at`

func (r *pgProjectRepository) Create(ctx context.Context, project *Project) error {
	query := `
		INSERT INTO projects (title, description, client_uid, client_name, client_email, status, phase, budget, source_lead_id, source_message_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		project.Title, project.Description, project.ClientUID, project.ClientName,
		project.ClientEmail, project.Status, project.Phase, project.Budget,
		project.SourceLeadID, project.SourceMessageID,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *pgProjectRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return r.queryProject(ctx, query, id)
}

func (r *pgProjectRepository) FindAll(ctx context.Context) ([]*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	return r.queryProjects(ctx, query)
}

func (r *pgProjectRepository) FindByClient(ctx context.Context, clientUID string) ([]*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE client_uid = $1 ORDER BY created_at DESC`
	return r.queryProjects(ctx, query, clientUID)
}

func (r *pgProjectRepository) FindBySourceLead(ctx context.Context, leadID string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE source_lead_id = $1`
	return r.queryProject(ctx, query, leadID)
}

func (r *pgProjectRepository) FindBySourceMessage(ctx context.Context, messageID string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE source_message_id = $1`
	return r.queryProject(ctx, query, messageID)
}

func (r *pgProjectRepository) Update(ctx context.Context, project *Project) error {
	query := `
		UPDATE projects
		SET title = $2, description = $3, client_uid = $4, client_name = $5,
		    client_email = $6, status = $7, phase = $8, budget = $9, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		project.ID, project.Title, project.Description, project.ClientUID,
		project.ClientName, project.ClientEmail, project.Status, project.Phase,
		project.Budget,
	)
	return err
}

func (r *pgProjectRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE projects SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, status)
	return err
}

func (r *pgProjectRepository) UpdatePhase(ctx context.Context, id, phase string) error {
	query := `UPDATE projects SET phase = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, phase)
	return err
}

func (r *pgProjectRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgProjectRepository) queryProject(ctx context.Context, query string, args ...interface{}) (*Project, error) {
	p := &Project{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.Title, &p.Description, &p.ClientUID, &p.ClientName,
		&p.ClientEmail, &p.Status, &p.Phase, &p.Budget,
		&p.SourceLeadID, &p.SourceMessageID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *pgProjectRepository) queryProjects(ctx context.Context, query string, args ...interface{}) ([]*Project, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p := &Project{}
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.ClientUID, &p.ClientName,
			&p.ClientEmail, &p.Status, &p.Phase, &p.Budget,
			&p.SourceLeadID, &p.SourceMessageID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
