package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConversionRepository performs the two-write conversions atomically:
// creating the project and flagging the source happen in one transaction,
// so a failed flag write never leaves an orphaned project behind.
type ConversionRepository interface {
	ConvertLead(ctx context.Context, lead *Lead, project *Project) error
	ConvertMessage(ctx context.Context, msg *Message, project *Project) error
}

type pgConversionRepository struct {
	pool *pgxpool.Pool
}

func NewConversionRepository(pool *pgxpool.Pool) ConversionRepository {
	return &pgConversionRepository{pool: pool}
}

func (r *pgConversionRepository) ConvertLead(ctx context.Context, lead *Lead, project *Project) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO projects (title, description, client_uid, client_name, client_email, status, phase, budget, source_lead_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`,
		project.Title, project.Description, project.ClientUID, project.ClientName,
		project.ClientEmail, project.Status, project.Phase, project.Budget,
		lead.ID,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE leads
		SET status = 'converted', converted_to_project_id = $2, updated_at = NOW()
		WHERE id = $1
	`, lead.ID, project.ID)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	project.SourceLeadID = &lead.ID
	lead.Status = "converted"
	lead.ConvertedToProjectID = &project.ID
	return nil
}

func (r *pgConversionRepository) ConvertMessage(ctx context.Context, msg *Message, project *Project) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO projects (title, description, client_uid, client_name, client_email, status, phase, budget, source_message_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`,
		project.Title, project.Description, project.ClientUID, project.ClientName,
		project.ClientEmail, project.Status, project.Phase, project.Budget,
		msg.ID,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return err
	}

	// Only the resolved client message is flagged, not the whole thread.
	_, err = tx.Exec(ctx, `
		UPDATE messages
		SET converted_to_project = TRUE, project_id = $2, status = 'converted'
		WHERE id = $1
	`, msg.ID, project.ID)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	project.SourceMessageID = &msg.ID
	msg.ConvertedToProject = true
	msg.ProjectID = &project.ID
	msg.Status = "converted"
	return nil
}
