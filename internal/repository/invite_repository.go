package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Invite struct {
	ID        string
	Email     string
	Role      string
	Token     string
	Status    string
	CreatedBy *string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type InviteRepository interface {
	Create(ctx context.Context, invite *Invite) error
	FindByID(ctx context.Context, id string) (*Invite, error)
	FindByToken(ctx context.Context, token string) (*Invite, error)
	FindPendingByEmail(ctx context.Context, email string) (*Invite, error)
	FindAll(ctx context.Context) ([]*Invite, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ExpirePending(ctx context.Context) (int64, error)
}

type pgInviteRepository struct {
	pool *pgxpool.Pool
}

func NewInviteRepository(pool *pgxpool.Pool) InviteRepository {
	return &pgInviteRepository{pool: pool}
}

const inviteColumns = `id, email, role, token, status, created_by, expires_at, created_at, updated_at`

func (r *pgInviteRepository) Create(ctx context.Context, invite *Invite) error {
	query := `
		INSERT INTO invites (email, role, token, status, created_by, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		invite.Email, invite.Role, invite.Token, invite.Status,
		invite.CreatedBy, invite.ExpiresAt,
	).Scan(&invite.ID, &invite.CreatedAt, &invite.UpdatedAt)
}

func (r *pgInviteRepository) FindByID(ctx context.Context, id string) (*Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE id = $1`
	return r.queryInvite(ctx, query, id)
}

func (r *pgInviteRepository) FindByToken(ctx context.Context, token string) (*Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE token = $1`
	return r.queryInvite(ctx, query, token)
}

func (r *pgInviteRepository) FindPendingByEmail(ctx context.Context, email string) (*Invite, error) {
	query := `
		SELECT ` + inviteColumns + `
		FROM invites
		WHERE email = $1 AND status = 'pending' AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.queryInvite(ctx, query, email)
}

func (r *pgInviteRepository) FindAll(ctx context.Context) ([]*Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []*Invite
	for rows.Next() {
		i := &Invite{}
		if err := rows.Scan(
			&i.ID, &i.Email, &i.Role, &i.Token, &i.Status, &i.CreatedBy,
			&i.ExpiresAt, &i.CreatedAt, &i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invites = append(invites, i)
	}
	return invites, rows.Err()
}

func (r *pgInviteRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE invites SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, status)
	return err
}

func (r *pgInviteRepository) ExpirePending(ctx context.Context) (int64, error) {
	query := `UPDATE invites SET status = 'expired', updated_at = NOW() WHERE status = 'pending' AND expires_at < NOW()`
	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *pgInviteRepository) queryInvite(ctx context.Context, query string, args ...interface{}) (*Invite, error) {
	i := &Invite{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&i.ID, &i.Email, &i.Role, &i.Token, &i.Status, &i.CreatedBy,
		&i.ExpiresAt, &i.CreatedAt, &i.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return i, nil
}
