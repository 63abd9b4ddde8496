package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Subscription mirrors the billing provider's view of a client account.
// Rows are written by the provider webhook, read to gate portal features.
type Subscription struct {
	UID              string
	Plan             string
	Status           string
	CurrentPeriodEnd *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CheckoutSession is a checkout request an external watcher fulfills
// asynchronously; the portal only creates pending rows and reads them back.
type CheckoutSession struct {
	ID        string
	UID       string
	Plan      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type BillingRepository interface {
	UpsertSubscription(ctx context.Context, sub *Subscription) error
	FindSubscription(ctx context.Context, uid string) (*Subscription, error)

	CreateCheckoutSession(ctx context.Context, session *CheckoutSession) error
	FindCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
	ExpireStaleCheckoutSessions(ctx context.Context, olderThan time.Time) (int64, error)
}

type pgBillingRepository struct {
	pool *pgxpool.Pool
}

func NewBillingRepository(pool *pgxpool.Pool) BillingRepository {
	return &pgBillingRepository{pool: pool}
}

func (r *pgBillingRepository) UpsertSubscription(ctx context.Context, sub *Subscription) error {
	query := `
		INSERT INTO subscriptions (uid, plan, status, current_period_end)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (uid) DO UPDATE
		SET plan = $2, status = $3, current_period_end = $4, updated_at = NOW()
		RETURNING created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		sub.UID, sub.Plan, sub.Status, sub.CurrentPeriodEnd,
	).Scan(&sub.CreatedAt, &sub.UpdatedAt)
}

func (r *pgBillingRepository) FindSubscription(ctx context.Context, uid string) (*Subscription, error) {
	query := `SELECT uid, plan, status, current_period_end, created_at, updated_at FROM subscriptions WHERE uid = $1`
	s := &Subscription{}
	err := r.pool.QueryRow(ctx, query, uid).Scan(
		&s.UID, &s.Plan, &s.Status, &s.CurrentPeriodEnd, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *pgBillingRepository) CreateCheckoutSession(ctx context.Context, session *CheckoutSession) error {
	query := `
		INSERT INTO checkout_sessions (uid, plan, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query, session.UID, session.Plan, session.Status).
		Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
}

func (r *pgBillingRepository) FindCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	query := `SELECT id, uid, plan, status, created_at, updated_at FROM checkout_sessions WHERE id = $1`
	s := &CheckoutSession{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UID, &s.Plan, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *pgBillingRepository) ExpireStaleCheckoutSessions(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `UPDATE checkout_sessions SET status = 'expired', updated_at = NOW() WHERE status = 'pending' AND created_at < $1`
	tag, err := r.pool.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
