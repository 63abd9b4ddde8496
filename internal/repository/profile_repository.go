package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Profile is the portal identity keyed by uid. Role gates the admin
// surface; ClaimsVersion is bumped by sync-claims so outstanding session
// tokens minted before the bump stop validating.
type Profile struct {
	UID           string
	Email         string
	Name          string
	Role          string
	Active        bool
	ClaimsVersion int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type RefreshToken struct {
	ID        string
	Token     string
	UID       string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// LoginToken is the durable half of a magic link: the bcrypt hash of the
// link secret, keyed by the link's token id.
type LoginToken struct {
	ID         string
	Email      string
	SecretHash string
	ExpiresAt  time.Time
	UsedAt     *time.Time
	CreatedAt  time.Time
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	FindByUID(ctx context.Context, uid string) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
	SetRole(ctx context.Context, uid, role string) error
	BumpClaimsVersion(ctx context.Context, uid string) (int, error)

	SaveRefreshToken(ctx context.Context, rt *RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error

	SaveLoginToken(ctx context.Context, lt *LoginToken) error
	FindLoginToken(ctx context.Context, id string) (*LoginToken, error)
	MarkLoginTokenUsed(ctx context.Context, id string) error
	DeleteExpiredLoginTokens(ctx context.Context) (int64, error)
}

type pgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &pgProfileRepository{pool: pool}
}

func (r *pgProfileRepository) Create(ctx context.Context, profile *Profile) error {
	query := `
		INSERT INTO profiles (email, name, role, active)
		VALUES ($1, $2, $3, $4)
		RETURNING uid, claims_version, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		profile.Email, profile.Name, profile.Role, profile.Active,
	).Scan(&profile.UID, &profile.ClaimsVersion, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *pgProfileRepository) FindByUID(ctx context.Context, uid string) (*Profile, error) {
	query := `SELECT uid, email, name, role, active, claims_version, created_at, updated_at FROM profiles WHERE uid = $1`
	return r.queryProfile(ctx, query, uid)
}

func (r *pgProfileRepository) FindByEmail(ctx context.Context, email string) (*Profile, error) {
	query := `SELECT uid, email, name, role, active, claims_version, created_at, updated_at FROM profiles WHERE email = $1`
	return r.queryProfile(ctx, query, email)
}

func (r *pgProfileRepository) Update(ctx context.Context, profile *Profile) error {
	query := `
		UPDATE profiles
		SET email = $2, name = $3, role = $4, active = $5, updated_at = NOW()
		WHERE uid = $1
	`
	_, err := r.pool.Exec(ctx, query,
		profile.UID, profile.Email, profile.Name, profile.Role, profile.Active,
	)
	return err
}

func (r *pgProfileRepository) SetRole(ctx context.Context, uid, role string) error {
	query := `UPDATE profiles SET role = $2, updated_at = NOW() WHERE uid = $1`
	_, err := r.pool.Exec(ctx, query, uid, role)
	return err
}

func (r *pgProfileRepository) BumpClaimsVersion(ctx context.Context, uid string) (int, error) {
	query := `UPDATE profiles SET claims_version = claims_version + 1, updated_at = NOW() WHERE uid = $1 RETURNING claims_version`
	var version int
	err := r.pool.QueryRow(ctx, query, uid).Scan(&version)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	return version, err
}

func (r *pgProfileRepository) SaveRefreshToken(ctx context.Context, rt *RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token, uid, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, rt.Token, rt.UID, rt.ExpiresAt).
		Scan(&rt.ID, &rt.CreatedAt)
}

func (r *pgProfileRepository) FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	query := `SELECT id, token, uid, expires_at, created_at FROM refresh_tokens WHERE token = $1`
	rt := &RefreshToken{}
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&rt.ID, &rt.Token, &rt.UID, &rt.ExpiresAt, &rt.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *pgProfileRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`
	_, err := r.pool.Exec(ctx, query, token)
	return err
}

func (r *pgProfileRepository) SaveLoginToken(ctx context.Context, lt *LoginToken) error {
	query := `
		INSERT INTO login_tokens (id, email, secret_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	return r.pool.QueryRow(ctx, query, lt.ID, lt.Email, lt.SecretHash, lt.ExpiresAt).
		Scan(&lt.CreatedAt)
}

func (r *pgProfileRepository) FindLoginToken(ctx context.Context, id string) (*LoginToken, error) {
	query := `SELECT id, email, secret_hash, expires_at, used_at, created_at FROM login_tokens WHERE id = $1`
	lt := &LoginToken{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&lt.ID, &lt.Email, &lt.SecretHash, &lt.ExpiresAt, &lt.UsedAt, &lt.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lt, nil
}

func (r *pgProfileRepository) MarkLoginTokenUsed(ctx context.Context, id string) error {
	query := `UPDATE login_tokens SET used_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgProfileRepository) DeleteExpiredLoginTokens(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM login_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *pgProfileRepository) queryProfile(ctx context.Context, query string, args ...interface{}) (*Profile, error) {
	p := &Profile{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.UID, &p.Email, &p.Name, &p.Role, &p.Active, &p.ClaimsVersion,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
