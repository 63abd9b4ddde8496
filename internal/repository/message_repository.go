package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Message is a single inbound (or staff reply) message. Messages sharing a
// ThreadID form an ordered conversation; a thread counts as converted when
// any member message carries ConvertedToProject.
type Message struct {
	ID                 string
	ThreadID           string
	Name               string
	Email              string
	Body               string
	Source             string
	Page               string
	ClientUID          *string
	SenderRole         string
	Status             string
	Read               bool
	ConvertedToProject bool
	ProjectID          *string
	CreatedAt          time.Time
}

// Thread is the inbox rollup: the latest message of a conversation plus
// aggregate flags across its members.
type Thread struct {
	ThreadID     string
	Latest       *Message
	MessageCount int
	UnreadCount  int
	Converted    bool
}

type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	FindByID(ctx context.Context, id string) (*Message, error)
	FindAll(ctx context.Context) ([]*Message, error)
	FindByThread(ctx context.Context, threadID string) ([]*Message, error)
	FindThreads(ctx context.Context) ([]*Thread, error)
	MarkRead(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type pgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &pgMessageRepository{pool: pool}
}

const messageColumns = `id, thread_id, name, email, body, source, page, client_uid, sender_role, status, read, converted_to_project, project_id, created_at`

func (r *pgMessageRepository) Create(ctx context.Context, msg *Message) error {
	// IDs are generated here rather than by the database so a fresh
	// message can default its thread id to its own id.
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.ThreadID == "" {
		msg.ThreadID = msg.ID
	}
	query := `
		INSERT INTO messages (id, thread_id, name, email, body, source, page, client_uid, sender_role, status, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`
	return r.pool.QueryRow(ctx, query,
		msg.ID, msg.ThreadID, msg.Name, msg.Email, msg.Body, msg.Source,
		msg.Page, msg.ClientUID, msg.SenderRole, msg.Status, msg.Read,
	).Scan(&msg.CreatedAt)
}

func (r *pgMessageRepository) FindByID(ctx context.Context, id string) (*Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	m := &Message{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.ThreadID, &m.Name, &m.Email, &m.Body, &m.Source, &m.Page,
		&m.ClientUID, &m.SenderRole, &m.Status, &m.Read,
		&m.ConvertedToProject, &m.ProjectID, &m.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgMessageRepository) FindAll(ctx context.Context) ([]*Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages ORDER BY created_at DESC`
	return r.queryMessages(ctx, query)
}

func (r *pgMessageRepository) FindByThread(ctx context.Context, threadID string) ([]*Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE thread_id = $1 ORDER BY created_at`
	return r.queryMessages(ctx, query, threadID)
}

func (r *pgMessageRepository) FindThreads(ctx context.Context) ([]*Thread, error) {
	query := `
		SELECT DISTINCT ON (thread_id)
		       ` + messageColumns + `,
		       COUNT(*) OVER (PARTITION BY thread_id),
		       COUNT(*) FILTER (WHERE NOT read) OVER (PARTITION BY thread_id),
		       BOOL_OR(converted_to_project) OVER (PARTITION BY thread_id)
		FROM messages
		ORDER BY thread_id, created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []*Thread
	for rows.Next() {
		m := &Message{}
		t := &Thread{Latest: m}
		if err := rows.Scan(
			&m.ID, &m.ThreadID, &m.Name, &m.Email, &m.Body, &m.Source, &m.Page,
			&m.ClientUID, &m.SenderRole, &m.Status, &m.Read,
			&m.ConvertedToProject, &m.ProjectID, &m.CreatedAt,
			&t.MessageCount, &t.UnreadCount, &t.Converted,
		); err != nil {
			return nil, err
		}
		t.ThreadID = m.ThreadID
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

func (r *pgMessageRepository) MarkRead(ctx context.Context, id string) error {
	query := `UPDATE messages SET read = TRUE WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgMessageRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE messages SET status = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, status)
	return err
}

func (r *pgMessageRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM messages WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgMessageRepository) queryMessages(ctx context.Context, query string, args ...interface{}) ([]*Message, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		m := &Message{}
		if err := rows.Scan(
			&m.ID, &m.ThreadID, &m.Name, &m.Email, &m.Body, &m.Source, &m.Page,
			&m.ClientUID, &m.SenderRole, &m.Status, &m.Read,
			&m.ConvertedToProject, &m.ProjectID, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
