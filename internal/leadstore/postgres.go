package leadstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/crewsight/crewsight-platform/internal/leadscore"
)

// PgxPool is the subset of pgxpool.Pool the store needs. pgxmock satisfies it
// in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists lead records in the relational database.
type PostgresStore struct {
	pool PgxPool
}

// NewPostgresStore initializes a store backed by a pgx pool.
func NewPostgresStore(pool PgxPool) *PostgresStore {
	if pool == nil {
		panic("leadstore: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

var _ Store = (*PostgresStore)(nil)

const leadColumns = `id, contact_name, contact_email, contact_phone, company_name,
	team_size, industry, interests, urgency, message, conversation_context,
	source_channel, session_id, score, priority, is_hot_lead, reasons,
	status, assigned_to, created_at, last_activity_at`

func (s *PostgresStore) Put(ctx context.Context, rec *Record) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO leads (id, contact_name, contact_email, contact_phone, company_name,
			team_size, industry, interests, urgency, message, conversation_context,
			source_channel, session_id, score, priority, is_hot_lead, reasons,
			status, assigned_to, created_at, last_activity_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.Input.ContactName, rec.Input.ContactEmail, rec.Input.ContactPhone,
		rec.Input.CompanyName, rec.Input.TeamSizeBucket, rec.Input.Industry,
		rec.Input.Interests, string(rec.Input.Urgency), rec.Input.Message,
		rec.Input.ConversationContext, rec.Input.SourceChannel, rec.Input.SessionID,
		rec.Score.Score, string(rec.Score.Priority), rec.Score.IsHotLead, rec.Score.Reasons,
		string(rec.Status), rec.AssignedTo, rec.CreatedAt, rec.LastActivityAt)
	if err != nil {
		return fmt.Errorf("leadstore: insert failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateID
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leadstore: get failed: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("leadstore: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("leadstore: scan failed: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads`).Scan(&count); err != nil {
		return 0, fmt.Errorf("leadstore: count failed: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status Status, assignedTo string) (*Record, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE leads
		SET status = $2,
		    assigned_to = CASE WHEN $3 <> '' THEN $3 ELSE assigned_to END,
		    last_activity_at = $4
		WHERE id = $1
		RETURNING `+leadColumns, id, string(status), assignedTo, time.Now().UTC())
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leadstore: status update failed: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) EraseByEmail(ctx context.Context, email string) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM leads WHERE contact_email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return 0, fmt.Errorf("leadstore: erase failed: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var (
		rec      Record
		urgency  string
		priority string
		status   string
	)
	if err := row.Scan(
		&rec.ID, &rec.Input.ContactName, &rec.Input.ContactEmail, &rec.Input.ContactPhone,
		&rec.Input.CompanyName, &rec.Input.TeamSizeBucket, &rec.Input.Industry,
		&rec.Input.Interests, &urgency, &rec.Input.Message, &rec.Input.ConversationContext,
		&rec.Input.SourceChannel, &rec.Input.SessionID,
		&rec.Score.Score, &priority, &rec.Score.IsHotLead, &rec.Score.Reasons,
		&status, &rec.AssignedTo, &rec.CreatedAt, &rec.LastActivityAt,
	); err != nil {
		return nil, err
	}
	rec.Input.Urgency = leadscore.Urgency(urgency)
	rec.Score.Priority = leadscore.Priority(priority)
	rec.Status = Status(status)
	return &rec, nil
}
