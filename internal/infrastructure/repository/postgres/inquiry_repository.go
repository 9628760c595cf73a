package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
)

type InquiryRepository struct {
	db *sql.DB
}

func NewInquiryRepository(db *sql.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *InquiryRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026032601)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS inquiries (
	id TEXT PRIMARY KEY,
	user_id TEXT,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT,
	subject TEXT NOT NULL,
	message TEXT NOT NULL,
	status TEXT NOT NULL,
	bot_processed BOOLEAN NOT NULL DEFAULT FALSE,
	bot_confidence DOUBLE PRECISION,
	requires_human_attention BOOLEAN NOT NULL DEFAULT FALSE,
	sentiment TEXT,
	priority TEXT NOT NULL DEFAULT 'medium',
	response_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	resolved_at TIMESTAMPTZ,
	last_response_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_inquiries_status ON inquiries(status);
CREATE INDEX IF NOT EXISTS idx_inquiries_created_at ON inquiries(created_at DESC);

CREATE TABLE IF NOT EXISTS inquiry_responses (
	id TEXT PRIMARY KEY,
	inquiry_id TEXT NOT NULL REFERENCES inquiries(id),
	response_text TEXT NOT NULL,
	is_bot BOOLEAN NOT NULL DEFAULT FALSE,
	bot_confidence DOUBLE PRECISION,
	requires_human_review BOOLEAN NOT NULL DEFAULT FALSE,
	responder TEXT,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_inquiry_responses_inquiry ON inquiry_responses(inquiry_id);

CREATE TABLE IF NOT EXISTS response_templates (
	id TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	trigger_keywords TEXT NOT NULL DEFAULT '',
	response_text TEXT NOT NULL,
	confidence_threshold DOUBLE PRECISION NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	deleted_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_response_templates_category ON response_templates(category);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *InquiryRepository) Create(ctx context.Context, inq *domain.Inquiry) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO inquiries (
	id, user_id, name, email, phone, subject, message, status, bot_processed, bot_confidence,
	requires_human_attention, sentiment, priority, response_count, created_at, resolved_at, last_response_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
`,
		inq.ID, nullIfEmpty(inq.UserID), inq.Name, inq.Email, nullIfEmpty(inq.Phone), inq.Subject, inq.Message,
		string(inq.Status), inq.BotProcessed, inq.BotConfidence, inq.RequiresHumanAttention,
		nullIfEmpty(string(inq.Sentiment)), string(inq.Priority), inq.ResponseCount,
		inq.CreatedAt, inq.ResolvedAt, inq.LastResponseAt,
	)
	if err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}
	return nil
}

func (r *InquiryRepository) GetByID(ctx context.Context, id string) (*domain.Inquiry, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, name, email, phone, subject, message, status, bot_processed, bot_confidence,
	requires_human_attention, sentiment, priority, response_count, created_at, resolved_at, last_response_at
FROM inquiries
WHERE id = $1
`, id)

	inq, err := scanInquiry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrInquiryNotFound, "get inquiry", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan inquiry: %w", err)
	}
	return inq, nil
}

// UpdateStatus moves the inquiry and keeps resolved_at in step: entering
// resolved or closed stamps it, everything else leaves it untouched.
func (r *InquiryRepository) UpdateStatus(ctx context.Context, id string, status domain.InquiryStatus, requiresAttention bool) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE inquiries
SET status = $2,
	requires_human_attention = $3,
	resolved_at = CASE WHEN $2 IN ('resolved', 'closed') THEN $4 ELSE resolved_at END
WHERE id = $1
`, id, string(status), requiresAttention, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update inquiry status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update inquiry status rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrInquiryNotFound, "update inquiry status", fmt.Errorf("id=%s", id))
	}
	return nil
}

func (r *InquiryRepository) SaveTriageResult(ctx context.Context, id string, res domain.TriageResult) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE inquiries
SET status = $2,
	bot_processed = $3,
	bot_confidence = $4,
	sentiment = $5,
	priority = $6,
	requires_human_attention = $7,
	resolved_at = $8
WHERE id = $1
`, id, string(res.Status), res.BotProcessed, res.BotConfidence, string(res.Sentiment),
		string(res.Priority), res.RequiresHumanAttention, res.ResolvedAt)
	if err != nil {
		return fmt.Errorf("save triage result: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save triage result rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrInquiryNotFound, "save triage result", fmt.Errorf("id=%s", id))
	}
	return nil
}

// ClearTriageState resets the bot fields so a reprocess runs a fresh pass,
// optionally deleting prior bot responses and recounting what remains.
func (r *InquiryRepository) ClearTriageState(ctx context.Context, id string, clearResponses bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if clearResponses {
		if _, err := tx.ExecContext(ctx, `
DELETE FROM inquiry_responses WHERE inquiry_id = $1 AND is_bot
`, id); err != nil {
			return fmt.Errorf("delete bot responses: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `
UPDATE inquiries
SET bot_processed = FALSE,
	bot_confidence = NULL,
	requires_human_attention = FALSE,
	resolved_at = NULL,
	response_count = (SELECT COUNT(*) FROM inquiry_responses WHERE inquiry_id = $1)
WHERE id = $1
`, id)
	if err != nil {
		return fmt.Errorf("clear triage state: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("clear triage state rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrInquiryNotFound, "clear triage state", fmt.Errorf("id=%s", id))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear tx: %w", err)
	}
	return nil
}

// ListPending returns inquiries a human should look at: flagged for
// attention, escalated or errored, or never picked up by the bot.
func (r *InquiryRepository) ListPending(ctx context.Context, limit int) ([]domain.Inquiry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, name, email, phone, subject, message, status, bot_processed, bot_confidence,
	requires_human_attention, sentiment, priority, response_count, created_at, resolved_at, last_response_at
FROM inquiries
WHERE requires_human_attention
	OR status IN ('needs_review', 'error')
	OR (NOT bot_processed AND status NOT IN ('resolved', 'processing', 'closed'))
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending inquiries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Inquiry, 0)
	for rows.Next() {
		inq, err := scanInquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		out = append(out, *inq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inquiries: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInquiry(row rowScanner) (*domain.Inquiry, error) {
	var inq domain.Inquiry
	var userID, phone, sentiment sql.NullString
	var status, priority string

	err := row.Scan(
		&inq.ID, &userID, &inq.Name, &inq.Email, &phone, &inq.Subject, &inq.Message,
		&status, &inq.BotProcessed, &inq.BotConfidence, &inq.RequiresHumanAttention,
		&sentiment, &priority, &inq.ResponseCount, &inq.CreatedAt, &inq.ResolvedAt, &inq.LastResponseAt,
	)
	if err != nil {
		return nil, err
	}

	inq.UserID = userID.String
	inq.Phone = phone.String
	inq.Status = domain.InquiryStatus(status)
	inq.Sentiment = domain.Sentiment(sentiment.String)
	inq.Priority = domain.Priority(priority)
	return &inq, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
