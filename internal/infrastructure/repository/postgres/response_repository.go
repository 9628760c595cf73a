package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
)

type ResponseRepository struct {
	db *sql.DB
}

func NewResponseRepository(db *sql.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// AppendBotResponse records the generated reply and the bot bookkeeping on
// the inquiry in one transaction, so a crash cannot leave a reply without
// its bot_responded marker or vice versa.
func (r *ResponseRepository) AppendBotResponse(ctx context.Context, resp *domain.InquiryResponse) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bot response tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO inquiry_responses (id, inquiry_id, response_text, is_bot, bot_confidence, requires_human_review, responder, created_at)
VALUES ($1, $2, $3, TRUE, $4, $5, NULL, $6)
`, resp.ID, resp.InquiryID, resp.ResponseText, resp.BotConfidence, resp.RequiresHumanReview, resp.CreatedAt); err != nil {
		return fmt.Errorf("insert bot response: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
UPDATE inquiries
SET status = 'bot_responded',
	bot_processed = TRUE,
	bot_confidence = $2,
	response_count = response_count + 1,
	last_response_at = $3
WHERE id = $1
`, resp.InquiryID, resp.BotConfidence, resp.CreatedAt)
	if err != nil {
		return fmt.Errorf("mark inquiry bot_responded: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark inquiry rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrInquiryNotFound, "append bot response", fmt.Errorf("id=%s", resp.InquiryID))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bot response tx: %w", err)
	}
	return nil
}

func (r *ResponseRepository) AppendManualResponse(ctx context.Context, resp *domain.InquiryResponse) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin manual response tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO inquiry_responses (id, inquiry_id, response_text, is_bot, bot_confidence, requires_human_review, responder, created_at)
VALUES ($1, $2, $3, FALSE, NULL, FALSE, $4, $5)
`, resp.ID, resp.InquiryID, resp.ResponseText, nullIfEmpty(resp.Responder), resp.CreatedAt); err != nil {
		return fmt.Errorf("insert manual response: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
UPDATE inquiries
SET response_count = response_count + 1,
	last_response_at = $2
WHERE id = $1
`, resp.InquiryID, resp.CreatedAt)
	if err != nil {
		return fmt.Errorf("bump inquiry response count: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("bump inquiry rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrInquiryNotFound, "append manual response", fmt.Errorf("id=%s", resp.InquiryID))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit manual response tx: %w", err)
	}
	return nil
}

func (r *ResponseRepository) ListByInquiry(ctx context.Context, inquiryID string) ([]domain.InquiryResponse, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, inquiry_id, response_text, is_bot, bot_confidence, requires_human_review, responder, created_at
FROM inquiry_responses
WHERE inquiry_id = $1
ORDER BY created_at ASC
`, inquiryID)
	if err != nil {
		return nil, fmt.Errorf("list inquiry responses: %w", err)
	}
	defer rows.Close()

	out := make([]domain.InquiryResponse, 0)
	for rows.Next() {
		var resp domain.InquiryResponse
		var responder sql.NullString
		if err := rows.Scan(
			&resp.ID, &resp.InquiryID, &resp.ResponseText, &resp.IsBot,
			&resp.BotConfidence, &resp.RequiresHumanReview, &responder, &resp.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inquiry response: %w", err)
		}
		resp.Responder = responder.String
		out = append(out, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inquiry responses: %w", err)
	}
	return out, nil
}
