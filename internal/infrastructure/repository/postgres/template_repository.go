package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
)

type TemplateRepository struct {
	db *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// FindActiveByCategory orders strictest threshold first so the selector
// picks the most specific template the confidence still clears.
func (r *TemplateRepository) FindActiveByCategory(ctx context.Context, category string) ([]domain.ResponseTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, category, trigger_keywords, response_text, confidence_threshold, is_active, created_at, updated_at, deleted_at
FROM response_templates
WHERE category = $1 AND is_active AND deleted_at IS NULL
ORDER BY confidence_threshold DESC, created_at DESC
`, category)
	if err != nil {
		return nil, fmt.Errorf("find templates by category: %w", err)
	}
	defer rows.Close()

	return collectTemplates(rows)
}

func (r *TemplateRepository) FindActiveGeneral(ctx context.Context) (*domain.ResponseTemplate, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, category, trigger_keywords, response_text, confidence_threshold, is_active, created_at, updated_at, deleted_at
FROM response_templates
WHERE category = $1 AND is_active AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT 1
`, domain.CategoryGeneral)

	tpl, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrTemplateNotFound, "find general template", errors.New("no active general template"))
		}
		return nil, fmt.Errorf("scan general template: %w", err)
	}
	return tpl, nil
}

func (r *TemplateRepository) Create(ctx context.Context, tpl *domain.ResponseTemplate) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO response_templates (id, category, trigger_keywords, response_text, confidence_threshold, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, tpl.ID, tpl.Category, tpl.TriggerKeywords, tpl.ResponseText, tpl.ConfidenceThreshold, tpl.IsActive, tpl.CreatedAt, tpl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func (r *TemplateRepository) Update(ctx context.Context, tpl *domain.ResponseTemplate) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE response_templates
SET category = $2,
	trigger_keywords = $3,
	response_text = $4,
	confidence_threshold = $5,
	is_active = $6,
	updated_at = $7
WHERE id = $1 AND deleted_at IS NULL
`, tpl.ID, tpl.Category, tpl.TriggerKeywords, tpl.ResponseText, tpl.ConfidenceThreshold, tpl.IsActive, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update template rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrTemplateNotFound, "update template", fmt.Errorf("id=%s", tpl.ID))
	}
	return nil
}

func (r *TemplateRepository) List(ctx context.Context, includeInactive bool) ([]domain.ResponseTemplate, error) {
	query := `
SELECT id, category, trigger_keywords, response_text, confidence_threshold, is_active, created_at, updated_at, deleted_at
FROM response_templates
WHERE deleted_at IS NULL
`
	if !includeInactive {
		query += ` AND is_active`
	}
	query += ` ORDER BY category ASC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	return collectTemplates(rows)
}

func (r *TemplateRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE response_templates
SET deleted_at = $2, is_active = FALSE
WHERE id = $1 AND deleted_at IS NULL
`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("soft delete template: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrTemplateNotFound, "soft delete template", fmt.Errorf("id=%s", id))
	}
	return nil
}

func collectTemplates(rows *sql.Rows) ([]domain.ResponseTemplate, error) {
	out := make([]domain.ResponseTemplate, 0)
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, *tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return out, nil
}

func scanTemplate(row rowScanner) (*domain.ResponseTemplate, error) {
	var tpl domain.ResponseTemplate
	err := row.Scan(
		&tpl.ID, &tpl.Category, &tpl.TriggerKeywords, &tpl.ResponseText,
		&tpl.ConfidenceThreshold, &tpl.IsActive, &tpl.CreatedAt, &tpl.UpdatedAt, &tpl.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}
