package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
	"github.com/kirillkom/tour-inquiry-service/internal/core/ports"
)

// reviewConfidenceThreshold marks generated replies for human review when
// the classifier was not confident enough.
const reviewConfidenceThreshold = 0.7

// reviewIndicators force human review of a generated reply even when the
// bot answered. Distinct from the escalation complaint vocabulary.
var reviewIndicators = []string{"complaint", "problem", "issue", "disappointed"}

type ResponseSelector struct {
	templates ports.TemplateRepository
}

func NewResponseSelector(templates ports.TemplateRepository) *ResponseSelector {
	return &ResponseSelector{templates: templates}
}

// Select decides whether an automated reply is appropriate and renders it.
// A nil response with nil error means the bot declines (negative sentiment,
// urgency, or no usable template) and the caller must escalate.
func (s *ResponseSelector) Select(ctx context.Context, inq *domain.Inquiry, analysis domain.Analysis) (*domain.GeneratedResponse, error) {
	if analysis.Sentiment == domain.SentimentNegative || analysis.IsUrgent {
		return nil, nil
	}

	tpl, err := s.findTemplate(ctx, analysis.Category, analysis.Confidence)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, nil
	}

	return &domain.GeneratedResponse{
		Text:           renderTemplate(tpl.ResponseText, inq),
		Category:       analysis.Category,
		Confidence:     analysis.Confidence,
		RequiresReview: requiresReview(inq, analysis),
		TemplateID:     tpl.ID,
	}, nil
}

// findTemplate walks the lookup ladder: active template for the category
// whose threshold the confidence clears, then any active template for the
// category, then the active general template.
func (s *ResponseSelector) findTemplate(ctx context.Context, category string, confidence float64) (*domain.ResponseTemplate, error) {
	candidates, err := s.templates.FindActiveByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("find templates for category %s: %w", category, err)
	}

	for i := range candidates {
		if candidates[i].ConfidenceThreshold <= confidence {
			return &candidates[i], nil
		}
	}
	if len(candidates) > 0 {
		return &candidates[0], nil
	}

	general, err := s.templates.FindActiveGeneral(ctx)
	if err != nil {
		if domain.IsKind(err, domain.ErrTemplateNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find general template: %w", err)
	}
	return general, nil
}

// renderTemplate substitutes the sender's details into the named
// placeholders. Unresolved placeholders stay verbatim.
func renderTemplate(body string, inq *domain.Inquiry) string {
	return strings.NewReplacer(
		"{user_name}", inq.Name,
		"{user_email}", inq.Email,
	).Replace(body)
}

func requiresReview(inq *domain.Inquiry, analysis domain.Analysis) bool {
	if analysis.Confidence < reviewConfidenceThreshold {
		return true
	}
	if analysis.Sentiment == domain.SentimentNegative || analysis.IsUrgent {
		return true
	}
	message := strings.ToLower(inq.Message)
	for _, indicator := range reviewIndicators {
		if strings.Contains(message, indicator) {
			return true
		}
	}
	return false
}
