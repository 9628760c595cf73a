package ports

import (
	"context"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
)

// InquiryRepository persists and reads inquiry state.
type InquiryRepository interface {
	Create(ctx context.Context, inq *domain.Inquiry) error
	GetByID(ctx context.Context, id string) (*domain.Inquiry, error)
	UpdateStatus(ctx context.Context, id string, status domain.InquiryStatus, requiresAttention bool) error
	SaveTriageResult(ctx context.Context, id string, res domain.TriageResult) error
	ClearTriageState(ctx context.Context, id string, clearResponses bool) error
	ListPending(ctx context.Context, limit int) ([]domain.Inquiry, error)
}

// ResponseRepository appends and lists per-inquiry reply rows. Appending a
// bot reply also flips the inquiry to bot_responded in the same transaction.
type ResponseRepository interface {
	AppendBotResponse(ctx context.Context, resp *domain.InquiryResponse) error
	AppendManualResponse(ctx context.Context, resp *domain.InquiryResponse) error
	ListByInquiry(ctx context.Context, inquiryID string) ([]domain.InquiryResponse, error)
}

// TemplateRepository reads and manages canned response templates. Triage
// only uses the two find methods; the rest serves the admin surface.
type TemplateRepository interface {
	FindActiveByCategory(ctx context.Context, category string) ([]domain.ResponseTemplate, error)
	FindActiveGeneral(ctx context.Context) (*domain.ResponseTemplate, error)
	Create(ctx context.Context, tpl *domain.ResponseTemplate) error
	Update(ctx context.Context, tpl *domain.ResponseTemplate) error
	List(ctx context.Context, includeInactive bool) ([]domain.ResponseTemplate, error)
	SoftDelete(ctx context.Context, id string) error
}

// MessageQueue publishes/consumes inquiry-submitted events.
type MessageQueue interface {
	PublishInquirySubmitted(ctx context.Context, inquiryID string) error
	SubscribeInquirySubmitted(ctx context.Context, handler func(context.Context, string) error) error
}

// IntentAnalyzer classifies inquiry text into category, confidence,
// sentiment and urgency. Implementations never fail on malformed input.
type IntentAnalyzer interface {
	Analyze(message, subject string) domain.Analysis
}

// Notifier attempts email delivery. Errors are reported for logging only;
// callers never let them affect inquiry state.
type Notifier interface {
	Send(ctx context.Context, n domain.Notification) error
}

// EventPublisher emits triage outcome events for downstream analytics.
type EventPublisher interface {
	PublishTriageOutcome(ctx context.Context, event domain.TriageEvent) error
}

// TriageObserver receives instrumentation callbacks during a triage pass.
// Implementations must be cheap and must not block.
type TriageObserver interface {
	EscalationRecorded(reason string)
	NotificationFailed()
}
