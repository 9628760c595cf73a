package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
	"github.com/kirillkom/tour-inquiry-service/internal/core/ports"
)

type TriageInquiryUseCase struct {
	inquiries ports.InquiryRepository
	responses ports.ResponseRepository
	analyzer  ports.IntentAnalyzer
	selector  *ResponseSelector
	escalator *EscalationEvaluator
	notifier  ports.Notifier
	events    ports.EventPublisher
	observer  ports.TriageObserver

	adminEmails []string
}

func NewTriageInquiryUseCase(
	inquiries ports.InquiryRepository,
	responses ports.ResponseRepository,
	analyzer ports.IntentAnalyzer,
	selector *ResponseSelector,
	escalator *EscalationEvaluator,
	notifier ports.Notifier,
	events ports.EventPublisher,
	adminEmails []string,
) *TriageInquiryUseCase {
	return &TriageInquiryUseCase{
		inquiries:   inquiries,
		responses:   responses,
		analyzer:    analyzer,
		selector:    selector,
		escalator:   escalator,
		notifier:    notifier,
		events:      events,
		adminEmails: adminEmails,
	}
}

// SetObserver attaches an instrumentation sink, typically the worker's
// metrics registry. Nil leaves the pass unobserved.
func (uc *TriageInquiryUseCase) SetObserver(observer ports.TriageObserver) {
	uc.observer = observer
}

// TriageByID runs one full triage pass: classify, maybe auto-respond,
// evaluate escalation, commit the final state, then notify. Any failure
// mid-pass parks the inquiry in needs_review with bot_processed left
// false; notification failures never touch the committed state.
func (uc *TriageInquiryUseCase) TriageByID(ctx context.Context, inquiryID string) error {
	inq, err := uc.inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		return fmt.Errorf("fetch inquiry by id: %w", err)
	}
	if inq.BotProcessed {
		return domain.WrapError(domain.ErrInvalidInput, "triage inquiry",
			errors.New("already processed; reprocess to run again"))
	}

	if err := uc.inquiries.UpdateStatus(ctx, inquiryID, domain.StatusProcessing, false); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	analysis := uc.analyzer.Analyze(inq.Message, inq.Subject)

	generated, err := uc.selector.Select(ctx, inq, analysis)
	if err != nil {
		return uc.parkForReview(ctx, inquiryID, fmt.Errorf("select response: %w", err))
	}

	if generated != nil {
		if err := uc.persistBotResponse(ctx, inq, generated); err != nil {
			return uc.parkForReview(ctx, inquiryID, err)
		}
	}

	decision := uc.escalator.Evaluate(inq, analysis)
	result := buildTriageResult(analysis, generated, decision)

	if err := uc.inquiries.SaveTriageResult(ctx, inquiryID, result); err != nil {
		return uc.parkForReview(ctx, inquiryID, fmt.Errorf("save triage result: %w", err))
	}

	// State is committed; everything below is fire-and-forget.
	if uc.observer != nil {
		for _, reason := range decision.Reasons {
			uc.observer.EscalationRecorded(reason)
		}
	}
	uc.notify(ctx, inq, generated, decision)
	uc.publishOutcome(ctx, inq, analysis, decision, result.Status)

	slog.Info("inquiry triaged",
		"inquiry_id", inquiryID,
		"category", analysis.Category,
		"confidence", analysis.Confidence,
		"sentiment", analysis.Sentiment,
		"urgent", analysis.IsUrgent,
		"status", result.Status,
		"escalated", decision.ShouldEscalate,
	)
	return nil
}

// ReprocessByID clears a prior pass and runs triage again, optionally
// deleting the old bot responses first.
func (uc *TriageInquiryUseCase) ReprocessByID(ctx context.Context, inquiryID string, clearOldResponses bool) error {
	if err := uc.inquiries.ClearTriageState(ctx, inquiryID, clearOldResponses); err != nil {
		return fmt.Errorf("clear triage state: %w", err)
	}
	return uc.TriageByID(ctx, inquiryID)
}

func (uc *TriageInquiryUseCase) persistBotResponse(ctx context.Context, inq *domain.Inquiry, generated *domain.GeneratedResponse) error {
	confidence := generated.Confidence
	resp := &domain.InquiryResponse{
		ID:                  uuid.NewString(),
		InquiryID:           inq.ID,
		ResponseText:        generated.Text,
		IsBot:               true,
		BotConfidence:       &confidence,
		RequiresHumanReview: generated.RequiresReview,
		CreatedAt:           time.Now().UTC(),
	}
	if err := uc.responses.AppendBotResponse(ctx, resp); err != nil {
		return fmt.Errorf("append bot response: %w", err)
	}
	return nil
}

func buildTriageResult(analysis domain.Analysis, generated *domain.GeneratedResponse, decision domain.EscalationDecision) domain.TriageResult {
	result := domain.TriageResult{
		BotProcessed: generated != nil,
		Sentiment:    analysis.Sentiment,
		Priority:     domain.DerivePriority(analysis.Sentiment, analysis.IsUrgent),
	}
	if generated != nil {
		confidence := analysis.Confidence
		result.BotConfidence = &confidence
	}

	switch {
	case generated == nil, decision.ShouldEscalate:
		result.Status = domain.StatusNeedsReview
		result.RequiresHumanAttention = true
	default:
		now := time.Now().UTC()
		result.Status = domain.StatusResolved
		result.ResolvedAt = &now
	}
	return result
}

// parkForReview forces the inquiry into needs_review after a mid-pass
// failure so a human picks it up; the original error is what propagates.
func (uc *TriageInquiryUseCase) parkForReview(ctx context.Context, inquiryID string, cause error) error {
	if parkErr := uc.inquiries.UpdateStatus(ctx, inquiryID, domain.StatusNeedsReview, true); parkErr != nil {
		return fmt.Errorf("%w; park for review: %v", cause, parkErr)
	}
	slog.Error("triage pass failed, inquiry parked for review",
		"inquiry_id", inquiryID,
		"error", cause,
	)
	return cause
}

func (uc *TriageInquiryUseCase) notify(ctx context.Context, inq *domain.Inquiry, generated *domain.GeneratedResponse, decision domain.EscalationDecision) {
	if uc.notifier == nil {
		return
	}

	if generated != nil {
		if err := uc.notifier.Send(ctx, botReplyNotification(inq, generated.Text)); err != nil {
			uc.notificationFailed()
			slog.Error("bot reply email failed",
				"inquiry_id", inq.ID,
				"error", err,
			)
		}
	}

	if generated == nil || decision.ShouldEscalate {
		if len(uc.adminEmails) == 0 {
			slog.Warn("no admin recipients configured for escalation alert", "inquiry_id", inq.ID)
			return
		}
		if err := uc.notifier.Send(ctx, escalationNotification(uc.adminEmails, inq, decision.Reasons)); err != nil {
			uc.notificationFailed()
			slog.Error("escalation alert email failed",
				"inquiry_id", inq.ID,
				"error", err,
			)
		}
	}
}

func (uc *TriageInquiryUseCase) notificationFailed() {
	if uc.observer != nil {
		uc.observer.NotificationFailed()
	}
}

func (uc *TriageInquiryUseCase) publishOutcome(ctx context.Context, inq *domain.Inquiry, analysis domain.Analysis, decision domain.EscalationDecision, status domain.InquiryStatus) {
	if uc.events == nil {
		return
	}
	event := domain.TriageEvent{
		InquiryID:  inq.ID,
		Category:   analysis.Category,
		Confidence: analysis.Confidence,
		Sentiment:  analysis.Sentiment,
		IsUrgent:   analysis.IsUrgent,
		Escalated:  decision.ShouldEscalate,
		Reasons:    decision.Reasons,
		Status:     status,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := uc.events.PublishTriageOutcome(ctx, event); err != nil {
		slog.Error("triage outcome publish failed",
			"inquiry_id", inq.ID,
			"error", err,
		)
	}
}
