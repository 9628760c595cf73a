package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
	"github.com/kirillkom/tour-inquiry-service/internal/core/ports"
)

type SubmitInquiryUseCase struct {
	inquiries ports.InquiryRepository
	queue     ports.MessageQueue
}

func NewSubmitInquiryUseCase(
	inquiries ports.InquiryRepository,
	queue ports.MessageQueue,
) *SubmitInquiryUseCase {
	return &SubmitInquiryUseCase{
		inquiries: inquiries,
		queue:     queue,
	}
}

// Submit persists the inquiry and hands it to the triage queue. The
// submitter is always acknowledged once the row exists: if the queue
// publish fails, the inquiry is parked for human review instead of
// surfacing an error.
func (uc *SubmitInquiryUseCase) Submit(ctx context.Context, sub domain.Submission) (*domain.Inquiry, error) {
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inq := &domain.Inquiry{
		ID:        uuid.NewString(),
		UserID:    sub.UserID,
		Name:      strings.TrimSpace(sub.Name),
		Email:     strings.TrimSpace(sub.Email),
		Phone:     strings.TrimSpace(sub.Phone),
		Subject:   strings.TrimSpace(sub.Subject),
		Message:   sub.Message,
		Status:    domain.StatusNew,
		Priority:  domain.PriorityMedium,
		CreatedAt: now,
	}

	if err := uc.inquiries.Create(ctx, inq); err != nil {
		return nil, fmt.Errorf("create inquiry: %w", err)
	}

	if err := uc.inquiries.UpdateStatus(ctx, inq.ID, domain.StatusProcessing, false); err != nil {
		return nil, fmt.Errorf("set status=processing: %w", err)
	}
	inq.Status = domain.StatusProcessing

	if err := uc.queue.PublishInquirySubmitted(ctx, inq.ID); err != nil {
		slog.Error("inquiry publish failed, parking for review",
			"inquiry_id", inq.ID,
			"error", err,
		)
		if parkErr := uc.inquiries.UpdateStatus(ctx, inq.ID, domain.StatusNeedsReview, true); parkErr != nil {
			slog.Error("failed to park unqueued inquiry",
				"inquiry_id", inq.ID,
				"error", parkErr,
			)
		} else {
			inq.Status = domain.StatusNeedsReview
			inq.RequiresHumanAttention = true
		}
	}

	return inq, nil
}

func validateSubmission(sub domain.Submission) error {
	missing := func(field string) error {
		return domain.WrapError(domain.ErrInvalidInput, "validate submission", errors.New(field+" is required"))
	}
	if strings.TrimSpace(sub.Name) == "" {
		return missing("name")
	}
	if strings.TrimSpace(sub.Email) == "" {
		return missing("email")
	}
	if strings.TrimSpace(sub.Subject) == "" {
		return missing("subject")
	}
	if strings.TrimSpace(sub.Message) == "" {
		return missing("message")
	}
	return nil
}
