package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
	"github.com/kirillkom/tour-inquiry-service/internal/core/ports"
)

// adminTransitions are the status moves an administrator may make by hand.
// Moving back to needs_review is the explicit manual-escalation action.
var adminTransitions = map[domain.InquiryStatus]bool{
	domain.StatusInProgress:  true,
	domain.StatusResolved:    true,
	domain.StatusClosed:      true,
	domain.StatusNeedsReview: true,
}

// adminSources are the states an inquiry must already be in before an
// administrator may move it by hand. New and in-flight inquiries belong to
// the triage pipeline until it lands them somewhere terminal.
var adminSources = map[domain.InquiryStatus]bool{
	domain.StatusResolved:    true,
	domain.StatusNeedsReview: true,
	domain.StatusInProgress:  true,
}

type InquiryAdminUseCase struct {
	inquiries ports.InquiryRepository
	responses ports.ResponseRepository
}

func NewInquiryAdminUseCase(
	inquiries ports.InquiryRepository,
	responses ports.ResponseRepository,
) *InquiryAdminUseCase {
	return &InquiryAdminUseCase{
		inquiries: inquiries,
		responses: responses,
	}
}

// RespondManually records a human reply and resolves the inquiry.
func (uc *InquiryAdminUseCase) RespondManually(ctx context.Context, inquiryID, responder, text string) (*domain.InquiryResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "respond manually", errors.New("response text is required"))
	}
	if _, err := uc.inquiries.GetByID(ctx, inquiryID); err != nil {
		return nil, fmt.Errorf("fetch inquiry by id: %w", err)
	}

	resp := &domain.InquiryResponse{
		ID:           uuid.NewString(),
		InquiryID:    inquiryID,
		ResponseText: text,
		Responder:    responder,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.responses.AppendManualResponse(ctx, resp); err != nil {
		return nil, fmt.Errorf("append manual response: %w", err)
	}
	if err := uc.inquiries.UpdateStatus(ctx, inquiryID, domain.StatusResolved, false); err != nil {
		return nil, fmt.Errorf("set status=resolved: %w", err)
	}
	return resp, nil
}

// TransitionStatus applies an administrator's status change. Escalating to
// needs_review raises the attention flag; every other transition clears it
// because a human has taken over.
func (uc *InquiryAdminUseCase) TransitionStatus(ctx context.Context, inquiryID string, status domain.InquiryStatus) error {
	if !adminTransitions[status] {
		return domain.WrapError(domain.ErrInvalidInput, "transition status",
			fmt.Errorf("status %q is not an admin transition", status))
	}
	inq, err := uc.inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		return fmt.Errorf("fetch inquiry by id: %w", err)
	}
	if !adminSources[inq.Status] {
		return domain.WrapError(domain.ErrInvalidInput, "transition status",
			fmt.Errorf("inquiry in status %q cannot be moved by hand", inq.Status))
	}

	requiresAttention := status == domain.StatusNeedsReview
	if err := uc.inquiries.UpdateStatus(ctx, inquiryID, status, requiresAttention); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}
