package ports

import (
	"context"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
)

// InquirySubmitter is the inbound contract for customer submissions.
type InquirySubmitter interface {
	Submit(ctx context.Context, sub domain.Submission) (*domain.Inquiry, error)
}

// InquiryTriager runs the automated triage pass for one inquiry.
type InquiryTriager interface {
	TriageByID(ctx context.Context, inquiryID string) error
	ReprocessByID(ctx context.Context, inquiryID string, clearOldResponses bool) error
}

// InquiryReader is the inbound read model for inquiry state.
type InquiryReader interface {
	GetByID(ctx context.Context, id string) (*domain.Inquiry, error)
	ListPending(ctx context.Context, limit int) ([]domain.Inquiry, error)
}

// InquiryAdmin covers manual administrative actions on an inquiry.
type InquiryAdmin interface {
	RespondManually(ctx context.Context, inquiryID, responder, text string) (*domain.InquiryResponse, error)
	TransitionStatus(ctx context.Context, inquiryID string, status domain.InquiryStatus) error
}
