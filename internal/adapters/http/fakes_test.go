package httpadapter

import (
	"context"
	"time"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
)

func sampleInquiry() *domain.Inquiry {
	return &domain.Inquiry{
		ID:        "inq-1",
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		Subject:   "Booking question",
		Message:   "I want to book a tour",
		Status:    domain.StatusProcessing,
		Priority:  domain.PriorityMedium,
		CreatedAt: time.Now().UTC(),
	}
}

type submitterFake struct {
	inq *domain.Inquiry
	err error
}

func (f submitterFake) Submit(context.Context, domain.Submission) (*domain.Inquiry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.inq, nil
}

type triagerFake struct {
	triaged     []string
	reprocessed []string
	err         error
}

func (f *triagerFake) TriageByID(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.triaged = append(f.triaged, id)
	return nil
}

func (f *triagerFake) ReprocessByID(_ context.Context, id string, _ bool) error {
	if f.err != nil {
		return f.err
	}
	f.reprocessed = append(f.reprocessed, id)
	return nil
}

type readerFake struct {
	inq     *domain.Inquiry
	pending []domain.Inquiry
	err     error
}

func (f readerFake) GetByID(context.Context, string) (*domain.Inquiry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.inq, nil
}

func (f readerFake) ListPending(context.Context, int) ([]domain.Inquiry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pending, nil
}

type adminFake struct {
	resp        *domain.InquiryResponse
	transitions []domain.InquiryStatus
	err         error
}

func (f *adminFake) RespondManually(context.Context, string, string, string) (*domain.InquiryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *adminFake) TransitionStatus(_ context.Context, _ string, status domain.InquiryStatus) error {
	if f.err != nil {
		return f.err
	}
	f.transitions = append(f.transitions, status)
	return nil
}

type responsesFake struct {
	list []domain.InquiryResponse
	err  error
}

func (f responsesFake) AppendBotResponse(context.Context, *domain.InquiryResponse) error    { return nil }
func (f responsesFake) AppendManualResponse(context.Context, *domain.InquiryResponse) error { return nil }

func (f responsesFake) ListByInquiry(context.Context, string) ([]domain.InquiryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

type templatesFake struct {
	list    []domain.ResponseTemplate
	created []*domain.ResponseTemplate
	updated []*domain.ResponseTemplate
	deleted []string
	err     error
}

func (f *templatesFake) FindActiveByCategory(context.Context, string) ([]domain.ResponseTemplate, error) {
	return f.list, f.err
}

func (f *templatesFake) FindActiveGeneral(context.Context) (*domain.ResponseTemplate, error) {
	return nil, f.err
}

func (f *templatesFake) Create(_ context.Context, tpl *domain.ResponseTemplate) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, tpl)
	return nil
}

func (f *templatesFake) Update(_ context.Context, tpl *domain.ResponseTemplate) error {
	if f.err != nil {
		return f.err
	}
	f.updated = append(f.updated, tpl)
	return nil
}

func (f *templatesFake) List(context.Context, bool) ([]domain.ResponseTemplate, error) {
	return f.list, f.err
}

func (f *templatesFake) SoftDelete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}
