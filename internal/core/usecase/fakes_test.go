package usecase

import (
	"context"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
)

type statusCall struct {
	status    domain.InquiryStatus
	attention bool
}

type inquiryRepoFake struct {
	inquiry      *domain.Inquiry
	getErr       error
	createErr    error
	statusErr    error
	saveErr      error
	clearErr     error
	created      []*domain.Inquiry
	statusCalls  []statusCall
	savedResult  *domain.TriageResult
	clearedID    string
	clearedResps bool
	pending      []domain.Inquiry
}

func (f *inquiryRepoFake) Create(_ context.Context, inq *domain.Inquiry) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyInq := *inq
	f.created = append(f.created, &copyInq)
	return nil
}

func (f *inquiryRepoFake) GetByID(context.Context, string) (*domain.Inquiry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyInq := *f.inquiry
	return &copyInq, nil
}

func (f *inquiryRepoFake) UpdateStatus(_ context.Context, _ string, status domain.InquiryStatus, attention bool) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, attention: attention})
	if f.statusErr != nil {
		return f.statusErr
	}
	return nil
}

func (f *inquiryRepoFake) SaveTriageResult(_ context.Context, _ string, res domain.TriageResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedResult = &res
	return nil
}

func (f *inquiryRepoFake) ClearTriageState(_ context.Context, id string, clearResponses bool) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.clearedID = id
	f.clearedResps = clearResponses
	return nil
}

func (f *inquiryRepoFake) ListPending(context.Context, int) ([]domain.Inquiry, error) {
	return f.pending, nil
}

type responseRepoFake struct {
	appendErr error
	bot       []*domain.InquiryResponse
	manual    []*domain.InquiryResponse
}

func (f *responseRepoFake) AppendBotResponse(_ context.Context, resp *domain.InquiryResponse) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.bot = append(f.bot, resp)
	return nil
}

func (f *responseRepoFake) AppendManualResponse(_ context.Context, resp *domain.InquiryResponse) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.manual = append(f.manual, resp)
	return nil
}

func (f *responseRepoFake) ListByInquiry(context.Context, string) ([]domain.InquiryResponse, error) {
	return nil, nil
}

type templateRepoFake struct {
	byCategory map[string][]domain.ResponseTemplate
	general    *domain.ResponseTemplate
	findErr    error
}

func (f *templateRepoFake) FindActiveByCategory(_ context.Context, category string) ([]domain.ResponseTemplate, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byCategory[category], nil
}

func (f *templateRepoFake) FindActiveGeneral(context.Context) (*domain.ResponseTemplate, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.general == nil {
		return nil, domain.WrapError(domain.ErrTemplateNotFound, "find general template", domain.ErrTemplateNotFound)
	}
	return f.general, nil
}

func (f *templateRepoFake) Create(context.Context, *domain.ResponseTemplate) error { return nil }
func (f *templateRepoFake) Update(context.Context, *domain.ResponseTemplate) error { return nil }

func (f *templateRepoFake) List(context.Context, bool) ([]domain.ResponseTemplate, error) {
	return nil, nil
}

func (f *templateRepoFake) SoftDelete(context.Context, string) error { return nil }

type queueFake struct {
	publishErr error
	published  []string
}

func (f *queueFake) PublishInquirySubmitted(_ context.Context, inquiryID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, inquiryID)
	return nil
}

func (f *queueFake) SubscribeInquirySubmitted(context.Context, func(context.Context, string) error) error {
	return nil
}

type analyzerFake struct {
	analysis domain.Analysis
}

func (f *analyzerFake) Analyze(string, string) domain.Analysis { return f.analysis }

type notifierFake struct {
	sendErr error
	sent    []domain.Notification
}

func (f *notifierFake) Send(_ context.Context, n domain.Notification) error {
	f.sent = append(f.sent, n)
	return f.sendErr
}

type observerFake struct {
	reasons      []string
	notifyFailed int
}

func (f *observerFake) EscalationRecorded(reason string) {
	f.reasons = append(f.reasons, reason)
}

func (f *observerFake) NotificationFailed() {
	f.notifyFailed++
}

type eventsFake struct {
	publishErr error
	events     []domain.TriageEvent
}

func (f *eventsFake) PublishTriageOutcome(_ context.Context, event domain.TriageEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.events = append(f.events, event)
	return nil
}
