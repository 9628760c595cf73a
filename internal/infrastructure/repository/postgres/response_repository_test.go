package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
)

func TestResponseRepositoryAppendBotResponseCommitsBothWrites(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewResponseRepository(db)
	conf := 0.83
	resp := &domain.InquiryResponse{
		ID:            "resp-1",
		InquiryID:     "inq-1",
		ResponseText:  "Thanks for your booking question.",
		IsBot:         true,
		BotConfidence: &conf,
		CreatedAt:     time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO inquiry_responses").
		WithArgs(resp.ID, resp.InquiryID, resp.ResponseText, resp.BotConfidence, false, resp.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE inquiries").
		WithArgs(resp.InquiryID, resp.BotConfidence, resp.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.AppendBotResponse(context.Background(), resp); err != nil {
		t.Fatalf("AppendBotResponse() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestResponseRepositoryAppendBotResponseRollsBackOnMissingInquiry(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewResponseRepository(db)
	resp := &domain.InquiryResponse{
		ID:           "resp-1",
		InquiryID:    "missing",
		ResponseText: "hello",
		IsBot:        true,
		CreatedAt:    time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO inquiry_responses").
		WithArgs(resp.ID, resp.InquiryID, resp.ResponseText, nil, false, resp.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE inquiries").
		WithArgs(resp.InquiryID, nil, resp.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = repo.AppendBotResponse(context.Background(), resp)
	if !domain.IsKind(err, domain.ErrInquiryNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestResponseRepositoryAppendManualResponseBumpsCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewResponseRepository(db)
	resp := &domain.InquiryResponse{
		ID:           "resp-2",
		InquiryID:    "inq-1",
		ResponseText: "We confirmed your booking.",
		Responder:    "sam",
		CreatedAt:    time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO inquiry_responses").
		WithArgs(resp.ID, resp.InquiryID, resp.ResponseText, resp.Responder, resp.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE inquiries").
		WithArgs(resp.InquiryID, resp.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.AppendManualResponse(context.Background(), resp); err != nil {
		t.Fatalf("AppendManualResponse() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestResponseRepositoryListByInquiryOrdersOldestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewResponseRepository(db)
	rows := sqlmock.NewRows([]string{
		"id", "inquiry_id", "response_text", "is_bot", "bot_confidence",
		"requires_human_review", "responder", "created_at",
	}).
		AddRow("resp-1", "inq-1", "bot reply", true, 0.8, false, nil, time.Now()).
		AddRow("resp-2", "inq-1", "human reply", false, nil, false, "sam", time.Now())

	mock.ExpectQuery("FROM inquiry_responses").
		WithArgs("inq-1").
		WillReturnRows(rows)

	list, err := repo.ListByInquiry(context.Background(), "inq-1")
	if err != nil {
		t.Fatalf("ListByInquiry() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(list))
	}
	if !list[0].IsBot || list[1].Responder != "sam" {
		t.Fatalf("unexpected rows: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
