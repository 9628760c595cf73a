package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
)

func inquiryColumns() []string {
	return []string{
		"id", "user_id", "name", "email", "phone", "subject", "message", "status",
		"bot_processed", "bot_confidence", "requires_human_attention", "sentiment",
		"priority", "response_count", "created_at", "resolved_at", "last_response_at",
	}
}

func TestInquiryRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewInquiryRepository(db)
	mock.ExpectQuery("FROM inquiries").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(inquiryColumns()))

	_, err = repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrInquiryNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInquiryRepositoryGetByIDScansNullables(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewInquiryRepository(db)
	rows := sqlmock.NewRows(inquiryColumns()).
		AddRow("inq-1", nil, "Ada", "ada@example.com", nil, "Booking", "I want to book",
			string(domain.StatusNew), false, nil, false, nil, string(domain.PriorityMedium),
			0, time.Now(), nil, nil)

	mock.ExpectQuery("FROM inquiries").
		WithArgs("inq-1").
		WillReturnRows(rows)

	inq, err := repo.GetByID(context.Background(), "inq-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if inq.UserID != "" || inq.Phone != "" || inq.BotConfidence != nil {
		t.Fatalf("expected empty nullables, got %+v", inq)
	}
	if inq.Status != domain.StatusNew {
		t.Fatalf("expected new status, got %s", inq.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInquiryRepositoryUpdateStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewInquiryRepository(db)
	mock.ExpectExec("UPDATE inquiries").
		WithArgs("missing", string(domain.StatusResolved), false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatus(context.Background(), "missing", domain.StatusResolved, false)
	if !domain.IsKind(err, domain.ErrInquiryNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInquiryRepositoryClearTriageStateDeletesBotResponses(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewInquiryRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM inquiry_responses").
		WithArgs("inq-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE inquiries").
		WithArgs("inq-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.ClearTriageState(context.Background(), "inq-1", true); err != nil {
		t.Fatalf("ClearTriageState() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInquiryRepositoryClearTriageStateKeepsResponses(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewInquiryRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE inquiries").
		WithArgs("inq-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.ClearTriageState(context.Background(), "inq-1", false); err != nil {
		t.Fatalf("ClearTriageState() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInquiryRepositoryListPendingAppliesLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewInquiryRepository(db)
	rows := sqlmock.NewRows(inquiryColumns()).
		AddRow("inq-1", nil, "Ada", "ada@example.com", nil, "Booking", "help",
			string(domain.StatusNeedsReview), true, 0.3, true, string(domain.SentimentNegative),
			string(domain.PriorityHigh), 1, time.Now(), nil, time.Now())

	mock.ExpectQuery("FROM inquiries").
		WithArgs(5).
		WillReturnRows(rows)

	pending, err := repo.ListPending(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListPending() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 inquiry, got %d", len(pending))
	}
	if pending[0].Sentiment != domain.SentimentNegative {
		t.Fatalf("expected negative sentiment, got %s", pending[0].Sentiment)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
