package usecase

import (
	"testing"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
)

func TestEvaluateNoTriggers(t *testing.T) {
	e := NewEscalationEvaluator()

	decision := e.Evaluate(testInquiry(), domain.Analysis{
		Category:   "booking",
		Confidence: 0.8,
		Sentiment:  domain.SentimentNeutral,
	})

	if decision.ShouldEscalate {
		t.Fatalf("expected no escalation, got reasons %v", decision.Reasons)
	}
	if len(decision.Reasons) != 0 {
		t.Fatalf("expected empty reasons, got %v", decision.Reasons)
	}
}

func TestEvaluateLowConfidenceAlwaysEscalates(t *testing.T) {
	e := NewEscalationEvaluator()

	decision := e.Evaluate(testInquiry(), domain.Analysis{
		Category:   "booking",
		Confidence: 0.49,
		Sentiment:  domain.SentimentPositive,
	})

	if !decision.ShouldEscalate {
		t.Fatalf("confidence below 0.5 must escalate")
	}
	if len(decision.Reasons) == 0 {
		t.Fatalf("reasons must not be empty when escalating")
	}
	if decision.Reasons[0] != ReasonLowConfidence {
		t.Fatalf("expected low-confidence reason, got %v", decision.Reasons)
	}
}

func TestEvaluateAccumulatesAllReasons(t *testing.T) {
	e := NewEscalationEvaluator()

	inq := testInquiry()
	inq.Message = "This is a terrible disappointing experience, I want a refund now!"
	decision := e.Evaluate(inq, domain.Analysis{
		Category:   "cancellation",
		Confidence: 0.2,
		Sentiment:  domain.SentimentNegative,
		IsUrgent:   true,
	})

	want := []string{ReasonNegativeSentiment, ReasonUrgent, ReasonLowConfidence, ReasonPotentialComplaint}
	if len(decision.Reasons) != len(want) {
		t.Fatalf("expected %d reasons, got %v", len(want), decision.Reasons)
	}
	for i, reason := range want {
		if decision.Reasons[i] != reason {
			t.Fatalf("reason %d: expected %q, got %q", i, reason, decision.Reasons[i])
		}
	}
}

func TestEvaluateComplaintVocabulary(t *testing.T) {
	e := NewEscalationEvaluator()

	for _, message := range []string{
		"I have a complaint about the guide",
		"please issue a refund",
		"there was a problem with the bus",
	} {
		inq := testInquiry()
		inq.Message = message
		decision := e.Evaluate(inq, domain.Analysis{Confidence: 0.9, Sentiment: domain.SentimentNeutral})

		if !decision.ShouldEscalate {
			t.Fatalf("expected escalation for %q", message)
		}
		found := false
		for _, reason := range decision.Reasons {
			if reason == ReasonPotentialComplaint {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected potential-complaint reason for %q, got %v", message, decision.Reasons)
		}
	}
}

func TestEvaluateComplaintReasonReportedOnce(t *testing.T) {
	e := NewEscalationEvaluator()

	inq := testInquiry()
	inq.Message = "problem problem issue refund complaint"
	decision := e.Evaluate(inq, domain.Analysis{Confidence: 0.9})

	count := 0
	for _, reason := range decision.Reasons {
		if reason == ReasonPotentialComplaint {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected the complaint reason once, got %v", decision.Reasons)
	}
}
