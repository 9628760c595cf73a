package usecase

import (
	"strings"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
)

const (
	ReasonNegativeSentiment  = "Negative sentiment detected"
	ReasonUrgent             = "Urgent inquiry"
	ReasonLowConfidence      = "Low confidence in categorization"
	ReasonPotentialComplaint = "Potential complaint"
)

// escalationConfidenceThreshold is the categorization confidence below
// which a human must look at the inquiry regardless of other signals.
const escalationConfidenceThreshold = 0.5

var complaintKeywords = []string{"complaint", "refund", "problem", "issue"}

// EscalationEvaluator decides whether a human must handle an inquiry,
// independent of whether an automated reply was generated. Stateless.
type EscalationEvaluator struct{}

func NewEscalationEvaluator() *EscalationEvaluator {
	return &EscalationEvaluator{}
}

// Evaluate accumulates every applicable escalation reason, in order.
func (e *EscalationEvaluator) Evaluate(inq *domain.Inquiry, analysis domain.Analysis) domain.EscalationDecision {
	var reasons []string

	if analysis.Sentiment == domain.SentimentNegative {
		reasons = append(reasons, ReasonNegativeSentiment)
	}
	if analysis.IsUrgent {
		reasons = append(reasons, ReasonUrgent)
	}
	if analysis.Confidence < escalationConfidenceThreshold {
		reasons = append(reasons, ReasonLowConfidence)
	}

	message := strings.ToLower(inq.Message)
	for _, keyword := range complaintKeywords {
		if strings.Contains(message, keyword) {
			reasons = append(reasons, ReasonPotentialComplaint)
			break
		}
	}

	return domain.EscalationDecision{
		ShouldEscalate: len(reasons) > 0,
		Reasons:        reasons,
	}
}
