package domain

// Analysis is the transient output of one classification pass over an
// inquiry's text. Confidence is a keyword-density heuristic in [0,1],
// not a calibrated probability.
type Analysis struct {
	Category      string    `json:"category"`
	Confidence    float64   `json:"confidence"`
	Sentiment     Sentiment `json:"sentiment"`
	IsUrgent      bool      `json:"is_urgent"`
	KeywordsFound []string  `json:"keywords_found"`
}

// GeneratedResponse is a rendered automated reply ready to persist and send.
type GeneratedResponse struct {
	Text           string  `json:"text"`
	Category       string  `json:"category"`
	Confidence     float64 `json:"confidence"`
	RequiresReview bool    `json:"requires_review"`
	TemplateID     string  `json:"template_id"`
}

// EscalationDecision says whether a human must handle the inquiry, with
// every applicable reason, in evaluation order.
type EscalationDecision struct {
	ShouldEscalate bool     `json:"should_escalate"`
	Reasons        []string `json:"reasons"`
}

// TriageEvent is the outcome record published to the analytics stream
// after an inquiry's status has been committed.
type TriageEvent struct {
	InquiryID  string        `json:"inquiry_id"`
	Category   string        `json:"category"`
	Confidence float64       `json:"confidence"`
	Sentiment  Sentiment     `json:"sentiment"`
	IsUrgent   bool          `json:"is_urgent"`
	Escalated  bool          `json:"escalated"`
	Reasons    []string      `json:"reasons,omitempty"`
	Status     InquiryStatus `json:"status"`
	OccurredAt string        `json:"occurred_at"`
}
