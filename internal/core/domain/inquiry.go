package domain

import "time"

type InquiryStatus string

const (
	StatusNew          InquiryStatus = "new"
	StatusProcessing   InquiryStatus = "processing"
	StatusBotResponded InquiryStatus = "bot_responded"
	StatusResolved     InquiryStatus = "resolved"
	StatusNeedsReview  InquiryStatus = "needs_review"
	StatusInProgress   InquiryStatus = "in_progress"
	StatusClosed       InquiryStatus = "closed"
	StatusError        InquiryStatus = "error"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Submission is the raw contact-form payload before an inquiry exists.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

// Inquiry is one customer-submitted support message.
type Inquiry struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`

	Status                 InquiryStatus `json:"status"`
	BotProcessed           bool          `json:"bot_processed"`
	BotConfidence          *float64      `json:"bot_confidence,omitempty"`
	RequiresHumanAttention bool          `json:"requires_human_attention"`
	Sentiment              Sentiment     `json:"sentiment,omitempty"`
	Priority               Priority      `json:"priority"`
	ResponseCount          int           `json:"response_count"`

	CreatedAt      time.Time  `json:"created_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	LastResponseAt *time.Time `json:"last_response_at,omitempty"`
}

// InquiryResponse is one reply recorded against an inquiry, bot or human.
type InquiryResponse struct {
	ID                  string    `json:"id"`
	InquiryID           string    `json:"inquiry_id"`
	ResponseText        string    `json:"response_text"`
	IsBot               bool      `json:"is_bot"`
	BotConfidence       *float64  `json:"bot_confidence,omitempty"`
	RequiresHumanReview bool      `json:"requires_human_review"`
	Responder           string    `json:"responder,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// TriageResult carries everything a finished triage pass writes back to
// the inquiry row in a single update.
type TriageResult struct {
	Status                 InquiryStatus
	BotProcessed           bool
	BotConfidence          *float64
	Sentiment              Sentiment
	Priority               Priority
	RequiresHumanAttention bool
	ResolvedAt             *time.Time
}

// DerivePriority maps the analysis flags onto the inquiry priority scale.
func DerivePriority(sentiment Sentiment, isUrgent bool) Priority {
	switch {
	case isUrgent:
		return PriorityUrgent
	case sentiment == SentimentNegative:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}
