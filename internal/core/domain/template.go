package domain

import "time"

// ResponseTemplate is a category's canned reply. The body supports
// {user_name} and {user_email} placeholders; unresolved placeholders are
// left verbatim when rendered.
type ResponseTemplate struct {
	ID                  string     `json:"id"`
	Category            string     `json:"category"`
	TriggerKeywords     string     `json:"trigger_keywords"`
	ResponseText        string     `json:"response_text"`
	ConfidenceThreshold float64    `json:"confidence_threshold"`
	IsActive            bool       `json:"is_active"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	DeletedAt           *time.Time `json:"deleted_at,omitempty"`
}

// CategoryGeneral is the fallback category used when no keyword group
// matches, and the last resort when looking up templates.
const CategoryGeneral = "general"
