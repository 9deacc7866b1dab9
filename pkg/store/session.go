package store

import "time"

// Category identifies which side-effecting action an issue maps to.
type Category string

const (
	CategoryITIssue        Category = "it_issue"
	CategoryHRMeeting      Category = "hr_meeting"
	CategoryGeneralQuery   Category = "general_query"
	CategoryPolicyQuestion Category = "policy_question"
)

// Actionable reports whether the category can be turned into a record.
func (c Category) Actionable() bool {
	return c == CategoryITIssue || c == CategoryHRMeeting
}

// PendingAction is the single unconfirmed issue waiting for a yes/no reply.
type PendingAction struct {
	Category     Category  `json:"category"`
	OriginalText string    `json:"original_text"` // verbatim user message
	CreatedAt    time.Time `json:"created_at"`
}

// Session represents one conversation.
// PendingAction is non-nil iff the previous turn ended in a confirmation prompt.
type Session struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id,omitempty"`
	PendingAction *PendingAction `json:"pending_action,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	// Metadata for last interaction
	LastQuery string `json:"last_query"`
}

// HasPending reports whether the session awaits a confirmation reply.
func (s *Session) HasPending() bool {
	return s != nil && s.PendingAction != nil
}

// SetPending records the issue awaiting confirmation.
func (s *Session) SetPending(category Category, originalText string, now time.Time) {
	s.PendingAction = &PendingAction{
		Category:     category,
		OriginalText: originalText,
		CreatedAt:    now,
	}
}

// TakePending clears the pending action and returns it.
func (s *Session) TakePending() *PendingAction {
	action := s.PendingAction
	s.PendingAction = nil
	return action
}

// Requester identifies who a ticket or meeting is raised for.
type Requester struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// DefaultRequesterName is used when the caller is anonymous.
const DefaultRequesterName = "User"

// Normalize fills the anonymous display name.
func (r Requester) Normalize() Requester {
	if r.Name == "" {
		r.Name = DefaultRequesterName
	}
	return r
}
