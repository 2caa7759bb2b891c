package schema

import "time"

// FeedbackType categorizes a submitted feedback item.
type FeedbackType string

const (
	FeedbackBug         FeedbackType = "bug"
	FeedbackFeature     FeedbackType = "feature"
	FeedbackGeneral     FeedbackType = "general"
	FeedbackUI          FeedbackType = "ui"
	FeedbackPerformance FeedbackType = "performance"
)

// FeedbackStatus is the review state of a feedback item.
type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "pending"
	FeedbackReviewed FeedbackStatus = "reviewed"
	FeedbackResolved FeedbackStatus = "resolved"
)

// DeviceInfo captures where a feedback item was submitted from.
type DeviceInfo struct {
	Platform  string `json:"platform"`
	Version   string `json:"version"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Feedback is a user-submitted report. Priority is derived from the type at
// submission time: bugs are high, everything else medium.
type Feedback struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	UserName    string         `json:"user_name"`
	UserRole    Role           `json:"user_role"`
	Type        FeedbackType   `json:"type"`
	Category    string         `json:"category"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Rating      int            `json:"rating,omitempty"`
	Device      DeviceInfo     `json:"device"`
	Location    string         `json:"location"`
	Timestamp   time.Time      `json:"timestamp"`
	Status      FeedbackStatus `json:"status"`
	Priority    Severity       `json:"priority"`
}

func (f Feedback) RecordID() string { return f.ID }
