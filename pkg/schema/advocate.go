package schema

import "time"

// AdvocateProfile is a directory listing for a professional advocate.
type AdvocateProfile struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Specialties  []string        `json:"specialties"`
	Credentials  []string        `json:"credentials"`
	Experience   int             `json:"experience_years"`
	Rating       float64         `json:"rating"`
	ReviewCount  int             `json:"review_count"`
	Bio          string          `json:"bio"`
	Availability map[string]bool `json:"availability"`
	HourlyRate   float64         `json:"hourly_rate,omitempty"`
	Languages    []string        `json:"languages"`
	Location     string          `json:"location"`
	IsActive     bool            `json:"is_active"`
	ResponseTime string          `json:"response_time"`
}

func (p AdvocateProfile) RecordID() string { return p.ID }

// MatchStatus is the lifecycle state of a parent/advocate pairing.
type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchAccepted  MatchStatus = "accepted"
	MatchDeclined  MatchStatus = "declined"
	MatchActive    MatchStatus = "active"
	MatchCompleted MatchStatus = "completed"
)

// AdvocateMatch pairs a parent with an advocate, scored by fit.
type AdvocateMatch struct {
	ID           string      `json:"id"`
	AdvocateID   string      `json:"advocate_id"`
	ParentID     string      `json:"parent_id"`
	ChildID      string      `json:"child_id"`
	MatchScore   int         `json:"match_score"`
	MatchReasons []string    `json:"match_reasons"`
	Status       MatchStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	AcceptedAt   *time.Time  `json:"accepted_at,omitempty"`
}

func (m AdvocateMatch) RecordID() string { return m.ID }

// WaitlistStatus is the state of a pending match request.
type WaitlistStatus string

const (
	WaitlistWaiting   WaitlistStatus = "waiting"
	WaitlistMatched   WaitlistStatus = "matched"
	WaitlistCancelled WaitlistStatus = "cancelled"
)

// WaitlistEntry queues a parent waiting to be matched with an advocate.
type WaitlistEntry struct {
	ID                string         `json:"id"`
	ParentID          string         `json:"parent_id"`
	ChildID           string         `json:"child_id"`
	HelpType          string         `json:"help_type"`
	Priority          Severity       `json:"priority"`
	Position          int            `json:"position"`
	EstimatedWaitTime string         `json:"estimated_wait_time"`
	CreatedAt         time.Time      `json:"created_at"`
	Status            WaitlistStatus `json:"status"`
}

func (w WaitlistEntry) RecordID() string { return w.ID }
