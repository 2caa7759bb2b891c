// Package schema defines the record types shared across the Advocase platform:
// the store library, the HTTP API, the SDK and the CLI all exchange these shapes.
package schema

import "time"

// Role identifies what a signed-in actor is allowed to see and do.
type Role string

const (
	RoleParent   Role = "parent"
	RoleAdvocate Role = "advocate"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleParent, RoleAdvocate, RoleAdmin:
		return true
	}
	return false
}

// User is a signed-up actor. New registrations start unapproved and cannot
// sign in until an admin flips IsApproved.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	IsApproved bool      `json:"is_approved"`
}

// RecordID implements records.Record.
func (u User) RecordID() string { return u.ID }

// Child is owned by a parent; ParentID scopes visibility.
type Child struct {
	ID          string `json:"id"`
	ParentID    string `json:"parent_id"`
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Grade       string `json:"grade,omitempty"`
	School      string `json:"school,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

func (c Child) RecordID() string { return c.ID }
