package schema

import "time"

// AppointmentType is the call medium for an appointment.
type AppointmentType string

const (
	AppointmentVideo AppointmentType = "video"
	AppointmentPhone AppointmentType = "phone"
)

// AppointmentStatus is the lifecycle state of a scheduled call.
type AppointmentStatus string

const (
	AppointmentScheduled   AppointmentStatus = "scheduled"
	AppointmentConfirmed   AppointmentStatus = "confirmed"
	AppointmentCompleted   AppointmentStatus = "completed"
	AppointmentCancelled   AppointmentStatus = "cancelled"
	AppointmentRescheduled AppointmentStatus = "rescheduled"
)

// TimeSlot is a bookable window in an advocate's calendar.
// Date is YYYY-MM-DD, times are HH:MM (the wire format used by clients).
type TimeSlot struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
	AdvocateID  string `json:"advocate_id"`
}

func (s TimeSlot) RecordID() string { return s.ID }

// Reminders records which channels an appointment reminder goes out on.
type Reminders struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

// Appointment is a booked call between a parent and an advocate.
type Appointment struct {
	ID          string            `json:"id"`
	ParentID    string            `json:"parent_id"`
	AdvocateID  string            `json:"advocate_id"`
	ChildID     string            `json:"child_id"`
	Date        string            `json:"date"`
	StartTime   string            `json:"start_time"`
	EndTime     string            `json:"end_time"`
	Type        AppointmentType   `json:"type"`
	Status      AppointmentStatus `json:"status"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	MeetingLink string            `json:"meeting_link,omitempty"`
	PhoneNumber string            `json:"phone_number,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Reminders   Reminders         `json:"reminders"`
	Notes       string            `json:"notes,omitempty"`
}

func (a Appointment) RecordID() string { return a.ID }

// StartsAt combines the date and start time for ordering and upcoming checks.
func (a Appointment) StartsAt() time.Time {
	t, err := time.Parse("2006-01-02 15:04", a.Date+" "+a.StartTime)
	if err != nil {
		return time.Time{}
	}
	return t
}
