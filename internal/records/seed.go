package records

import (
	"fmt"
	"time"

	"github.com/advocase-dev/advocase-store/pkg/schema"
)

// Seeds bundles the per-domain seed providers injected into a Service.
// Nothing here is shared mutable state: every provider builds fresh values on
// each call.
type Seeds struct {
	Users        SeedProvider[schema.User]
	Children     SeedProvider[schema.Child]
	IEPs         SeedProvider[schema.IEP]
	Cases        SeedProvider[schema.Case]
	Messages     SeedProvider[schema.Message]
	Appointments SeedProvider[schema.Appointment]
	Slots        SeedProvider[schema.TimeSlot]
	Audit        SeedProvider[schema.AuditEntry]
	Feedback     SeedProvider[schema.Feedback]
	Advocates    SeedProvider[schema.AdvocateProfile]
	Matches      SeedProvider[schema.AdvocateMatch]
	Waitlist     SeedProvider[schema.WaitlistEntry]
}

// EmptySeeds yields no seed data anywhere. Useful in tests.
func EmptySeeds() Seeds {
	return Seeds{}
}

func ts(value string) time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return t
}

// DefaultSeeds returns the demo dataset that populates an otherwise-empty
// store: one parent with one child and an analyzed IEP, one active case with
// the seeded advocate, a short message thread, a confirmed appointment, a few
// audit entries and the advocate directory.
func DefaultSeeds() Seeds {
	return Seeds{
		Users: func() []schema.User {
			return []schema.User{
				{ID: "1", Email: "parent@example.com", Name: "Parent User", Role: schema.RoleParent, CreatedAt: ts("2025-06-01T09:00:00Z"), IsApproved: true},
				{ID: "2", Email: "advocate@example.com", Name: "Advocate User", Role: schema.RoleAdvocate, CreatedAt: ts("2025-06-01T09:00:00Z"), IsApproved: true},
				{ID: "3", Email: "admin@example.com", Name: "Admin User", Role: schema.RoleAdmin, CreatedAt: ts("2025-06-01T09:00:00Z"), IsApproved: true},
			}
		},
		Children: func() []schema.Child {
			return []schema.Child{
				{
					ID:          "1",
					ParentID:    "1",
					Name:        "John Doe",
					DateOfBirth: "2015-03-12",
					Grade:       "5th Grade",
					School:      "Lincoln Elementary School",
					Notes:       "Has an IEP for reading and social skills support",
				},
			}
		},
		IEPs: func() []schema.IEP {
			return []schema.IEP{
				{
					ID:         "1",
					ParentID:   "1",
					ChildID:    "1",
					FileName:   "JohnDoe_IEP_2025.pdf",
					FileURL:    "https://example.com/iep1.pdf",
					UploadDate: ts("2025-06-15T10:30:00Z"),
					AdvocateID: "2",
					Summary: &schema.IEPSummary{
						Goals: []string{
							"Improve reading comprehension to grade level",
							"Develop social skills for peer interaction",
							"Increase focus during classroom activities",
						},
						Services: []string{
							"Speech therapy: 30 minutes, twice weekly",
							"Occupational therapy: 45 minutes, once weekly",
							"Resource room support: 60 minutes daily",
						},
						Accommodations: []string{
							"Extended time for assignments and tests",
							"Preferential seating near teacher",
							"Use of visual schedules and reminders",
						},
						Notes:       "John has shown improvement in reading skills but continues to need support with comprehension and social interactions.",
						GeneratedAt: ts("2025-06-15T11:00:00Z"),
					},
					AnalysisStatus: schema.AnalysisDone,
				},
			}
		},
		Cases: func() []schema.Case {
			return []schema.Case{
				{
					ID:         "1",
					ParentID:   "1",
					AdvocateID: "2",
					ChildID:    "1",
					IEPID:      "1",
					Status:     schema.CaseActive,
					HelpType:   "IEP Review and Recommendations",
					CreatedAt:  ts("2025-07-15T10:00:00Z"),
				},
			}
		},
		Messages: func() []schema.Message {
			return []schema.Message{
				{ID: "1", SenderID: "2", ReceiverID: "1", Content: "Hello! I've reviewed John's IEP and have some initial thoughts. When would be a good time to discuss?", Timestamp: ts("2025-07-20T14:30:00Z"), IsRead: true},
				{ID: "2", SenderID: "1", ReceiverID: "2", Content: "Thank you for reviewing it! I'm available tomorrow afternoon or Friday morning.", Timestamp: ts("2025-07-20T15:45:00Z"), IsRead: true},
				{ID: "3", SenderID: "2", ReceiverID: "1", Content: "Great! Let's connect tomorrow at 3pm. I'll send you a list of questions to think about before our call.", Timestamp: ts("2025-07-20T16:10:00Z"), IsRead: false},
			}
		},
		Appointments: func() []schema.Appointment {
			return []schema.Appointment{
				{
					ID:          "appt-1",
					ParentID:    "1",
					AdvocateID:  "2",
					ChildID:     "1",
					Date:        "2025-07-29",
					StartTime:   "14:00",
					EndTime:     "15:00",
					Type:        schema.AppointmentVideo,
					Status:      schema.AppointmentConfirmed,
					Title:       "IEP Review Discussion",
					Description: "Review current IEP goals and discuss upcoming annual meeting",
					MeetingLink: "https://meet.example.com/iep-review-123",
					CreatedAt:   ts("2025-07-28T10:00:00Z"),
					UpdatedAt:   ts("2025-07-28T10:00:00Z"),
					Reminders:   schema.Reminders{Email: true, SMS: true, Push: true},
					Notes:       "Please have current IEP document ready for review",
				},
			}
		},
		Slots:    WeekdaySlots([]string{"2"}, time.Now),
		Audit:    auditSeed,
		Feedback: nil,
		Advocates: func() []schema.AdvocateProfile {
			return []schema.AdvocateProfile{
				{
					ID:          "2",
					Name:        "Sarah Johnson",
					Email:       "sarah@example.com",
					Specialties: []string{"Autism Spectrum Disorders", "Learning Disabilities", "ADHD"},
					Credentials: []string{"M.Ed. Special Education", "Certified Special Education Advocate"},
					Experience:  8,
					Rating:      4.9,
					ReviewCount: 127,
					Bio:         "Passionate advocate with 8+ years helping families navigate special education. Specializes in autism support and IEP development.",
					Availability: map[string]bool{
						"monday": true, "tuesday": true, "wednesday": true, "thursday": true, "friday": true,
						"saturday": false, "sunday": false,
					},
					HourlyRate:   85,
					Languages:    []string{"English", "Spanish"},
					Location:     "California, USA",
					IsActive:     true,
					ResponseTime: "Within 2 hours",
				},
				{
					ID:          "adv-2",
					Name:        "Michael Chen",
					Email:       "michael@example.com",
					Specialties: []string{"Behavioral Support", "Transition Planning", "Assistive Technology"},
					Credentials: []string{"Ph.D. Educational Psychology", "Board Certified Behavior Analyst"},
					Experience:  12,
					Rating:      4.8,
					ReviewCount: 89,
					Bio:         "Experienced advocate focusing on behavioral interventions and transition planning for students with disabilities.",
					Availability: map[string]bool{
						"monday": true, "tuesday": false, "wednesday": true, "thursday": true, "friday": true,
						"saturday": true, "sunday": false,
					},
					HourlyRate:   95,
					Languages:    []string{"English", "Mandarin"},
					Location:     "New York, USA",
					IsActive:     true,
					ResponseTime: "Within 4 hours",
				},
			}
		},
		Matches: func() []schema.AdvocateMatch {
			accepted := ts("2025-07-25T11:30:00Z")
			return []schema.AdvocateMatch{
				{
					ID:         "match-1",
					AdvocateID: "2",
					ParentID:   "1",
					ChildID:    "1",
					MatchScore: 92,
					MatchReasons: []string{
						"Specializes in Autism Spectrum Disorders",
						"High rating (4.9/5)",
						"Available during preferred times",
						"Speaks Spanish (family preference)",
					},
					Status:     schema.MatchActive,
					CreatedAt:  ts("2025-07-25T10:00:00Z"),
					AcceptedAt: &accepted,
				},
			}
		},
		Waitlist: nil,
	}
}

func auditSeed() []schema.AuditEntry {
	return []schema.AuditEntry{
		{ID: "1", UserID: "1", UserName: "Parent User", Action: "DOCUMENT_UPLOAD", Resource: "IEP", ResourceID: "1", Details: "Uploaded IEP document for John Doe", Timestamp: ts("2025-07-28T10:30:00Z"), Severity: schema.SeverityMedium},
		{ID: "2", UserID: "2", UserName: "Advocate User", Action: "DOCUMENT_ACCESS", Resource: "IEP", ResourceID: "1", Details: "Accessed IEP document for review", Timestamp: ts("2025-07-28T11:15:00Z"), Severity: schema.SeverityLow},
		{ID: "3", UserID: "1", UserName: "Parent User", Action: "MESSAGE_SEND", Resource: "MESSAGE", ResourceID: "msg-1", Details: "Sent secure message to advocate", Timestamp: ts("2025-07-28T12:00:00Z"), Severity: schema.SeverityLow},
		{ID: "4", UserID: "3", UserName: "Admin User", Action: "USER_ACCESS", Resource: "ADMIN_DASHBOARD", Details: "Accessed admin dashboard", Timestamp: ts("2025-07-28T13:30:00Z"), Severity: schema.SeverityHigh},
	}
}

// WeekdaySlots builds a seed provider generating hourly morning and afternoon
// slots for each advocate over the next seven weekdays, anchored at now().
// All generated slots start available; bookings flip them as they persist.
func WeekdaySlots(advocateIDs []string, now func() time.Time) SeedProvider[schema.TimeSlot] {
	return func() []schema.TimeSlot {
		var slots []schema.TimeSlot
		start := now()
		for day := 0; day < 7; day++ {
			date := start.AddDate(0, 0, day)
			if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
				continue
			}
			dateStr := date.Format("2006-01-02")
			for _, advocateID := range advocateIDs {
				for _, hour := range []int{9, 10, 11, 13, 14, 15, 16} {
					slots = append(slots, schema.TimeSlot{
						ID:          fmt.Sprintf("slot-%s-%s-%d", advocateID, dateStr, hour),
						Date:        dateStr,
						StartTime:   fmt.Sprintf("%02d:00", hour),
						EndTime:     fmt.Sprintf("%02d:00", hour+1),
						IsAvailable: true,
						AdvocateID:  advocateID,
					})
				}
			}
		}
		return slots
	}
}
