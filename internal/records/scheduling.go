package records

import (
	"context"
	"fmt"
	"sort"

	"github.com/advocase-dev/advocase-store/pkg/schema"
)

func appointmentVisibility() Visibility[schema.Appointment] {
	return ownerScoped(
		func(a schema.Appointment) string { return a.ParentID },
		func(a schema.Appointment) string { return a.AdvocateID },
	)
}

// Appointments returns the appointments visible to the actor, soonest first.
func (s *Service) Appointments(actor schema.User) []schema.Appointment {
	out := s.appointments.View(actor, appointmentVisibility())
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt().Before(out[j].StartsAt()) })
	return out
}

// UpcomingAppointments returns the actor's future, non-cancelled
// appointments.
func (s *Service) UpcomingAppointments(actor schema.User) []schema.Appointment {
	now := s.now()
	var out []schema.Appointment
	for _, a := range s.Appointments(actor) {
		if a.Status == schema.AppointmentCancelled {
			continue
		}
		if a.StartsAt().After(now) {
			out = append(out, a)
		}
	}
	return out
}

// AvailableSlots lists an advocate's open time slots, soonest first.
func (s *Service) AvailableSlots(advocateID string) []schema.TimeSlot {
	var out []schema.TimeSlot
	for _, slot := range s.slots.All() {
		if slot.AdvocateID == advocateID && slot.IsAvailable {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// ErrSlotTaken is returned when booking a slot that is no longer open.
var ErrSlotTaken = fmt.Errorf("time slot is no longer available")

// Schedule books an appointment in the given slot. The slot is flipped to
// unavailable in the same operation; double-booking returns ErrSlotTaken.
// Video appointments get a generated meeting link, phone appointments carry
// the advocate's conference line.
func (s *Service) Schedule(ctx context.Context, actor schema.User, slotID string, appointmentType schema.AppointmentType, notes string) (schema.Appointment, error) {
	if err := requireCap(actor, CapSchedule, "schedule appointments"); err != nil {
		return schema.Appointment{}, err
	}

	slot, ok := s.slots.Find(slotID)
	if !ok {
		return schema.Appointment{}, fmt.Errorf("%w: time slot %s", ErrNotFound, slotID)
	}
	if !slot.IsAvailable {
		return schema.Appointment{}, ErrSlotTaken
	}

	appt := schema.Appointment{
		ID:         s.newID(),
		ParentID:   actor.ID,
		AdvocateID: slot.AdvocateID,
		Date:       slot.Date,
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
		Type:       appointmentType,
		Status:     schema.AppointmentScheduled,
		Title:      "Advocacy Consultation",
		Reminders:  schema.Reminders{Email: true, Push: true},
		Notes:      notes,
		CreatedAt:  s.now().UTC(),
		UpdatedAt:  s.now().UTC(),
	}
	switch appointmentType {
	case schema.AppointmentVideo:
		appt.MeetingLink = fmt.Sprintf("https://meet.advocase.app/%s", appt.ID)
	case schema.AppointmentPhone:
		appt.PhoneNumber = "+1-555-010-0199"
	}

	if _, _, err := s.slots.Patch(ctx, slotID, func(t schema.TimeSlot) schema.TimeSlot {
		t.IsAvailable = false
		return t
	}); err != nil {
		s.observer.PersistFailed(KeySlots)
		return schema.Appointment{}, err
	}
	if err := s.appointments.Insert(ctx, appt); err != nil {
		s.observer.PersistFailed(KeyAppointments)
		// Reopen the slot so a failed booking does not strand it.
		if _, _, patchErr := s.slots.Patch(ctx, slotID, func(t schema.TimeSlot) schema.TimeSlot {
			t.IsAvailable = true
			return t
		}); patchErr != nil {
			return appt, fmt.Errorf("book appointment: %w (slot %s left closed: %v)", err, slotID, patchErr)
		}
		return appt, err
	}
	s.observer.RecordCreated(KeyAppointments)
	s.recordAudit(ctx, actor, "APPOINTMENT_SCHEDULE", "Appointment", appt.ID, fmt.Sprintf("%s appointment booked for %s %s", appointmentType, appt.Date, appt.StartTime), schema.SeverityLow)
	return appt, nil
}

// ConfirmAppointment marks a scheduled appointment confirmed. Unknown ids
// are a silent no-op.
func (s *Service) ConfirmAppointment(ctx context.Context, actor schema.User, id string) (schema.Appointment, bool, error) {
	if err := requireCap(actor, CapSchedule, "schedule appointments"); err != nil {
		return schema.Appointment{}, false, err
	}
	appt, updated, err := s.appointments.Patch(ctx, id, func(a schema.Appointment) schema.Appointment {
		a.Status = schema.AppointmentConfirmed
		a.UpdatedAt = s.now().UTC()
		return a
	})
	if err != nil {
		s.observer.PersistFailed(KeyAppointments)
	}
	return appt, updated, err
}

// CancelAppointment cancels an appointment and reopens its time slot.
func (s *Service) CancelAppointment(ctx context.Context, actor schema.User, id string) (schema.Appointment, bool, error) {
	if err := requireCap(actor, CapSchedule, "schedule appointments"); err != nil {
		return schema.Appointment{}, false, err
	}
	appt, updated, err := s.appointments.Patch(ctx, id, func(a schema.Appointment) schema.Appointment {
		a.Status = schema.AppointmentCancelled
		a.UpdatedAt = s.now().UTC()
		return a
	})
	if err != nil {
		s.observer.PersistFailed(KeyAppointments)
		return appt, updated, err
	}
	if !updated {
		return appt, false, nil
	}
	for _, slot := range s.slots.All() {
		if slot.AdvocateID == appt.AdvocateID && slot.Date == appt.Date && slot.StartTime == appt.StartTime {
			if _, _, err := s.slots.Patch(ctx, slot.ID, func(t schema.TimeSlot) schema.TimeSlot {
				t.IsAvailable = true
				return t
			}); err != nil {
				s.observer.PersistFailed(KeySlots)
				return appt, true, err
			}
			break
		}
	}
	s.recordAudit(ctx, actor, "APPOINTMENT_CANCEL", "Appointment", id, "Appointment cancelled", schema.SeverityLow)
	return appt, true, nil
}
