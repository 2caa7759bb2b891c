package records

import (
	"context"
	"fmt"
	"sort"

	"github.com/advocase-dev/advocase-store/pkg/schema"
)

func feedbackVisibility() Visibility[schema.Feedback] {
	return selfScoped(func(f schema.Feedback) string { return f.UserID })
}

// SubmitFeedback records app feedback from the actor. Bug reports are
// triaged at high priority, everything else at medium.
func (s *Service) SubmitFeedback(ctx context.Context, actor schema.User, ftype schema.FeedbackType, title, description string, rating int, device schema.DeviceInfo) (schema.Feedback, error) {
	if err := requireCap(actor, CapSubmitFeedback, "submit feedback"); err != nil {
		return schema.Feedback{}, err
	}
	priority := schema.SeverityMedium
	if ftype == schema.FeedbackBug {
		priority = schema.SeverityHigh
	}
	fb := schema.Feedback{
		ID:          s.newID(),
		UserID:      actor.ID,
		UserName:    actor.Name,
		UserRole:    actor.Role,
		Type:        ftype,
		Title:       title,
		Description: description,
		Rating:      rating,
		Timestamp:   s.now().UTC(),
		Status:      schema.FeedbackPending,
		Priority:    priority,
		Device:      device,
	}
	if err := s.feedback.Insert(ctx, fb); err != nil {
		s.observer.PersistFailed(KeyFeedback)
		return fb, err
	}
	s.observer.RecordCreated(KeyFeedback)
	s.recordAudit(ctx, actor, "FEEDBACK_SUBMIT", "Feedback", fb.ID, fmt.Sprintf("Submitted %s feedback", ftype), schema.SeverityLow)
	return fb, nil
}

// MyFeedback returns the actor's own submissions, newest first. Admins see
// everything.
func (s *Service) MyFeedback(actor schema.User) []schema.Feedback {
	out := s.feedback.View(actor, feedbackVisibility())
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

// FeedbackByStatus filters submissions for triage. Admin-only.
func (s *Service) FeedbackByStatus(actor schema.User, status schema.FeedbackStatus) ([]schema.Feedback, error) {
	if err := requireCap(actor, CapTriageFeedback, "triage feedback"); err != nil {
		return nil, err
	}
	var out []schema.Feedback
	for _, fb := range s.feedback.All() {
		if fb.Status == status {
			out = append(out, fb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// UpdateFeedbackStatus moves a submission through triage. Unknown ids are a
// silent no-op.
func (s *Service) UpdateFeedbackStatus(ctx context.Context, actor schema.User, id string, status schema.FeedbackStatus) (schema.Feedback, bool, error) {
	if err := requireCap(actor, CapTriageFeedback, "triage feedback"); err != nil {
		return schema.Feedback{}, false, err
	}
	fb, updated, err := s.feedback.Patch(ctx, id, func(f schema.Feedback) schema.Feedback {
		f.Status = status
		return f
	})
	if err != nil {
		s.observer.PersistFailed(KeyFeedback)
		return fb, updated, err
	}
	if updated {
		s.recordAudit(ctx, actor, "FEEDBACK_TRIAGE", "Feedback", id, fmt.Sprintf("Feedback marked %s", status), schema.SeverityLow)
	}
	return fb, updated, nil
}
