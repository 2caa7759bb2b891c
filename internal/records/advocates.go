package records

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/advocase-dev/advocase-store/pkg/schema"
)

// AdvocateDirectory lists active advocates, best-rated first.
func (s *Service) AdvocateDirectory() []schema.AdvocateProfile {
	var out []schema.AdvocateProfile
	for _, p := range s.advocates.All() {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	return out
}

// Advocate looks up one directory profile.
func (s *Service) Advocate(id string) (schema.AdvocateProfile, bool) {
	return s.advocates.Find(id)
}

// AdvocatesBySpecialty filters the directory by specialty, case-insensitive.
func (s *Service) AdvocatesBySpecialty(specialty string) []schema.AdvocateProfile {
	want := strings.ToLower(specialty)
	var out []schema.AdvocateProfile
	for _, p := range s.AdvocateDirectory() {
		for _, sp := range p.Specialties {
			if strings.ToLower(sp) == want {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// TopRatedAdvocates returns up to n active advocates by rating.
func (s *Service) TopRatedAdvocates(n int) []schema.AdvocateProfile {
	out := s.AdvocateDirectory()
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ActiveMatch returns the parent's active advocate match, or nil.
func (s *Service) ActiveMatch(parentID string) *schema.AdvocateMatch {
	for _, m := range s.matches.All() {
		if m.ParentID == parentID && (m.Status == schema.MatchActive || m.Status == schema.MatchAccepted) {
			match := m
			return &match
		}
	}
	return nil
}

// MatchedAdvocate resolves the parent's current advocate profile through
// their active match.
func (s *Service) MatchedAdvocate(parentID string) (schema.AdvocateProfile, bool) {
	match := s.ActiveMatch(parentID)
	if match == nil {
		return schema.AdvocateProfile{}, false
	}
	return s.advocates.Find(match.AdvocateID)
}

// Matches returns the pairings visible to the actor.
func (s *Service) Matches(actor schema.User) []schema.AdvocateMatch {
	return s.matches.View(actor, ownerScoped(
		func(m schema.AdvocateMatch) string { return m.ParentID },
		func(m schema.AdvocateMatch) string { return m.AdvocateID },
	))
}

// RequestMatch queues the acting parent for advocate matching. The parent
// joins the waitlist at the back; position and wait estimate are derived
// from the current queue length.
func (s *Service) RequestMatch(ctx context.Context, actor schema.User, childID, helpType string) (schema.WaitlistEntry, error) {
	if err := requireCap(actor, CapRequestMatch, "request advocate matches"); err != nil {
		return schema.WaitlistEntry{}, err
	}

	waiting := 0
	for _, w := range s.waitlist.All() {
		if w.Status == schema.WaitlistWaiting {
			waiting++
		}
	}
	entry := schema.WaitlistEntry{
		ID:                s.newID(),
		ParentID:          actor.ID,
		ChildID:           childID,
		HelpType:          helpType,
		Priority:          schema.SeverityMedium,
		Position:          waiting + 1,
		EstimatedWaitTime: estimateWait(waiting + 1),
		CreatedAt:         s.now().UTC(),
		Status:            schema.WaitlistWaiting,
	}
	if err := s.waitlist.Insert(ctx, entry); err != nil {
		s.observer.PersistFailed(KeyWaitlist)
		return entry, err
	}
	s.observer.RecordCreated(KeyWaitlist)
	s.recordAudit(ctx, actor, "MATCH_REQUEST", "Waitlist", entry.ID, fmt.Sprintf("Joined advocate waitlist for %q", helpType), schema.SeverityLow)
	return entry, nil
}

func estimateWait(position int) string {
	days := position * 2
	if days <= 2 {
		return "1-2 days"
	}
	return fmt.Sprintf("%d-%d days", days-1, days+1)
}

// WaitlistPosition returns the parent's place in the waiting queue, ordered
// by request time. ok is false when the parent has no waiting entry.
func (s *Service) WaitlistPosition(parentID string) (int, bool) {
	var waiting []schema.WaitlistEntry
	for _, w := range s.waitlist.All() {
		if w.Status == schema.WaitlistWaiting {
			waiting = append(waiting, w)
		}
	}
	sort.Slice(waiting, func(i, j int) bool { return waiting[i].CreatedAt.Before(waiting[j].CreatedAt) })
	for i, w := range waiting {
		if w.ParentID == parentID {
			return i + 1, true
		}
	}
	return 0, false
}

// AcceptMatch lets an advocate take a waitlisted parent. The waitlist entry
// flips to matched and an active pairing is created.
func (s *Service) AcceptMatch(ctx context.Context, actor schema.User, waitlistID string) (schema.AdvocateMatch, error) {
	if err := requireCap(actor, CapAcceptMatch, "accept matches"); err != nil {
		return schema.AdvocateMatch{}, err
	}
	entry, ok := s.waitlist.Find(waitlistID)
	if !ok {
		return schema.AdvocateMatch{}, fmt.Errorf("%w: waitlist entry %s", ErrNotFound, waitlistID)
	}
	if entry.Status != schema.WaitlistWaiting {
		return schema.AdvocateMatch{}, fmt.Errorf("waitlist entry %s is %s, not waiting", waitlistID, entry.Status)
	}

	now := s.now().UTC()
	match := schema.AdvocateMatch{
		ID:           s.newID(),
		AdvocateID:   actor.ID,
		ParentID:     entry.ParentID,
		ChildID:      entry.ChildID,
		MatchScore:   85,
		MatchReasons: []string{fmt.Sprintf("Experienced with %s", entry.HelpType)},
		Status:       schema.MatchActive,
		CreatedAt:    now,
		AcceptedAt:   &now,
	}
	if err := s.matches.Insert(ctx, match); err != nil {
		s.observer.PersistFailed(KeyMatches)
		return match, err
	}
	s.observer.RecordCreated(KeyMatches)
	if _, _, err := s.waitlist.Patch(ctx, waitlistID, func(w schema.WaitlistEntry) schema.WaitlistEntry {
		w.Status = schema.WaitlistMatched
		return w
	}); err != nil {
		s.observer.PersistFailed(KeyWaitlist)
		return match, err
	}
	s.recordAudit(ctx, actor, "MATCH_ACCEPT", "AdvocateMatch", match.ID, fmt.Sprintf("Accepted parent %s from waitlist", entry.ParentID), schema.SeverityLow)
	return match, nil
}
