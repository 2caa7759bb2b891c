package records

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/advocase-dev/advocase-store/internal/storage"
	"github.com/advocase-dev/advocase-store/pkg/schema"
)

// fakeAnalyzer fails the first failures calls to AnalyzeDocument, then
// succeeds with a canned summary.
type fakeAnalyzer struct {
	failures int
	calls    int
}

func (f *fakeAnalyzer) AnalyzeDocument(ctx context.Context, text string) (schema.IEPSummary, error) {
	f.calls++
	if f.calls <= f.failures {
		return schema.IEPSummary{}, errors.New("completion endpoint unreachable")
	}
	return schema.IEPSummary{
		Goals:          []string{"Reach grade-level reading"},
		Services:       []string{"Speech therapy weekly"},
		Accommodations: []string{"Extended test time"},
		Notes:          "Summary from " + text[:min(len(text), 10)],
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

func (f *fakeAnalyzer) CoachingQuestions(ctx context.Context, summary schema.IEPSummary) ([]string, error) {
	return []string{"How often is progress reviewed?"}, nil
}

func (f *fakeAnalyzer) ExtractText(ctx context.Context, fileName string) (string, error) {
	return "extracted text of " + fileName, nil
}

func newTestService(t *testing.T, seeds Seeds, analyzer Analyzer) *Service {
	t.Helper()
	n := 0
	svc := NewService(Config{
		Backend:  storage.NewMemory(),
		Seeds:    seeds,
		Analyzer: analyzer,
		Now:      func() time.Time { return time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%04d", n)
		},
	})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return svc
}

func seededActors(t *testing.T, svc *Service) (parent, advocate, admin schema.User) {
	t.Helper()
	for _, pair := range []struct {
		id  string
		dst *schema.User
	}{{"1", &parent}, {"2", &advocate}, {"3", &admin}} {
		u, ok := svc.users.Find(pair.id)
		if !ok {
			t.Fatalf("seed user %s missing", pair.id)
		}
		*pair.dst = u
	}
	return parent, advocate, admin
}

func TestSignInRequiresApproval(t *testing.T) {
	svc := newTestService(t, DefaultSeeds(), nil)
	parent, _, admin := seededActors(t, svc)

	if _, err := svc.SignIn(context.Background(), "PARENT@example.com", "pw"); err != nil {
		t.Fatalf("sign in with mixed-case email: %v", err)
	}
	if _, err := svc.SignIn(context.Background(), "nobody@example.com", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}

	pending, err := svc.SignUp(context.Background(), "new@example.com", "New Parent", schema.RoleParent)
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if _, err := svc.SignIn(context.Background(), "new@example.com", "pw"); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("unapproved sign in: err = %v, want ErrNotApproved", err)
	}

	if _, err := svc.ApproveUser(context.Background(), parent, pending.ID); !errors.Is(err, ErrPermission) {
		t.Fatalf("parent approving a user: err = %v, want ErrPermission", err)
	}
	if _, err := svc.ApproveUser(context.Background(), admin, pending.ID); err != nil {
		t.Fatalf("admin approve: %v", err)
	}
	if _, err := svc.SignIn(context.Background(), "new@example.com", "pw"); err != nil {
		t.Fatalf("approved sign in: %v", err)
	}
}

func TestChildVisibilityPerRole(t *testing.T) {
	svc := newTestService(t, DefaultSeeds(), nil)
	parent, advocate, admin := seededActors(t, svc)

	ann, err := svc.SignUp(context.Background(), "ann@example.com", "Ann", schema.RoleParent)
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if _, err := svc.ApproveUser(context.Background(), admin, ann.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	ann, _ = svc.users.Find(ann.ID)

	child, err := svc.AddChild(context.Background(), ann, NewChild{Name: "Ann's Child", Grade: "3rd Grade"})
	if err != nil {
		t.Fatalf("add child: %v", err)
	}

	if _, ok := svc.Child(parent, child.ID); ok {
		t.Fatal("another parent can see Ann's child")
	}
	if _, ok := svc.Child(ann, child.ID); !ok {
		t.Fatal("Ann cannot see her own child")
	}
	if _, ok := svc.Child(admin, child.ID); !ok {
		t.Fatal("admin cannot see Ann's child")
	}
	// The seeded advocate has no IEP or case touching Ann's child.
	if _, ok := svc.Child(advocate, child.ID); ok {
		t.Fatal("unrelated advocate can see Ann's child")
	}
	// But the advocate does see the seeded child via the seeded case.
	if _, ok := svc.Child(advocate, "1"); !ok {
		t.Fatal("advocate cannot see the child on their active case")
	}

	if _, err := svc.AddChild(context.Background(), advocate, NewChild{Name: "Nope"}); !errors.Is(err, ErrPermission) {
		t.Fatalf("advocate adding a child: err = %v, want ErrPermission", err)
	}
}

func TestGeneratedIDsAreUnique(t *testing.T) {
	// Default id generator, not the sequential test one.
	svc := NewService(Config{Backend: storage.NewMemory(), Seeds: EmptySeeds()})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	parent := schema.User{ID: "p1", Role: schema.RoleParent, IsApproved: true}

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		child, err := svc.AddChild(context.Background(), parent, NewChild{Name: fmt.Sprintf("Child %d", i)})
		if err != nil {
			t.Fatalf("add child %d: %v", i, err)
		}
		if seen[child.ID] {
			t.Fatalf("duplicate id %s after %d creates", child.ID, i)
		}
		seen[child.ID] = true
	}
}

func TestCreateCaseAssignsMatchedAdvocate(t *testing.T) {
	svc := newTestService(t, DefaultSeeds(), nil)
	parent, _, _ := seededActors(t, svc)

	// Parent "1" has the seeded active match with advocate "2".
	c, err := svc.CreateCase(context.Background(), parent, "1", "1", "Dispute resolution")
	if err != nil {
		t.Fatalf("create case: %v", err)
	}
	if c.AdvocateID != "2" || c.Status != schema.CaseActive {
		t.Fatalf("case = %+v, want advocate 2 and active status", c)
	}

	// Seeded case c1 moves pending -> active; unknown id is a no-op.
	if _, updated, err := svc.UpdateCaseStatus(context.Background(), parent, "1", schema.CaseCompleted); err != nil || !updated {
		t.Fatalf("update seeded case: updated=%v err=%v", updated, err)
	}
	if _, updated, err := svc.UpdateCaseStatus(context.Background(), parent, "zzz", schema.CaseActive); err != nil || updated {
		t.Fatalf("unknown case id: updated=%v err=%v, want silent no-op", updated, err)
	}
}

func TestUnmatchedParentCaseStaysPending(t *testing.T) {
	svc := newTestService(t, EmptySeeds(), nil)
	parent := schema.User{ID: "p1", Role: schema.RoleParent, IsApproved: true}

	c, err := svc.CreateCase(context.Background(), parent, "c1", "", "IEP review")
	if err != nil {
		t.Fatalf("create case: %v", err)
	}
	if c.Status != schema.CasePending || c.AdvocateID != "" {
		t.Fatalf("case = %+v, want pending and unassigned", c)
	}
}

func TestUploadAnalysisFailureThenRetry(t *testing.T) {
	analyzer := &fakeAnalyzer{failures: 1}
	svc := newTestService(t, DefaultSeeds(), analyzer)
	parent, _, _ := seededActors(t, svc)

	iep, err := svc.UploadIEP(context.Background(), parent, "1", "spring.pdf", "https://example.com/spring.pdf", "GOALS: read fluently")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	svc.Wait()

	got, ok := svc.IEP(parent, iep.ID)
	if !ok {
		t.Fatal("uploaded IEP missing")
	}
	if got.AnalysisStatus != schema.AnalysisFailed {
		t.Fatalf("status after failed analysis = %s, want %s", got.AnalysisStatus, schema.AnalysisFailed)
	}
	if got.Summary != nil {
		t.Fatal("failed analysis attached a summary")
	}

	// Retry succeeds and flips the record to analyzed.
	if _, err := svc.AnalyzeIEP(context.Background(), iep.ID, ""); err != nil {
		t.Fatalf("retry: %v", err)
	}
	got, _ = svc.IEP(parent, iep.ID)
	if got.AnalysisStatus != schema.AnalysisDone || got.Summary == nil {
		t.Fatalf("after retry: status=%s summary=%v, want analyzed with summary", got.AnalysisStatus, got.Summary)
	}

	if analyzer.calls != 2 {
		t.Fatalf("analyzer ran %d times, want 2", analyzer.calls)
	}
}

func TestCoachingQuestionsNeedSummary(t *testing.T) {
	analyzer := &fakeAnalyzer{failures: 100}
	svc := newTestService(t, DefaultSeeds(), analyzer)
	parent, _, _ := seededActors(t, svc)

	iep, err := svc.UploadIEP(context.Background(), parent, "1", "raw.pdf", "", "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	svc.Wait()

	if _, err := svc.CoachingQuestions(context.Background(), iep.ID); err == nil {
		t.Fatal("coaching questions without a summary should fail")
	}
	// The seeded IEP has a summary; questions come back.
	qs, err := svc.CoachingQuestions(context.Background(), "1")
	if err != nil {
		t.Fatalf("coaching questions: %v", err)
	}
	if len(qs) == 0 {
		t.Fatal("no questions returned")
	}
}

func TestConversationOrderingAndUnread(t *testing.T) {
	svc := newTestService(t, DefaultSeeds(), nil)
	parent, advocate, _ := seededActors(t, svc)

	// Seed thread has one unread message from the advocate.
	if got := svc.UnreadCount(parent); got != 1 {
		t.Fatalf("unread = %d, want 1", got)
	}

	if _, err := svc.SendMessage(context.Background(), parent, advocate.ID, "Sounds good, talk then.", nil); err != nil {
		t.Fatalf("send: %v", err)
	}

	conv := svc.Conversation(parent, advocate.ID)
	if len(conv) != 4 {
		t.Fatalf("conversation has %d messages, want 4", len(conv))
	}
	for i := 1; i < len(conv); i++ {
		if conv[i].Timestamp.Before(conv[i-1].Timestamp) {
			t.Fatalf("conversation out of order at %d", i)
		}
	}
	if conv[len(conv)-1].Content != "Sounds good, talk then." {
		t.Fatal("new message is not last")
	}

	summaries := svc.Conversations(parent)
	if len(summaries) != 1 || summaries[0].OtherUserID != advocate.ID {
		t.Fatalf("conversations = %+v, want one thread with the advocate", summaries)
	}

	if err := svc.MarkRead(context.Background(), parent, advocate.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if got := svc.UnreadCount(parent); got != 0 {
		t.Fatalf("unread after mark read = %d, want 0", got)
	}
}

func TestScheduleFlipsSlotAndRejectsDoubleBooking(t *testing.T) {
	seeds := EmptySeeds()
	seeds.Slots = func() []schema.TimeSlot {
		return []schema.TimeSlot{{ID: "s1", Date: "2025-08-04", StartTime: "09:00", EndTime: "10:00", IsAvailable: true, AdvocateID: "adv"}}
	}
	svc := newTestService(t, seeds, nil)
	parent := schema.User{ID: "p1", Role: schema.RoleParent, IsApproved: true}

	appt, err := svc.Schedule(context.Background(), parent, "s1", schema.AppointmentVideo, "first call")
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if appt.MeetingLink == "" {
		t.Fatal("video appointment has no meeting link")
	}
	if slots := svc.AvailableSlots("adv"); len(slots) != 0 {
		t.Fatalf("slot still available after booking: %+v", slots)
	}

	if _, err := svc.Schedule(context.Background(), parent, "s1", schema.AppointmentPhone, ""); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("double booking: err = %v, want ErrSlotTaken", err)
	}

	if _, updated, err := svc.CancelAppointment(context.Background(), parent, appt.ID); err != nil || !updated {
		t.Fatalf("cancel: updated=%v err=%v", updated, err)
	}
	if slots := svc.AvailableSlots("adv"); len(slots) != 1 {
		t.Fatal("cancelling did not reopen the slot")
	}
}

func TestAuditAccessAndStats(t *testing.T) {
	svc := newTestService(t, EmptySeeds(), nil)
	parent := schema.User{ID: "p1", Name: "P", Role: schema.RoleParent, IsApproved: true}
	admin := schema.User{ID: "a1", Name: "A", Role: schema.RoleAdmin, IsApproved: true}

	for _, sev := range []schema.Severity{schema.SeverityCritical, schema.SeverityHigh, schema.SeverityMedium, schema.SeverityLow, schema.SeverityLow} {
		if _, err := svc.RecordAudit(context.Background(), admin, "TEST", "System", "", "", sev); err != nil {
			t.Fatalf("record audit: %v", err)
		}
	}

	if _, err := svc.AuditLog(parent); !errors.Is(err, ErrPermission) {
		t.Fatalf("parent reading audit log: err = %v, want ErrPermission", err)
	}
	stats, err := svc.SecurityStats(admin)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := schema.SecurityStats{Total: 5, Critical: 1, High: 1, Medium: 1, Low: 2, RiskScore: 4 + 3 + 2 + 2}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}

func TestFeedbackPriorityAndTriage(t *testing.T) {
	svc := newTestService(t, EmptySeeds(), nil)
	parent := schema.User{ID: "p1", Name: "P", Role: schema.RoleParent, IsApproved: true}
	admin := schema.User{ID: "a1", Role: schema.RoleAdmin, IsApproved: true}

	bug, err := svc.SubmitFeedback(context.Background(), parent, schema.FeedbackBug, "Crash", "App crashes on upload", 0, schema.DeviceInfo{Platform: "ios"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if bug.Priority != schema.SeverityHigh {
		t.Fatalf("bug priority = %s, want high", bug.Priority)
	}
	idea, _ := svc.SubmitFeedback(context.Background(), parent, schema.FeedbackFeature, "Dark mode", "Please add dark mode", 5, schema.DeviceInfo{})
	if idea.Priority != schema.SeverityMedium {
		t.Fatalf("feature priority = %s, want medium", idea.Priority)
	}

	if _, _, err := svc.UpdateFeedbackStatus(context.Background(), parent, bug.ID, schema.FeedbackResolved); !errors.Is(err, ErrPermission) {
		t.Fatalf("parent triaging: err = %v, want ErrPermission", err)
	}
	if _, updated, err := svc.UpdateFeedbackStatus(context.Background(), admin, bug.ID, schema.FeedbackResolved); err != nil || !updated {
		t.Fatalf("triage: updated=%v err=%v", updated, err)
	}
	pending, err := svc.FeedbackByStatus(admin, schema.FeedbackPending)
	if err != nil {
		t.Fatalf("by status: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != idea.ID {
		t.Fatalf("pending = %+v, want only the feature request", pending)
	}
}

func TestWaitlistAndAcceptMatch(t *testing.T) {
	svc := newTestService(t, EmptySeeds(), nil)
	parent := schema.User{ID: "p1", Role: schema.RoleParent, IsApproved: true}
	other := schema.User{ID: "p2", Role: schema.RoleParent, IsApproved: true}
	advocate := schema.User{ID: "adv", Role: schema.RoleAdvocate, IsApproved: true}

	entry, err := svc.RequestMatch(context.Background(), parent, "c1", "IEP review")
	if err != nil {
		t.Fatalf("request match: %v", err)
	}
	if _, err := svc.RequestMatch(context.Background(), other, "c2", "Mediation"); err != nil {
		t.Fatalf("second request: %v", err)
	}
	if pos, ok := svc.WaitlistPosition(other.ID); !ok || pos != 2 {
		t.Fatalf("position = %d ok=%v, want 2", pos, ok)
	}

	if _, err := svc.AcceptMatch(context.Background(), parent, entry.ID); !errors.Is(err, ErrPermission) {
		t.Fatalf("parent accepting a match: err = %v, want ErrPermission", err)
	}
	match, err := svc.AcceptMatch(context.Background(), advocate, entry.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if match.Status != schema.MatchActive || match.AcceptedAt == nil {
		t.Fatalf("match = %+v, want active with accepted time", match)
	}
	if _, ok := svc.WaitlistPosition(parent.ID); ok {
		t.Fatal("matched parent still on the waitlist")
	}
	if m := svc.ActiveMatch(parent.ID); m == nil || m.AdvocateID != advocate.ID {
		t.Fatalf("active match = %+v, want advocate %s", m, advocate.ID)
	}

	// Accepting the same entry twice fails.
	if _, err := svc.AcceptMatch(context.Background(), advocate, entry.ID); err == nil {
		t.Fatal("accepting a matched entry should fail")
	}
}
