package records

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/advocase-dev/advocase-store/internal/storage"
	"github.com/advocase-dev/advocase-store/pkg/schema"
)

// Analyzer produces IEP summaries and coaching questions from document text.
// internal/ai provides the HTTP-backed implementation.
type Analyzer interface {
	AnalyzeDocument(ctx context.Context, text string) (schema.IEPSummary, error)
	CoachingQuestions(ctx context.Context, summary schema.IEPSummary) ([]string, error)
	ExtractText(ctx context.Context, fileName string) (string, error)
}

// DocumentStore holds uploaded IEP document text, keyed by IEP id.
// internal/blob provides memory, filesystem and S3 implementations.
type DocumentStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Observer receives store events for metrics export. All methods must be
// cheap and non-blocking.
type Observer interface {
	RecordCreated(domain string)
	PersistFailed(domain string)
	AnalysisFinished(outcome string)
}

type noopObserver struct{}

func (noopObserver) RecordCreated(string)    {}
func (noopObserver) PersistFailed(string)    {}
func (noopObserver) AnalysisFinished(string) {}

// Config assembles a Service.
type Config struct {
	Backend   storage.Backend
	Seeds     Seeds
	Analyzer  Analyzer
	Documents DocumentStore
	Observer  Observer
	// Now overrides the clock, for tests.
	Now func() time.Time
	// NewID overrides identifier generation, for tests.
	NewID func() string
}

// Service owns every domain collection and enforces role capabilities on all
// mutating operations.
type Service struct {
	backend storage.Backend

	users        *Collection[schema.User]
	children     *Collection[schema.Child]
	ieps         *Collection[schema.IEP]
	cases        *Collection[schema.Case]
	messages     *Collection[schema.Message]
	appointments *Collection[schema.Appointment]
	slots        *Collection[schema.TimeSlot]
	audit        *Collection[schema.AuditEntry]
	feedback     *Collection[schema.Feedback]
	advocates    *Collection[schema.AdvocateProfile]
	matches      *Collection[schema.AdvocateMatch]
	waitlist     *Collection[schema.WaitlistEntry]

	analyzer Analyzer
	docs     DocumentStore
	observer Observer

	now   func() time.Time
	newID func() string

	wg sync.WaitGroup // tracks background analysis runs
}

// Storage key per domain collection.
const (
	KeyUsers        = "users"
	KeyChildren     = "children"
	KeyIEPs         = "ieps"
	KeyCases        = "cases"
	KeyMessages     = "messages"
	KeyAppointments = "appointments"
	KeySlots        = "slots"
	KeyAudit        = "audit-log"
	KeyFeedback     = "feedback"
	KeyAdvocates    = "advocates"
	KeyMatches      = "matches"
	KeyWaitlist     = "waitlist"
)

// NewService builds a service over the given backend. Collections stay
// unloaded until Load is called.
func NewService(cfg Config) *Service {
	if cfg.Observer == nil {
		cfg.Observer = noopObserver{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}

	return &Service{
		backend:      cfg.Backend,
		users:        NewCollection(KeyUsers, cfg.Backend, cfg.Seeds.Users),
		children:     NewCollection(KeyChildren, cfg.Backend, cfg.Seeds.Children),
		ieps:         NewCollection(KeyIEPs, cfg.Backend, cfg.Seeds.IEPs),
		cases:        NewCollection(KeyCases, cfg.Backend, cfg.Seeds.Cases),
		messages:     NewCollection(KeyMessages, cfg.Backend, cfg.Seeds.Messages),
		appointments: NewCollection(KeyAppointments, cfg.Backend, cfg.Seeds.Appointments),
		slots:        NewCollection(KeySlots, cfg.Backend, cfg.Seeds.Slots),
		audit:        NewCollection(KeyAudit, cfg.Backend, cfg.Seeds.Audit),
		feedback:     NewCollection(KeyFeedback, cfg.Backend, cfg.Seeds.Feedback),
		advocates:    NewCollection(KeyAdvocates, cfg.Backend, cfg.Seeds.Advocates),
		matches:      NewCollection(KeyMatches, cfg.Backend, cfg.Seeds.Matches),
		waitlist:     NewCollection(KeyWaitlist, cfg.Backend, cfg.Seeds.Waitlist),
		analyzer:     cfg.Analyzer,
		docs:         cfg.Documents,
		observer:     cfg.Observer,
		now:          cfg.Now,
		newID:        cfg.NewID,
	}
}

// Load hydrates every collection from the backend. Individual load failures
// are non-fatal and recorded per collection.
func (s *Service) Load(ctx context.Context) error {
	for _, load := range []func(context.Context) error{
		s.users.Load, s.children.Load, s.ieps.Load, s.cases.Load,
		s.messages.Load, s.appointments.Load, s.slots.Load, s.audit.Load,
		s.feedback.Load, s.advocates.Load, s.matches.Load, s.waitlist.Load,
	} {
		if err := load(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Wait blocks until background analysis runs have finished. Called on
// shutdown so in-flight enrichment persists before exit.
func (s *Service) Wait() {
	s.wg.Wait()
}

// recordAudit appends an audit entry for a mutating operation. Audit failures
// never fail the triggering operation; they are only logged.
func (s *Service) recordAudit(ctx context.Context, actor schema.User, action, resource, resourceID, details string, severity schema.Severity) {
	entry := schema.AuditEntry{
		ID:         s.newID(),
		UserID:     actor.ID,
		UserName:   actor.Name,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		Timestamp:  s.now().UTC(),
		Severity:   severity,
	}
	if err := s.audit.Insert(ctx, entry); err != nil {
		log.Printf("Warning: could not record audit entry %s/%s: %v", action, resource, err)
	}
}
