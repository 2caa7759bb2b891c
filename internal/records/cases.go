package records

import (
	"context"
	"fmt"

	"github.com/advocase-dev/advocase-store/pkg/schema"
)

func caseVisibility() Visibility[schema.Case] {
	return ownerScoped(
		func(c schema.Case) string { return c.ParentID },
		func(c schema.Case) string { return c.AdvocateID },
	)
}

// Cases returns the case records visible to the actor.
func (s *Service) Cases(actor schema.User) []schema.Case {
	return s.cases.View(actor, caseVisibility())
}

// Case looks up a single case if the actor may see it.
func (s *Service) Case(actor schema.User, id string) (schema.Case, bool) {
	c, ok := s.cases.Find(id)
	if !ok || !caseVisibility()(actor, c) {
		return schema.Case{}, false
	}
	return c, true
}

// ChildCases returns the actor-visible cases opened for one child.
func (s *Service) ChildCases(actor schema.User, childID string) []schema.Case {
	var out []schema.Case
	for _, c := range s.Cases(actor) {
		if c.ChildID == childID {
			out = append(out, c)
		}
	}
	return out
}

// CreateCase opens an advocacy case for the acting parent. When the parent
// already has an active advocate match the case is assigned to that
// advocate and starts active; otherwise it waits in pending until a match
// is made.
func (s *Service) CreateCase(ctx context.Context, actor schema.User, childID, iepID, helpType string) (schema.Case, error) {
	if err := requireCap(actor, CapCreateCase, "create cases"); err != nil {
		return schema.Case{}, err
	}

	c := schema.Case{
		ID:        s.newID(),
		ParentID:  actor.ID,
		ChildID:   childID,
		IEPID:     iepID,
		Status:    schema.CasePending,
		HelpType:  helpType,
		CreatedAt: s.now().UTC(),
	}
	if match := s.ActiveMatch(actor.ID); match != nil {
		c.AdvocateID = match.AdvocateID
		c.Status = schema.CaseActive
	}

	if err := s.cases.Insert(ctx, c); err != nil {
		s.observer.PersistFailed(KeyCases)
		return c, err
	}
	s.observer.RecordCreated(KeyCases)
	s.recordAudit(ctx, actor, "CASE_CREATE", "Case", c.ID, fmt.Sprintf("Opened case for help type %q", helpType), schema.SeverityLow)
	return c, nil
}

// UpdateCaseStatus moves a case through its lifecycle. An unknown case id is
// a silent no-op; updated reports whether anything changed.
func (s *Service) UpdateCaseStatus(ctx context.Context, actor schema.User, caseID string, status schema.CaseStatus) (schema.Case, bool, error) {
	if err := requireCap(actor, CapUpdateCase, "update cases"); err != nil {
		return schema.Case{}, false, err
	}
	c, updated, err := s.cases.Patch(ctx, caseID, func(c schema.Case) schema.Case {
		c.Status = status
		return c
	})
	if err != nil {
		s.observer.PersistFailed(KeyCases)
		return c, updated, err
	}
	if updated {
		s.recordAudit(ctx, actor, "CASE_UPDATE", "Case", caseID, fmt.Sprintf("Case status set to %s", status), schema.SeverityLow)
	}
	return c, updated, nil
}

// AssignAdvocate attaches an advocate to a pending case and activates it.
func (s *Service) AssignAdvocate(ctx context.Context, actor schema.User, caseID, advocateID string) (schema.Case, bool, error) {
	if err := requireCap(actor, CapUpdateCase, "update cases"); err != nil {
		return schema.Case{}, false, err
	}
	c, updated, err := s.cases.Patch(ctx, caseID, func(c schema.Case) schema.Case {
		c.AdvocateID = advocateID
		if c.Status == schema.CasePending {
			c.Status = schema.CaseActive
		}
		return c
	})
	if err != nil {
		s.observer.PersistFailed(KeyCases)
		return c, updated, err
	}
	if updated {
		s.recordAudit(ctx, actor, "CASE_ASSIGN", "Case", caseID, fmt.Sprintf("Advocate %s assigned", advocateID), schema.SeverityLow)
	}
	return c, updated, nil
}
