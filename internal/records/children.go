package records

import (
	"context"
	"fmt"

	"github.com/advocase-dev/advocase-store/pkg/schema"
)

// NewChild carries the caller-supplied fields for AddChild.
type NewChild struct {
	Name        string `json:"name" binding:"required"`
	DateOfBirth string `json:"date_of_birth"`
	Grade       string `json:"grade"`
	School      string `json:"school"`
	Notes       string `json:"notes"`
}

// AddChild creates a child record owned by the acting parent.
func (s *Service) AddChild(ctx context.Context, actor schema.User, in NewChild) (schema.Child, error) {
	if err := requireCap(actor, CapAddChild, "add children"); err != nil {
		return schema.Child{}, err
	}

	child := schema.Child{
		ID:          s.newID(),
		ParentID:    actor.ID,
		Name:        in.Name,
		DateOfBirth: in.DateOfBirth,
		Grade:       in.Grade,
		School:      in.School,
		Notes:       in.Notes,
	}
	if err := s.children.Insert(ctx, child); err != nil {
		s.observer.PersistFailed(KeyChildren)
		return child, err
	}
	s.observer.RecordCreated(KeyChildren)
	s.recordAudit(ctx, actor, "CHILD_ADD", "CHILD", child.ID, fmt.Sprintf("Added child %s", child.Name), schema.SeverityLow)
	return child, nil
}

// Children returns the child records visible to the actor. Parents see their
// own children; advocates see children reached transitively through the IEPs
// and cases assigned to them; admins see everything.
func (s *Service) Children(actor schema.User) []schema.Child {
	switch actor.Role {
	case schema.RoleAdvocate:
		reachable := s.advocateChildIDs(actor.ID)
		return s.children.View(actor, func(_ schema.User, c schema.Child) bool {
			return reachable[c.ID]
		})
	default:
		return s.children.View(actor, ownerScoped(
			func(c schema.Child) string { return c.ParentID },
			func(schema.Child) string { return "" },
		))
	}
}

// Child looks up a single child if the actor may see it.
func (s *Service) Child(actor schema.User, id string) (schema.Child, bool) {
	for _, child := range s.Children(actor) {
		if child.ID == id {
			return child, true
		}
	}
	return schema.Child{}, false
}

// advocateChildIDs collects the ids of children tied to an advocate through
// IEP assignments or case associations.
func (s *Service) advocateChildIDs(advocateID string) map[string]bool {
	reachable := make(map[string]bool)
	for _, iep := range s.ieps.All() {
		if iep.AdvocateID == advocateID {
			reachable[iep.ChildID] = true
		}
	}
	for _, c := range s.cases.All() {
		if c.AdvocateID == advocateID {
			reachable[c.ChildID] = true
		}
	}
	return reachable
}
