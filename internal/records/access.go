package records

import (
	"errors"
	"fmt"

	"github.com/advocase-dev/advocase-store/pkg/schema"
)

// ErrPermission is returned when an actor's role does not allow an operation.
var ErrPermission = errors.New("permission denied")

// ErrNotFound is returned where a missing record is an explicit failure
// (IEP analysis); elsewhere missing ids are silent no-ops.
var ErrNotFound = errors.New("record not found")

// Capability names a mutating operation gated by role.
type Capability string

const (
	CapAddChild       Capability = "child.add"
	CapUploadIEP      Capability = "iep.upload"
	CapCreateCase     Capability = "case.create"
	CapUpdateCase     Capability = "case.update"
	CapSendMessage    Capability = "message.send"
	CapSchedule       Capability = "appointment.schedule"
	CapSubmitFeedback Capability = "feedback.submit"
	CapTriageFeedback Capability = "feedback.triage"
	CapViewAudit      Capability = "audit.view"
	CapRequestMatch   Capability = "match.request"
	CapAcceptMatch    Capability = "match.accept"
)

// capabilityRoles is the role-capability table: which roles may perform each
// mutating operation.
var capabilityRoles = map[Capability]map[schema.Role]bool{
	CapAddChild:       {schema.RoleParent: true},
	CapUploadIEP:      {schema.RoleParent: true},
	CapCreateCase:     {schema.RoleParent: true},
	CapUpdateCase:     {schema.RoleParent: true, schema.RoleAdvocate: true, schema.RoleAdmin: true},
	CapSendMessage:    {schema.RoleParent: true, schema.RoleAdvocate: true, schema.RoleAdmin: true},
	CapSchedule:       {schema.RoleParent: true, schema.RoleAdvocate: true},
	CapSubmitFeedback: {schema.RoleParent: true, schema.RoleAdvocate: true, schema.RoleAdmin: true},
	CapTriageFeedback: {schema.RoleAdvocate: true, schema.RoleAdmin: true},
	CapViewAudit:      {schema.RoleAdmin: true},
	CapRequestMatch:   {schema.RoleParent: true},
	CapAcceptMatch:    {schema.RoleAdvocate: true, schema.RoleAdmin: true},
}

// Allowed reports whether role may perform cap.
func Allowed(role schema.Role, cap Capability) bool {
	return capabilityRoles[cap][role]
}

func requireCap(actor schema.User, cap Capability, what string) error {
	if !Allowed(actor.Role, cap) {
		return fmt.Errorf("%w: only %s can %s", ErrPermission, allowedRoles(cap), what)
	}
	return nil
}

func allowedRoles(cap Capability) string {
	roles := capabilityRoles[cap]
	switch {
	case roles[schema.RoleParent] && !roles[schema.RoleAdvocate] && !roles[schema.RoleAdmin]:
		return "parents"
	case roles[schema.RoleAdmin] && !roles[schema.RoleParent] && !roles[schema.RoleAdvocate]:
		return "admins"
	default:
		return "authorized users"
	}
}

// ownerScoped builds the standard per-record visibility: parents see records
// they own, advocates see records assigned to them, admins see everything.
func ownerScoped[T Record](parentOf, advocateOf func(T) string) Visibility[T] {
	return func(actor schema.User, rec T) bool {
		switch actor.Role {
		case schema.RoleParent:
			return parentOf(rec) == actor.ID
		case schema.RoleAdvocate:
			return advocateOf(rec) == actor.ID
		case schema.RoleAdmin:
			return true
		}
		return false
	}
}

// selfScoped shows a record to its owning user and to admins.
func selfScoped[T Record](userOf func(T) string) Visibility[T] {
	return func(actor schema.User, rec T) bool {
		if actor.Role == schema.RoleAdmin {
			return true
		}
		return userOf(rec) == actor.ID
	}
}
