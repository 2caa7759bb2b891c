package records

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/advocase-dev/advocase-store/pkg/schema"
)

var (
	// ErrInvalidCredentials is returned for unknown emails at sign-in.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotApproved is returned when an unapproved account signs in.
	ErrNotApproved = errors.New("account is awaiting approval")
	// ErrEmailInUse is returned when registering an existing email.
	ErrEmailInUse = errors.New("email already in use")
	// ErrInvalidRole is returned when registering with an unknown role.
	ErrInvalidRole = errors.New("unknown role")
)

// SignIn resolves an email to its user record. Password verification is
// delegated to the identity provider, which is out of scope here; the
// argument is kept so the surface doesn't change when one is wired in.
func (s *Service) SignIn(ctx context.Context, email, _ string) (schema.User, error) {
	user, ok := s.findUserByEmail(email)
	if !ok {
		return schema.User{}, ErrInvalidCredentials
	}
	if !user.IsApproved {
		return schema.User{}, ErrNotApproved
	}
	s.recordAudit(ctx, user, "USER_SIGNIN", "USER", user.ID, fmt.Sprintf("Signed in as %s", user.Role), schema.SeverityLow)
	return user, nil
}

// SignUp registers a new account. New users start unapproved and cannot sign
// in until an admin approves them.
func (s *Service) SignUp(ctx context.Context, email, name string, role schema.Role) (schema.User, error) {
	if !role.Valid() {
		return schema.User{}, fmt.Errorf("%w %q", ErrInvalidRole, role)
	}
	if _, exists := s.findUserByEmail(email); exists {
		return schema.User{}, ErrEmailInUse
	}

	user := schema.User{
		ID:         s.newID(),
		Email:      email,
		Name:       name,
		Role:       role,
		CreatedAt:  s.now().UTC(),
		IsApproved: false,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		s.observer.PersistFailed(KeyUsers)
		return user, err
	}
	s.observer.RecordCreated(KeyUsers)
	return user, nil
}

// ApproveUser flips a pending registration to approved. Admin only.
func (s *Service) ApproveUser(ctx context.Context, actor schema.User, userID string) (schema.User, error) {
	if actor.Role != schema.RoleAdmin {
		return schema.User{}, fmt.Errorf("%w: only admins can approve users", ErrPermission)
	}
	user, ok, err := s.users.Patch(ctx, userID, func(u schema.User) schema.User {
		u.IsApproved = true
		return u
	})
	if err != nil {
		return user, err
	}
	if !ok {
		return schema.User{}, ErrNotFound
	}
	s.recordAudit(ctx, actor, "USER_APPROVE", "USER", userID, fmt.Sprintf("Approved account %s", user.Email), schema.SeverityMedium)
	return user, nil
}

// User returns the record for id, if visible to the actor.
func (s *Service) User(actor schema.User, id string) (schema.User, bool) {
	user, ok := s.users.Find(id)
	if !ok {
		return schema.User{}, false
	}
	if actor.Role != schema.RoleAdmin && actor.ID != id {
		// Non-admins may still resolve name/role of counterparties they
		// message or are matched with; strip the rest.
		return schema.User{ID: user.ID, Name: user.Name, Role: user.Role}, true
	}
	return user, true
}

// Actor resolves a full user record by id for authentication layers. Unlike
// User it applies no visibility stripping; keep it out of response paths.
func (s *Service) Actor(id string) (schema.User, bool) {
	return s.users.Find(id)
}

// Users lists accounts. Admin only.
func (s *Service) Users(actor schema.User) ([]schema.User, error) {
	if actor.Role != schema.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins can list users", ErrPermission)
	}
	return s.users.All(), nil
}

func (s *Service) findUserByEmail(email string) (schema.User, bool) {
	email = strings.ToLower(email)
	for _, user := range s.users.All() {
		if strings.ToLower(user.Email) == email {
			return user, true
		}
	}
	return schema.User{}, false
}
