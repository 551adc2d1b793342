// Package store models the part of a store that order authorization needs:
// who owns it.
package store

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrStoreIsNotConstructed = errors.New("Store must be created via NewStore constructor")

type Store struct {
	id      kernel.UUID
	ownerID string
	name    string

	guard guard.ConstructorGuard
}

func NewStore(id kernel.UUID, ownerID, name string) (*Store, error) {
	s := &Store{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		s.setID(id),
		s.setOwnerID(ownerID),
		s.setName(name),
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Validate() error {
	if s == nil {
		return ErrStoreIsNotConstructed
	}
	return s.guard.Validate(ErrStoreIsNotConstructed)
}

func (s *Store) ID() kernel.UUID { return s.id }

func (s *Store) OwnerID() string { return s.ownerID }

func (s *Store) Name() string { return s.name }

// IsManagedBy reports whether caller owns the store or is an admin.
func (s *Store) IsManagedBy(caller identity.Identity) bool {
	return caller.IsAdmin() || caller.UserID() == s.ownerID
}

// Authorize returns an Unauthorized AuthError unless caller manages the store.
func (s *Store) Authorize(caller identity.Identity) error {
	if err := caller.Validate(); err != nil {
		return err
	}
	if !s.IsManagedBy(caller) {
		return errs.NewUnauthorizedError("caller does not manage store " + s.id.String())
	}
	return nil
}

func (s *Store) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Store) setOwnerID(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return errs.NewValueIsRequiredError("owner_id")
	}
	s.ownerID = ownerID
	return nil
}

func (s *Store) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	s.name = name
	return nil
}
