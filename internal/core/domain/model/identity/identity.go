// Package identity holds the verified caller of an operation.
package identity

import (
	"errors"
	"strings"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrIdentityIsNotConstructed = errs.NewMissingTokenError()

// Role is the caller's role claim. Unknown roles are treated as Customer.
type Role string

const (
	Customer   Role = "CUSTOMER"
	StoreOwner Role = "STORE_OWNER"
	Admin      Role = "ADMIN"
)

// ParseRole maps a claim value to a Role, case-insensitively.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case Admin:
		return Admin
	case StoreOwner:
		return StoreOwner
	default:
		return Customer
	}
}

// Identity is produced by the claims verifier and lives for one request or
// one websocket connection.
type Identity struct {
	userID string
	email  string
	role   Role

	guard guard.ConstructorGuard
}

func NewIdentity(userID, email string, role Role) (Identity, error) {
	if strings.TrimSpace(userID) == "" {
		return Identity{}, errs.NewInvalidTokenError(errors.New("subject claim is empty"))
	}
	if role == "" {
		role = Customer
	}
	return Identity{
		userID: userID,
		email:  email,
		role:   role,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate reports a MissingToken AuthError for a zero Identity, so a handler
// invoked without a verified caller fails before touching state.
func (i Identity) Validate() error {
	return i.guard.Validate(ErrIdentityIsNotConstructed)
}

func (i Identity) UserID() string { return i.userID }

func (i Identity) Email() string { return i.email }

func (i Identity) Role() Role { return i.role }

func (i Identity) IsAdmin() bool { return i.role == Admin }
