package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/pkg/guard"
)

var ErrListUserOrdersQueryIsNotConstructed = errors.New(
	"ListUserOrdersQuery must be created via NewListUserOrdersQuery constructor",
)

// ListUserOrdersQuery lists the orders placed by the caller, newest first.
type ListUserOrdersQuery struct {
	caller identity.Identity

	guard guard.ConstructorGuard
}

func NewListUserOrdersQuery(caller identity.Identity) (ListUserOrdersQuery, error) {
	if err := caller.Validate(); err != nil {
		return ListUserOrdersQuery{}, err
	}
	return ListUserOrdersQuery{caller: caller, guard: guard.NewConstructorGuard()}, nil
}

func (q ListUserOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListUserOrdersQueryIsNotConstructed)
}

func (q ListUserOrdersQuery) Caller() identity.Identity { return q.caller }
