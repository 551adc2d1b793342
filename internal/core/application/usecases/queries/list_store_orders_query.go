package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrListStoreOrdersQueryIsNotConstructed = errors.New(
	"ListStoreOrdersQuery must be created via NewListStoreOrdersQuery constructor",
)

// ListStoreOrdersQuery lists a store's orders, newest first, for its owner or
// an admin.
type ListStoreOrdersQuery struct {
	caller  identity.Identity
	storeID kernel.UUID

	guard guard.ConstructorGuard
}

func NewListStoreOrdersQuery(caller identity.Identity, storeID kernel.UUID) (ListStoreOrdersQuery, error) {
	if err := caller.Validate(); err != nil {
		return ListStoreOrdersQuery{}, err
	}
	if err := storeID.Validate(); err != nil {
		return ListStoreOrdersQuery{}, errs.NewValueIsRequiredErrorWithCause("store_id", err)
	}
	return ListStoreOrdersQuery{caller: caller, storeID: storeID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListStoreOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListStoreOrdersQueryIsNotConstructed)
}

func (q ListStoreOrdersQuery) Caller() identity.Identity { return q.caller }

func (q ListStoreOrdersQuery) StoreID() kernel.UUID { return q.storeID }
