package commands

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/cespare/xxhash/v2"
)

const DefaultStoreLockStripes = 256

// StoreLocks serializes commit-and-publish per store inside this process, so
// that the live channel of a store sees events in commit order. Stores are
// hashed onto a fixed set of stripes; two stores may share a stripe.
//
// A stripe is a one-slot channel, so waiting for it honors ctx.
type StoreLocks struct {
	stripes []chan struct{}
}

func NewStoreLocks(stripes int) *StoreLocks {
	if stripes <= 0 {
		stripes = DefaultStoreLockStripes
	}
	l := &StoreLocks{stripes: make([]chan struct{}, stripes)}
	for i := range l.stripes {
		l.stripes[i] = make(chan struct{}, 1)
	}
	return l
}

// Lock acquires the stripe of storeID and returns its unlock function. It
// gives up with a PersistenceError when ctx ends first.
func (l *StoreLocks) Lock(ctx context.Context, storeID kernel.UUID) (func(), error) {
	id := storeID.Bytes()
	stripe := l.stripes[xxhash.Sum64(id[:])%uint64(len(l.stripes))]

	select {
	case stripe <- struct{}{}:
		return func() { <-stripe }, nil
	case <-ctx.Done():
		return nil, errs.NewPersistenceError("acquire store lock", ctx.Err())
	}
}
