// Package storerepo maps stores to the stores table.
package storerepo

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/store"

	"github.com/google/uuid"
)

type StoreDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID string    `gorm:"not null;index"`
	Name    string    `gorm:"not null"`
}

func (StoreDTO) TableName() string {
	return "stores"
}

func fromDomain(aggregate *store.Store) StoreDTO {
	return StoreDTO{
		ID:      aggregate.ID().Bytes(),
		OwnerID: aggregate.OwnerID(),
		Name:    aggregate.Name(),
	}
}

func toDomain(dto StoreDTO) (*store.Store, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return store.NewStore(id, dto.OwnerID, dto.Name)
}
