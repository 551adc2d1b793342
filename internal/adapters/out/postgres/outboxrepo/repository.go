package outboxrepo

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add writes one row per event. Called by the unit of work before commit.
func (r *GormOutboxRepository) Add(ctx context.Context, events []order.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([]MessageDTO, 0, len(events))
	for _, event := range events {
		dto, err := fromEvent(event)
		if err != nil {
			return err
		}
		rows = append(rows, dto)
	}

	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return errs.AsPersistence("insert outbox", err)
	}
	return nil
}

func (r *GormOutboxRepository) FetchPending(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var rows []MessageDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("sent_at IS NULL").
		Order("id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errs.AsPersistence("select outbox", err)
	}

	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, toMessage(row))
	}
	return messages, nil
}

func (r *GormOutboxRepository) MarkSent(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("id IN ?", ids).
		Update("sent_at", time.Now().UTC()).Error
	if err != nil {
		return errs.AsPersistence("mark outbox sent", err)
	}
	return nil
}
