// Package outboxrepo stores committed domain events in the outbox table until
// they are relayed to the integration broker.
package outboxrepo

import (
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/google/uuid"
)

type MessageDTO struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"`
	EventID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Name       string     `gorm:"not null"`
	Key        string     `gorm:"not null"`
	Payload    string     `gorm:"type:jsonb;not null"`
	OccurredAt time.Time  `gorm:"not null"`
	SentAt     *time.Time `gorm:"index"`
}

func (MessageDTO) TableName() string {
	return "outbox"
}

// EventPayload is the JSON document relayed for every order event.
type EventPayload struct {
	EventID    string    `json:"event_id"`
	Event      string    `json:"event"`
	OrderID    string    `json:"order_id"`
	StoreID    string    `json:"store_id"`
	UserID     string    `json:"user_id,omitempty"`
	Total      string    `json:"total,omitempty"`
	LineCount  int       `json:"line_count,omitempty"`
	From       string    `json:"from,omitempty"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

func fromEvent(event order.DomainEvent) (MessageDTO, error) {
	payload := EventPayload{
		EventID:    event.EventID().String(),
		Event:      event.EventName(),
		OrderID:    event.OrderID().String(),
		StoreID:    event.StoreID().String(),
		OccurredAt: event.OccurredAt(),
	}

	switch e := event.(type) {
	case order.CreatedEvent:
		payload.UserID = e.UserID()
		payload.Total = e.Total().String()
		payload.LineCount = e.LineCount()
		payload.Status = order.Pending.String()
	case order.StatusChangedEvent:
		payload.From = e.From().String()
		payload.Status = e.Status().String()
	default:
		return MessageDTO{}, fmt.Errorf("unsupported event %T", event)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return MessageDTO{}, err
	}

	return MessageDTO{
		EventID:    event.EventID().Bytes(),
		Name:       event.EventName(),
		Key:        event.OrderID().String(),
		Payload:    string(data),
		OccurredAt: event.OccurredAt(),
	}, nil
}

func toMessage(dto MessageDTO) ports.OutboxMessage {
	return ports.OutboxMessage{
		ID:         dto.ID,
		EventID:    dto.EventID.String(),
		Name:       dto.Name,
		Key:        dto.Key,
		Payload:    []byte(dto.Payload),
		OccurredAt: dto.OccurredAt,
	}
}
