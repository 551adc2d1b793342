// Package orderrepo maps order aggregates to the orders and order_lines tables.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. Amounts use unconstrained numeric so every
// decimal place of the computed total survives a round trip.
type OrderDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StoreID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_orders_store_created,priority:1"`
	UserID    string          `gorm:"not null;index:idx_orders_user_created,priority:1"`
	Total     decimal.Decimal `gorm:"type:numeric;not null"`
	Status    int             `gorm:"not null"`
	CreatedAt time.Time       `gorm:"not null;index:idx_orders_store_created,priority:2;index:idx_orders_user_created,priority:2"`
	Lines     []LineDTO       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineDTO is one order_lines row. Position keeps the submitted line order.
type LineDTO struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position  int             `gorm:"primaryKey;autoIncrement:false"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null;check:chk_order_lines_quantity,quantity > 0"`
	UnitPrice decimal.Decimal `gorm:"type:numeric;not null"`
}

func (LineDTO) TableName() string {
	return "order_lines"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	lines := aggregate.Lines()
	dto := OrderDTO{
		ID:        aggregate.ID().Bytes(),
		StoreID:   aggregate.StoreID().Bytes(),
		UserID:    aggregate.UserID(),
		Total:     aggregate.Total().Amount(),
		Status:    int(aggregate.Status()),
		CreatedAt: aggregate.CreatedAt(),
		Lines:     make([]LineDTO, 0, len(lines)),
	}
	for i, line := range lines {
		dto.Lines = append(dto.Lines, LineDTO{
			OrderID:   dto.ID,
			Position:  i,
			ProductID: line.ProductID().Bytes(),
			Quantity:  line.Quantity(),
			UnitPrice: line.UnitPrice().Amount(),
		})
	}
	return dto
}

// ToDomain restores an aggregate from a row loaded with its lines ordered by
// position. It is shared with the read side.
func ToDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	storeID, err := kernel.UUIDFromBytes(dto.StoreID[:])
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoney(dto.Total)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		productID, pErr := kernel.UUIDFromBytes(l.ProductID[:])
		if pErr != nil {
			return nil, pErr
		}
		price, mErr := kernel.NewMoney(l.UnitPrice)
		if mErr != nil {
			return nil, mErr
		}
		line, lErr := order.NewLine(productID, l.Quantity, price)
		if lErr != nil {
			return nil, lErr
		}
		lines = append(lines, line)
	}

	return order.RestoreOrder(id, storeID, dto.UserID, lines, total, order.Status(dto.Status), dto.CreatedAt.UTC())
}
