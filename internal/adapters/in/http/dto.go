package http

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the body of POST /api/v1/orders. Total is optional and
// only cross-checked against the computed total.
type CreateOrderRequest struct {
	StoreID string             `json:"store_id"`
	Items   []OrderItemRequest `json:"items"`
	Total   *decimal.Decimal   `json:"total,omitempty"`
}

type OrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	ID        string              `json:"id"`
	StoreID   string              `json:"store_id"`
	UserID    string              `json:"user_id"`
	Total     string              `json:"total"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	Items     []OrderItemResponse `json:"items"`
}

type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// lines converts the requested items. Price and product id problems are
// reported per item; quantity is left to the order line constructor.
func (r CreateOrderRequest) lines() ([]commands.CreateOrderLine, error) {
	lines := make([]commands.CreateOrderLine, 0, len(r.Items))
	var itemErrs []error
	for i, item := range r.Items {
		productID, err := kernel.ParseID(fmt.Sprintf("items[%d].product_id", i), item.ProductID)
		if err != nil {
			itemErrs = append(itemErrs, err)
			continue
		}
		price, err := kernel.NewMoney(item.Price)
		if err != nil {
			itemErrs = append(itemErrs, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].price", i), err))
			continue
		}
		lines = append(lines, commands.CreateOrderLine{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitPrice: price,
		})
	}
	if len(itemErrs) > 0 {
		return nil, errors.Join(itemErrs...)
	}
	return lines, nil
}

func (r CreateOrderRequest) expectedTotal() (*kernel.Money, error) {
	if r.Total == nil {
		return nil, nil
	}
	total, err := kernel.NewMoney(*r.Total)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("total", err)
	}
	return &total, nil
}

func orderResponse(o *order.Order) OrderResponse {
	lines := o.Lines()
	items := make([]OrderItemResponse, len(lines))
	for i, line := range lines {
		items[i] = OrderItemResponse{
			ProductID: line.ProductID().String(),
			Quantity:  line.Quantity(),
			Price:     line.UnitPrice().String(),
		}
	}
	return OrderResponse{
		ID:        o.ID().String(),
		StoreID:   o.StoreID().String(),
		UserID:    o.UserID(),
		Total:     o.Total().String(),
		Status:    o.Status().String(),
		CreatedAt: o.CreatedAt(),
		Items:     items,
	}
}

func viewResponse(v queries.OrderView) OrderResponse {
	items := make([]OrderItemResponse, len(v.Lines))
	for i, line := range v.Lines {
		items[i] = OrderItemResponse{
			ProductID: line.ProductID.String(),
			Quantity:  line.Quantity,
			Price:     line.UnitPrice.String(),
		}
	}
	return OrderResponse{
		ID:        v.ID.String(),
		StoreID:   v.StoreID.String(),
		UserID:    v.UserID,
		Total:     v.Total.String(),
		Status:    v.Status.String(),
		CreatedAt: v.CreatedAt,
		Items:     items,
	}
}

func viewResponses(views []queries.OrderView) []OrderResponse {
	out := make([]OrderResponse, len(views))
	for i, v := range views {
		out[i] = viewResponse(v)
	}
	return out
}
