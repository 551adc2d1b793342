// Package http exposes the order operations over a JSON API. Handlers only
// translate requests into commands and queries; all rules live in the core.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type CreateOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
}

type ChangeOrderStatusHandler interface {
	Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (*order.Order, error)
}

type GetOrderHandler interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
}

type ListUserOrdersHandler interface {
	Handle(ctx context.Context, query queries.ListUserOrdersQuery) ([]queries.OrderView, error)
}

type ListStoreOrdersHandler interface {
	Handle(ctx context.Context, query queries.ListStoreOrdersQuery) ([]queries.OrderView, error)
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       CreateOrderHandler
	changeOrderStatusHandler ChangeOrderStatusHandler

	// Query handlers
	getOrderHandler        GetOrderHandler
	listUserOrdersHandler  ListUserOrdersHandler
	listStoreOrdersHandler ListStoreOrdersHandler

	logger *slog.Logger
}

func NewServer(
	createOrderHandler CreateOrderHandler,
	changeOrderStatusHandler ChangeOrderStatusHandler,
	getOrderHandler GetOrderHandler,
	listUserOrdersHandler ListUserOrdersHandler,
	listStoreOrdersHandler ListStoreOrdersHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		changeOrderStatusHandler: changeOrderStatusHandler,
		getOrderHandler:          getOrderHandler,
		listUserOrdersHandler:    listUserOrdersHandler,
		listStoreOrdersHandler:   listStoreOrdersHandler,
		logger:                   logger.With("component", "http"),
	}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return s.respondError(c, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	storeID, err := kernel.ParseID("store_id", req.StoreID)
	if err != nil {
		return s.respondError(c, err)
	}
	lines, err := req.lines()
	if err != nil {
		return s.respondError(c, err)
	}
	expectedTotal, err := req.expectedTotal()
	if err != nil {
		return s.respondError(c, err)
	}

	cmd, err := commands.NewCreateOrderCommand(callerFrom(c), kernel.NewUUID(), storeID, lines, expectedTotal)
	if err != nil {
		return s.respondError(c, err)
	}

	created, err := s.createOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusCreated, orderResponse(created))
}

// GetMyOrders handles GET /api/v1/orders/my-orders.
func (s *Server) GetMyOrders(c echo.Context) error {
	query, err := queries.NewListUserOrdersQuery(callerFrom(c))
	if err != nil {
		return s.respondError(c, err)
	}

	views, err := s.listUserOrdersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, viewResponses(views))
}

// GetOrder handles GET /api/v1/orders/{id}.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := bindUUID(c, "id")
	if err != nil {
		return s.respondError(c, err)
	}

	query, err := queries.NewGetOrderQuery(callerFrom(c), orderID)
	if err != nil {
		return s.respondError(c, err)
	}

	view, err := s.getOrderHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, viewResponse(view))
}

// ChangeOrderStatus handles PATCH /api/v1/orders/{id}/status.
func (s *Server) ChangeOrderStatus(c echo.Context) error {
	orderID, err := bindUUID(c, "id")
	if err != nil {
		return s.respondError(c, err)
	}

	var req ChangeStatusRequest
	if err := c.Bind(&req); err != nil {
		return s.respondError(c, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewChangeOrderStatusCommand(callerFrom(c), orderID, req.Status)
	if err != nil {
		return s.respondError(c, err)
	}

	updated, err := s.changeOrderStatusHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, orderResponse(updated))
}

// ListStoreOrders handles GET /api/v1/stores/{storeId}/orders.
func (s *Server) ListStoreOrders(c echo.Context) error {
	storeID, err := bindUUID(c, "storeId")
	if err != nil {
		return s.respondError(c, err)
	}

	query, err := queries.NewListStoreOrdersQuery(callerFrom(c), storeID)
	if err != nil {
		return s.respondError(c, err)
	}

	views, err := s.listStoreOrdersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, viewResponses(views))
}

func bindUUID(c echo.Context, name string) (kernel.UUID, error) {
	var raw openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &raw, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}

	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func callerFrom(c echo.Context) identity.Identity {
	caller, _ := c.Get(callerKey).(identity.Identity)
	return caller
}
