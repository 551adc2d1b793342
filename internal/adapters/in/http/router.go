package http

import (
	"net/http"

	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type RouterConfig struct {
	Server   *Server
	Verifier ports.ClaimsVerifier
	Spec     *openapi3.T
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	// Channel serves GET /ws. Nil disables the route.
	Channel http.Handler
}

// NewRouter wires middleware and routes onto a fresh echo instance.
func NewRouter(cfg RouterConfig) (*echo.Echo, error) {
	s := cfg.Server

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.HTTPErrorHandler

	e.Use(middleware.Recover())
	e.Use(RequestLogger(s.logger))
	e.Use(Metrics(cfg.Metrics))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(cfg.Gatherer)))
	if err := RegisterSwagger(cfg.Spec); err != nil {
		return nil, err
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if cfg.Channel != nil {
		e.GET("/ws", echo.WrapHandler(cfg.Channel))
	}

	validator, err := s.RequestValidator(cfg.Spec)
	if err != nil {
		return nil, err
	}

	api := e.Group("/api/v1", s.Authenticate(cfg.Verifier), validator)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/my-orders", s.GetMyOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id/status", s.ChangeOrderStatus)
	api.GET("/stores/:storeId/orders", s.ListStoreOrders)

	return e, nil
}
