// Package gateway exposes a small read-only HTTP surface over the order
// tracker for operators: health checks and order lookups. It never mutates
// state; all writes go through the chat dialogue.
package gateway

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/example/freshmart/pkg/config"
	"github.com/example/freshmart/pkg/order"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	config  *config.GatewayConfig
	tracker *order.Tracker
	logger  *zap.Logger
	router  *gin.Engine
}

func New(cfg *config.GatewayConfig, tracker *order.Tracker, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	s := &Server{
		config:  cfg,
		tracker: tracker,
		logger:  logger,
		router:  router,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.GET("", s.listOrders)
			orders.GET("/:id", s.getOrder)
		}
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("Ops server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Handler exposes the router; used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

type lineResponse struct {
	Item     string `json:"item"`
	Price    string `json:"price"`
	Unit     string `json:"unit"`
	Quantity int    `json:"quantity"`
}

type orderResponse struct {
	ID           string         `json:"id"`
	CustomerID   int64          `json:"customer_id"`
	CustomerName string         `json:"customer_name"`
	Phone        string         `json:"phone"`
	Address      string         `json:"address"`
	Lines        []lineResponse `json:"lines"`
	Subtotal     string         `json:"subtotal"`
	DeliveryFee  string         `json:"delivery_fee"`
	Total        string         `json:"total"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func toResponse(o *order.Order) orderResponse {
	lines := make([]lineResponse, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, lineResponse{
			Item:     line.Item,
			Price:    line.Price.StringFixed(2),
			Unit:     line.Unit,
			Quantity: line.Quantity,
		})
	}
	return orderResponse{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Address:      o.Address,
		Lines:        lines,
		Subtotal:     o.Subtotal.StringFixed(2),
		DeliveryFee:  o.DeliveryFee.StringFixed(2),
		Total:        o.Total.StringFixed(2),
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func (s *Server) listOrders(c *gin.Context) {
	var orders []*order.Order
	if raw := c.Query("customer_id"); raw != "" {
		customerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
			return
		}
		orders = s.tracker.ListForCustomer(customerID)
	} else {
		orders = s.tracker.All()
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toResponse(o))
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": out,
		"total":  len(out),
	})
}

func (s *Server) getOrder(c *gin.Context) {
	o, ok := s.tracker.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(o))
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
