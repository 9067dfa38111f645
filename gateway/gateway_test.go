package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/freshmart/gateway"
	"github.com/example/freshmart/pkg/config"
	"github.com/example/freshmart/pkg/ledger"
	"github.com/example/freshmart/pkg/notify"
	"github.com/example/freshmart/pkg/order"
	"github.com/example/freshmart/pkg/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopNotifier struct{}

func (nopNotifier) Send(int64, string) bool { return true }

func (nopNotifier) SendReplyMenu(int64, string, [][]string) bool { return true }

func (nopNotifier) SendActionMenu(int64, string, [][]notify.Button) bool { return true }

func newServer(t *testing.T) (*gateway.Server, *order.Tracker) {
	t.Helper()
	tracker := order.NewTracker(nopNotifier{}, ledger.Disabled{}, zap.NewNop())
	cfg := &config.GatewayConfig{Host: "127.0.0.1", Port: 0}
	return gateway.New(cfg, tracker, zap.NewNop()), tracker
}

func seedOrder(tracker *order.Tracker, customerID int64) *order.Order {
	cart := store.Cart{
		"Apples": {Item: "Apples", Price: decimal.RequireFromString("3.99"), Unit: "kg", Quantity: 2},
	}
	return tracker.Create(context.Background(), customerID, "Alice", "555-1111", "1 First St", cart, "")
}

func get(t *testing.T, srv *gateway.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t)

	rec := get(t, srv, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListOrders(t *testing.T) {
	srv, tracker := newServer(t)
	seedOrder(tracker, 1)
	seedOrder(tracker, 2)

	rec := get(t, srv, "/api/v1/orders")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Orders []map[string]any `json:"orders"`
		Total  int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
	require.Len(t, body.Orders, 2)
	assert.Equal(t, "Pending", body.Orders[0]["status"])
	assert.Equal(t, "12.98", body.Orders[0]["total"])
}

func TestListOrdersByCustomer(t *testing.T) {
	srv, tracker := newServer(t)
	mine := seedOrder(tracker, 1)
	seedOrder(tracker, 2)

	rec := get(t, srv, "/api/v1/orders?customer_id=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Orders []map[string]any `json:"orders"`
		Total  int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	require.Len(t, body.Orders, 1)
	assert.Equal(t, mine.ID, body.Orders[0]["id"])
}

func TestListOrdersBadCustomerID(t *testing.T) {
	srv, _ := newServer(t)

	rec := get(t, srv, "/api/v1/orders?customer_id=alice")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrder(t *testing.T) {
	srv, tracker := newServer(t)
	o := seedOrder(tracker, 1)

	rec := get(t, srv, "/api/v1/orders/"+o.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, o.ID, body["id"])
	assert.Equal(t, "Alice", body["customer_name"])
	assert.Equal(t, "12.98", body["total"])
}

func TestGetOrderNotFound(t *testing.T) {
	srv, _ := newServer(t)

	rec := get(t, srv, "/api/v1/orders/ORD0000missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
