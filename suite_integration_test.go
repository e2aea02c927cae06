package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/hospitality-suite/config"
	"github.com/yeremiapane/hospitality-suite/models"
	"github.com/yeremiapane/hospitality-suite/router"
	"github.com/yeremiapane/hospitality-suite/utils"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func (c *apiClient) do(method, url string, payload interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(c.t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func (c *apiClient) data(w *httptest.ResponseRecorder) map[string]interface{} {
	c.t.Helper()
	var resp map[string]interface{}
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp["data"].(map[string]interface{})
	return data
}

func setupSuite(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000&_txlock=immediate", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	autoMigrate(db)

	cfg := config.Config{
		EnablePasswordProtection: true,
		AdminDeletionPassword:    "super-secret",
		DefaultGSTPercent:        18,
	}

	token, err := utils.GenerateToken(1, "admin")
	require.NoError(t, err)

	return &apiClient{t: t, router: router.SetupRouter(db, cfg), token: token}
}

// Walks one reservation through its whole life over the HTTP surface: a room
// is created and booked, the ledger fills up in two payments, a competing
// overlapping booking is turned away, and finally the record is deleted with
// the admin password and stays gone.
func TestBookingLifecycleEndToEnd(t *testing.T) {
	c := setupSuite(t)

	w := c.do("POST", "/api/rooms", map[string]interface{}{
		"number": "R1", "business_unit": "hotel", "base_price": 1500,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	roomID := uint(c.data(w)["id"].(float64))

	w = c.do("POST", "/api/bookings", map[string]interface{}{
		"type":          "hotel",
		"room_id":       roomID,
		"customer_name": "Ravi",
		"start_date":    "2024-06-01T00:00:00Z",
		"end_date":      "2024-06-03T00:00:00Z",
		"base_price":    3000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booking := c.data(w)
	bookingID := int(booking["id"].(float64))
	assert.Equal(t, float64(3000), booking["total_amount"])
	assert.Equal(t, string(models.PaymentPending), booking["payment_status"])

	payURL := fmt.Sprintf("/api/bookings/%d/payments", bookingID)
	w = c.do("POST", payURL, map[string]interface{}{"amount": 1000, "method": "cash"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	booking = c.data(w)
	assert.Equal(t, string(models.PaymentPartial), booking["payment_status"])
	assert.Equal(t, float64(2000), booking["remaining_balance"])

	w = c.do("POST", payURL, map[string]interface{}{"amount": 2000, "method": "card"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	booking = c.data(w)
	assert.Equal(t, string(models.PaymentCompleted), booking["payment_status"])
	assert.Equal(t, float64(0), booking["remaining_balance"])

	// Every ledger entry carries its own receipt number.
	payments := booking["payments"].([]interface{})
	require.Len(t, payments, 2)
	for _, p := range payments {
		assert.NotEmpty(t, p.(map[string]interface{})["receipt_number"])
	}

	// A competing reservation overlapping mid-stay is rejected.
	w = c.do("POST", "/api/bookings", map[string]interface{}{
		"type":       "hotel",
		"room_id":    roomID,
		"start_date": "2024-06-02T00:00:00Z",
		"end_date":   "2024-06-04T00:00:00Z",
		"base_price": 1500,
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	delURL := fmt.Sprintf("/api/transactions/%d", bookingID)
	w = c.do("DELETE", delURL, map[string]string{
		"password": "super-secret", "business_unit": "hotel",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := c.data(w)
	assert.Equal(t, true, result["success"])
	assert.Equal(t, true, result["booking_removed"])

	w = c.do("DELETE", delURL, map[string]string{
		"password": "super-secret", "business_unit": "hotel",
	})
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	// With the booking gone the dates are free again.
	w = c.do("POST", "/api/bookings", map[string]interface{}{
		"type":       "hotel",
		"room_id":    roomID,
		"start_date": "2024-06-01T00:00:00Z",
		"end_date":   "2024-06-03T00:00:00Z",
		"base_price": 3000,
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

// An order travels the kitchen pipeline and is closed out by billing; the
// bill keeps a frozen item snapshot and a date-scoped sequential number.
func TestOrderToBillEndToEnd(t *testing.T) {
	c := setupSuite(t)

	w := c.do("POST", "/api/tables", map[string]interface{}{"table_number": "T7"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tableID := uint(c.data(w)["id"].(float64))

	w = c.do("POST", "/api/orders", map[string]interface{}{
		"business_unit": "cafe",
		"table_id":      tableID,
		"items": []map[string]interface{}{
			{"name": "Masala Dosa", "quantity": 2, "price": 120},
			{"name": "Filter Coffee", "quantity": 1, "price": 40},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := c.data(w)
	orderID := int(order["id"].(float64))
	assert.Equal(t, float64(280), order["total_amount"])

	statusURL := fmt.Sprintf("/api/orders/%d/status", orderID)
	for _, status := range []string{"preparing", "ready", "served"} {
		w = c.do("PATCH", statusURL, map[string]string{"status": status})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = c.do("POST", "/api/bills", map[string]interface{}{
		"order_id":      orderID,
		"business_unit": "cafe",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bill := c.data(w)
	assert.Contains(t, bill["bill_number"], "BILL-")
	assert.Equal(t, float64(280), bill["subtotal"])
	assert.Len(t, bill["items"].([]interface{}), 2)

	// The billed order is completed and its table is free again.
	w = c.do("GET", fmt.Sprintf("/api/orders/%d", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(models.OrderCompleted), c.data(w)["status"])

	w = c.do("GET", "/api/tables", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	tables := resp["data"].([]interface{})
	require.NotEmpty(t, tables)
	assert.Equal(t, string(models.RoomAvailable), tables[0].(map[string]interface{})["status"])
}
