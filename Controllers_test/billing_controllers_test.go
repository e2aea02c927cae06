package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/hospitality-suite/config"
	"github.com/yeremiapane/hospitality-suite/controllers"
	"github.com/yeremiapane/hospitality-suite/models"
	"github.com/yeremiapane/hospitality-suite/services"
	"github.com/yeremiapane/hospitality-suite/utils"
)

func setupTestDBForBilling() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:ctl_billing?mode=memory&cache=shared&_busy_timeout=5000&_txlock=immediate"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.Bill{}, &models.BillItem{},
		&models.Order{}, &models.OrderItem{}, &models.OrderEvent{},
		&models.Booking{}, &models.Payment{}, &models.Room{}, &models.Table{},
		&models.Counter{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

func setupBillingRouter(db *gorm.DB, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("role", role)
		c.Next()
	})

	cfg := config.Config{
		EnablePasswordProtection: true,
		AdminDeletionPassword:    "super-secret",
		DefaultGSTPercent:        18,
	}
	numbering := services.NewNumberingService(db)
	billing := services.NewBillingService(db, numbering, nil, cfg)
	billingCtrl := controllers.NewBillingController(billing, services.NewGatewayService(cfg))
	router.POST("/bills", billingCtrl.CreateBill)
	router.GET("/bills/:bill_id", billingCtrl.GetBill)
	router.DELETE("/transactions/:transaction_id", billingCtrl.DeleteTransaction)
	return router
}

func deleteJSON(router *gin.Engine, url string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("DELETE", url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateBillAndDeleteTransaction(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForBilling()
	router := setupBillingRouter(db, "admin")

	payload := map[string]interface{}{
		"business_unit": "cafe",
		"items": []map[string]interface{}{
			{"name": "Paneer Tikka", "quantity": 2, "price": 250},
		},
	}
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/bills", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(500), data["grand_total"])
	billID := int(data["id"].(float64))

	url := "/transactions/" + strconv.Itoa(billID)
	w = deleteJSON(router, url, map[string]string{"password": "super-secret", "business_unit": "cafe"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	result := resp["data"].(map[string]interface{})
	assert.Equal(t, true, result["success"])
	assert.Equal(t, true, result["bill_removed"])

	// The record is gone, so the same delete now reports not found.
	w = deleteJSON(router, url, map[string]string{"password": "super-secret", "business_unit": "cafe"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTransactionRequiresAdminAndPassword(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForBilling()

	staffRouter := setupBillingRouter(db, "staff")
	w := deleteJSON(staffRouter, "/transactions/1", map[string]string{"password": "super-secret", "business_unit": "cafe"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminRouter := setupBillingRouter(db, "admin")
	w = deleteJSON(adminRouter, "/transactions/1", map[string]string{"password": "nope", "business_unit": "cafe"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
