package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/hospitality-suite/services"
	"github.com/yeremiapane/hospitality-suite/utils"
)

type BillingController struct {
	Service *services.BillingService
	Gateway *services.GatewayService
}

func NewBillingController(service *services.BillingService, gateway *services.GatewayService) *BillingController {
	return &BillingController{Service: service, Gateway: gateway}
}

// CreateBill -> bill an order (or ad-hoc items) and complete it
func (bc *BillingController) CreateBill(c *gin.Context) {
	var input services.CreateBillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	bill, err := bc.Service.CreateBill(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Bill created", bill)
}

// ListBills -> bills, optionally filtered by business unit
func (bc *BillingController) ListBills(c *gin.Context) {
	bills, err := bc.Service.ListBills(c.Query("business_unit"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bills", bills)
}

// GetBill -> one bill with its item snapshot
func (bc *BillingController) GetBill(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("bill_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid bill id"))
		return
	}

	bill, err := bc.Service.GetBill(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bill detail", bill)
}

// DeleteTransaction -> cross-store delete of a bill/booking by id
func (bc *BillingController) DeleteTransaction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("transaction_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid transaction id"))
		return
	}

	var body struct {
		Password     string `json:"password"`
		BusinessUnit string `json:"business_unit"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := bc.Service.DeleteTransaction(uint(id), body.Password, body.BusinessUnit, roleFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, result.Message, result)
}

// GetRevenueSummary -> aggregated revenue over bills and booking ledgers
func (bc *BillingController) GetRevenueSummary(c *gin.Context) {
	period := c.DefaultQuery("period", "day")

	now := time.Now()
	var from time.Time
	switch period {
	case "day":
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		from = now.AddDate(0, 0, -7)
	case "month":
		from = now.AddDate(0, -1, 0)
	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown period %q", period))
		return
	}

	summary, err := bc.Service.GetRevenueSummary(c.Query("business_unit"), from, now)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Revenue summary", summary)
}

// ChargeQRIS -> create a Midtrans QRIS charge for an existing bill
func (bc *BillingController) ChargeQRIS(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("bill_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid bill id"))
		return
	}

	bill, err := bc.Service.GetBill(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	charge, err := bc.Gateway.ChargeQRIS(bill)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "QRIS charge created", charge)
}
