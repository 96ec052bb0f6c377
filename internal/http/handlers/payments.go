package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/WayneCarlG/meet-a-vet/internal/domain"
	"github.com/WayneCarlG/meet-a-vet/internal/http/middleware"
	"github.com/WayneCarlG/meet-a-vet/internal/mpesa"
	"github.com/WayneCarlG/meet-a-vet/internal/repositories"
	"github.com/WayneCarlG/meet-a-vet/internal/services"
	"github.com/WayneCarlG/meet-a-vet/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	Payments     repositories.PaymentRepository
	Appointments repositories.AppointmentRepository
	Pusher       services.StkPusher
}

func (h PaymentHandler) service(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		Payments:     h.Payments,
		Appointments: h.Appointments,
		Pusher:       h.Pusher,
		RequestID:    middleware.GetRequestID(c),
	}
}

type initiateRequest struct {
	Phone string `json:"phone"`
	// Accepts both JSON numbers and strings.
	Amount        decimal.Decimal `json:"amount"`
	AppointmentID string          `json:"appointment_id"`
}

// POST /api/initiate-stk-push
func (h PaymentHandler) InitiateSTKPush(c *gin.Context) {
	var req initiateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	checkoutID, err := h.service(c).Initiate(c.Request.Context(), req.Phone, req.Amount, req.AppointmentID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             "STK push sent, authorize the payment on your phone",
		"checkout_request_id": checkoutID,
	})
}

// PaymentCallback handles the provider-originated notification. Every code
// path acknowledges success: the provider retries indefinitely on anything
// else, and a retry storm for a callback we already received helps nobody.
// POST /api/payment-callback
func (h PaymentHandler) PaymentCallback(c *gin.Context) {
	ack := func() {
		c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
	}

	raw, err := c.GetRawData()
	if err != nil {
		utils.LogEvent(middleware.GetRequestID(c), "payment", "callback_read_failed", err.Error())
		ack()
		return
	}

	var env mpesa.CallbackEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		utils.LogEvent(middleware.GetRequestID(c), "payment", "callback_malformed", err.Error())
		ack()
		return
	}

	if err := h.service(c).Reconcile(env.Body.STKCallback, raw); err != nil {
		utils.LogEvent(middleware.GetRequestID(c), "payment", "callback_failed",
			fmt.Sprintf("checkout_request_id=%s err=%v", env.Body.STKCallback.CheckoutRequestID, err))
	}
	ack()
}

// GET /api/payment-status/:checkout_request_id
func (h PaymentHandler) PaymentStatus(c *gin.Context) {
	rec, err := h.service(c).Status(c.Param("checkout_request_id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":              rec.Status,
		"checkout_request_id": rec.CheckoutRequestID,
	})
}

// GET /api/payments/:checkout_request_id/receipt
func (h PaymentHandler) Receipt(c *gin.Context) {
	svc := services.ReceiptService{
		Payments:     h.Payments,
		Appointments: h.Appointments,
		RequestID:    middleware.GetRequestID(c),
	}

	pdfBytes, filename, err := svc.GenerateReceipt(c.Param("checkout_request_id"))
	if err != nil {
		if domain.IsConflict(err) {
			respondError(c, http.StatusForbidden, "payment_incomplete", err.Error())
			return
		}
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
