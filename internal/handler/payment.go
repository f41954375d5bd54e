package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"transit/internal/domain"
	"transit/internal/middleware"
	"transit/internal/service"
)

// PaymentHandler handles HTTP requests for payments and receipts.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// InitiatePaymentRequest is the HTTP request body for initiating a payment.
type InitiatePaymentRequest struct {
	TripID      string `json:"trip_id"`
	PassengerID string `json:"passenger_id"` // office use only
	DriverID    string `json:"driver_id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Seats       int    `json:"seats"`
	Method      string `json:"method"`
}

// PaymentResponse is the HTTP response for payment operations.
type PaymentResponse struct {
	ID          string  `json:"id"`
	TripID      string  `json:"trip_id,omitempty"`
	PassengerID string  `json:"passenger_id"`
	DriverID    string  `json:"driver_id"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	Status      string  `json:"status"`
	ExternalRef string  `json:"external_ref"`
}

// ReceiptResponse is the HTTP response for receipt data.
type ReceiptResponse struct {
	ID         string `json:"id"`
	PaymentID  string `json:"payment_id"`
	Number     string `json:"number"`
	QRData     string `json:"qr_data,omitempty"`
	Verified   bool   `json:"verified"`
	VerifiedBy string `json:"verified_by,omitempty"`
	VerifiedAt string `json:"verified_at,omitempty"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		TripID:      p.TripID,
		PassengerID: p.PassengerID,
		DriverID:    p.DriverID,
		Amount:      p.Amount,
		Method:      string(p.Method),
		Status:      string(p.Status),
		ExternalRef: p.ExternalRef,
	}
}

func toReceiptResponse(r *domain.Receipt) ReceiptResponse {
	resp := ReceiptResponse{
		ID:        r.ID,
		PaymentID: r.PaymentID,
		Number:    r.Number,
		QRData:    r.QRData,
		Verified:  r.Verified,
	}
	if r.Verified {
		resp.VerifiedBy = r.VerifiedBy
		resp.VerifiedAt = r.VerifiedAt.Format(time.RFC3339)
	}
	return resp
}

// InitiatePayment handles POST /v1/payments
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	result, err := h.paymentService.InitiatePayment(c.Request.Context(), service.InitiatePaymentRequest{
		Actor:       actor,
		TripID:      req.TripID,
		PassengerID: req.PassengerID,
		DriverID:    req.DriverID,
		Origin:      req.Origin,
		Destination: req.Destination,
		Seats:       req.Seats,
		Method:      domain.PaymentMethod(req.Method),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{
		"payment": toPaymentResponse(result.Payment),
		"qr":      result.QR,
	})
}

// ConfirmPayment handles POST /v1/payments/:id/confirm
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	result, err := h.paymentService.ConfirmPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		// A decline still resolves the payment; report the failed row.
		if result != nil && err == service.ErrPaymentDeclined {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"success": false,
				"message": err.Error(),
				"payment": toPaymentResponse(result.Payment),
			})
			return
		}
		respondError(c, err)
		return
	}

	response := gin.H{"payment": toPaymentResponse(result.Payment)}
	if result.Receipt != nil {
		response["receipt"] = toReceiptResponse(result.Receipt)
	}

	respondJSON(c, http.StatusOK, response)
}

// RefundPayment handles POST /v1/payments/:id/refund
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	payment, err := h.paymentService.RefundPayment(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// GetPayment handles GET /v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// ListPayments handles GET /v1/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	payments, err := h.paymentService.ListPayments(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		response = append(response, toPaymentResponse(p))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetReceipt handles GET /v1/payments/:id/receipt
func (h *PaymentHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.paymentService.GetReceiptForPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toReceiptResponse(receipt))
}

// VerifyReceipt handles POST /v1/receipts/:id/verify
func (h *PaymentHandler) VerifyReceipt(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	receipt, err := h.paymentService.VerifyReceipt(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toReceiptResponse(receipt))
}
