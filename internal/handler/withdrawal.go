package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"transit/internal/domain"
	"transit/internal/middleware"
	"transit/internal/service"
)

// WithdrawalHandler handles HTTP requests for driver payouts.
type WithdrawalHandler struct {
	withdrawalService *service.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalService *service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

// CreateWithdrawalRequest is the HTTP request body for requesting a payout.
type CreateWithdrawalRequest struct {
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	MethodDetails string  `json:"method_details"`
}

// WithdrawalResponse is the HTTP response for withdrawal data.
type WithdrawalResponse struct {
	ID            string  `json:"id"`
	DriverID      string  `json:"driver_id"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method,omitempty"`
	MethodDetails string  `json:"method_details,omitempty"`
	Status        string  `json:"status"`
	ProcessedBy   string  `json:"processed_by,omitempty"`
	ProcessedAt   string  `json:"processed_at,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

func toWithdrawalResponse(w *domain.Withdrawal) WithdrawalResponse {
	resp := WithdrawalResponse{
		ID:            w.ID,
		DriverID:      w.DriverID,
		Amount:        w.Amount,
		Method:        w.Method,
		MethodDetails: w.MethodDetails,
		Status:        string(w.Status),
		ProcessedBy:   w.ProcessedBy,
		Notes:         w.Notes,
	}
	if !w.ProcessedAt.IsZero() {
		resp.ProcessedAt = w.ProcessedAt.Format(time.RFC3339)
	}
	return resp
}

// CreateWithdrawal handles POST /v1/withdrawals
func (h *WithdrawalHandler) CreateWithdrawal(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	withdrawal, err := h.withdrawalService.CreateWithdrawal(c.Request.Context(), service.CreateWithdrawalRequest{
		Actor:         actor,
		Amount:        req.Amount,
		Method:        req.Method,
		MethodDetails: req.MethodDetails,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toWithdrawalResponse(withdrawal))
}

// ProcessWithdrawalRequest is the HTTP request body for an office decision.
type ProcessWithdrawalRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// ProcessWithdrawal handles POST /v1/withdrawals/:id/process
func (h *WithdrawalHandler) ProcessWithdrawal(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req ProcessWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	withdrawal, err := h.withdrawalService.ProcessWithdrawal(c.Request.Context(), service.ProcessWithdrawalRequest{
		Actor:        actor,
		WithdrawalID: c.Param("id"),
		Status:       domain.WithdrawalStatus(req.Status),
		Notes:        req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toWithdrawalResponse(withdrawal))
}

// GetBalance handles GET /v1/withdrawals/balance
func (h *WithdrawalHandler) GetBalance(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	driverID := actor.UserID
	if actor.Is(domain.RoleOffice) && c.Query("driver_id") != "" {
		driverID = c.Query("driver_id")
	} else if !actor.Is(domain.RoleDriver) && !actor.Is(domain.RoleOffice) {
		respondError(c, service.ErrNotAllowed)
		return
	}

	balance, err := h.withdrawalService.Balance(c.Request.Context(), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"driver_id": driverID,
		"balance":   balance,
	})
}

// GetWithdrawal handles GET /v1/withdrawals/:id
func (h *WithdrawalHandler) GetWithdrawal(c *gin.Context) {
	withdrawal, err := h.withdrawalService.GetWithdrawal(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toWithdrawalResponse(withdrawal))
}

// ListWithdrawals handles GET /v1/withdrawals
func (h *WithdrawalHandler) ListWithdrawals(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	withdrawals, err := h.withdrawalService.ListWithdrawals(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]WithdrawalResponse, 0, len(withdrawals))
	for _, w := range withdrawals {
		response = append(response, toWithdrawalResponse(w))
	}

	respondJSON(c, http.StatusOK, response)
}
