package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"transit/internal/domain"
	"transit/internal/middleware"
	"transit/internal/service"
)

// MessageHandler handles HTTP requests for office messages.
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessageRequest is the HTTP request body for sending a message.
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id"` // empty broadcasts to everyone
	Body        string `json:"body"`
}

// MessageResponse is the HTTP response for message data.
type MessageResponse struct {
	ID          string `json:"id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id,omitempty"`
	Type        string `json:"type"`
	Body        string `json:"body"`
	Read        bool   `json:"read"`
	CreatedAt   string `json:"created_at"`
}

func toMessageResponse(m *domain.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Type:        string(m.Type),
		Body:        m.Body,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}

// SendMessage handles POST /v1/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	msg, err := h.messageService.SendMessage(c.Request.Context(), service.SendMessageRequest{
		Actor:       actor,
		RecipientID: req.RecipientID,
		Body:        req.Body,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toMessageResponse(msg))
}

// ListMessages handles GET /v1/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	msgs, err := h.messageService.ListMessages(c.Request.Context(), actor, c.Query("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		response = append(response, toMessageResponse(m))
	}

	respondJSON(c, http.StatusOK, response)
}

// MarkRead handles POST /v1/messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	if err := h.messageService.MarkMessageRead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"id": c.Param("id"), "read": true})
}
