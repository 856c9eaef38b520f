package handler

import (
	"net/http"

	"car_dealership/internal/model"
	"car_dealership/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler handles the contact inbox
type MessageHandler struct {
	service service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(s service.MessageService) *MessageHandler {
	return &MessageHandler{service: s}
}

func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var req model.CreateMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.service.CreateMessage(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "send message")
		return
	}
	success(c, http.StatusCreated, gin.H{"data": m})
}

func (h *MessageHandler) ListMessages(c *gin.Context) {
	messages, err := h.service.ListMessages(c.Request.Context(), optionalPrincipal(c))
	if err != nil {
		respondError(c, err, "retrieve messages")
		return
	}
	success(c, http.StatusOK, gin.H{"count": len(messages), "data": messages})
}

func (h *MessageHandler) GetMessage(c *gin.Context) {
	id, valid := pathID(c, "id", "message")
	if !valid {
		return
	}
	m, err := h.service.GetMessage(c.Request.Context(), optionalPrincipal(c), id)
	if err != nil {
		respondError(c, err, "retrieve message")
		return
	}
	success(c, http.StatusOK, gin.H{"data": m})
}

func (h *MessageHandler) UpdateMessage(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id", "message")
	if !valid {
		return
	}
	var req model.UpdateMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.service.UpdateMessage(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err, "update message")
		return
	}
	success(c, http.StatusOK, gin.H{"data": m})
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id", "message")
	if !valid {
		return
	}
	m, err := h.service.MarkRead(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err, "mark message as read")
		return
	}
	success(c, http.StatusOK, gin.H{"data": m})
}

func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id", "message")
	if !valid {
		return
	}
	if err := h.service.DeleteMessage(c.Request.Context(), actor, id); err != nil {
		respondError(c, err, "delete message")
		return
	}
	success(c, http.StatusOK, gin.H{"message": "Message deleted successfully"})
}

// RegisterMessageRoutes registers inbox routes. Creating is public, reading is open but
// only admins see data, and every mutation requires inboxMW.
func (h *MessageHandler) RegisterMessageRoutes(rg *gin.RouterGroup, authMW, optionalAuthMW, inboxMW gin.HandlerFunc) {
	messages := rg.Group("/messages")
	{
		messages.POST("", h.CreateMessage)
		messages.GET("", optionalAuthMW, h.ListMessages)
		messages.GET("/:id", optionalAuthMW, h.GetMessage)
		messages.PUT("/:id", authMW, inboxMW, h.UpdateMessage)
		messages.DELETE("/:id", authMW, inboxMW, h.DeleteMessage)
		messages.PUT("/:id/mark_read", authMW, inboxMW, h.MarkRead)
	}
}
