package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"glamvoice/internal/app"
	"glamvoice/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question" binding:"required"`
	Model     string `json:"model"`
}

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
	Intent    string `json:"intent"`
	Mode      string `json:"mode"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.chatService.Chat(c.Request.Context(), app.ChatRequest{
		SessionID: req.SessionID,
		Question:  req.Question,
		Model:     req.Model,
	})
	if err != nil {
		log.Printf("[http] chat failed: %v", err)
		response.FromError(c, err, "chat failed")
		return
	}

	response.OK(c, ChatResponse{
		SessionID: result.SessionID,
		Response:  result.Answer,
		Intent:    string(result.Intent),
		Mode:      string(result.Mode),
	})
}
