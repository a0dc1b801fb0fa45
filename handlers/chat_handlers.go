package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"visittrack/api/chat"
	"visittrack/api/metrics"
	"visittrack/api/models"
)

type ChatLogger interface {
	InsertChatLog(ctx context.Context, sessionID, role, message string) (int64, error)
}

type Completer interface {
	Configured() bool
	Complete(ctx context.Context, message string) (string, error)
}

type ChatHandlers struct {
	Logs      ChatLogger
	Completer Completer
	Metrics   *metrics.Metrics
}

func NewChatHandlers(logs ChatLogger, completer Completer, m *metrics.Metrics) *ChatHandlers {
	return &ChatHandlers{Logs: logs, Completer: completer, Metrics: m}
}

func (h *ChatHandlers) logMessage(ctx context.Context, sessionID, role, message string) {
	if _, err := h.Logs.InsertChatLog(ctx, sessionID, role, message); err != nil {
		logrus.WithError(err).WithField("role", role).Error("Chat log error")
	}
}

// Chat relays one visitor question to the completion API.
func (h *ChatHandlers) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		h.Metrics.ChatRequests.WithLabelValues(metrics.OutcomeInvalid).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	ctx := c.Request.Context()
	h.logMessage(ctx, req.SessionID, models.RoleUser, req.Message)

	if !h.Completer.Configured() {
		h.Metrics.ChatRequests.WithLabelValues(metrics.OutcomeFallback).Inc()
		c.JSON(http.StatusOK, models.ChatResponse{Response: chat.FallbackResponse})
		return
	}

	reply, err := h.Completer.Complete(ctx, req.Message)
	if err != nil {
		logrus.WithError(err).WithField("session_id", req.SessionID).Error("Chat API error")
		h.Metrics.ChatRequests.WithLabelValues(metrics.OutcomeError).Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chatbot error"})
		return
	}

	h.logMessage(ctx, req.SessionID, models.RoleAssistant, reply)
	h.Metrics.ChatRequests.WithLabelValues(metrics.OutcomeOK).Inc()
	c.JSON(http.StatusOK, models.ChatResponse{Response: reply})
}
