package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/templepass/ai-service/internal/domain/chatbot"
	"github.com/templepass/ai-service/internal/domain/forecast"
	apperrors "github.com/templepass/ai-service/pkg/errors"
)

// ChatAvailability reports whether the FAQ index came up; exposed on /health
// so operators can tell degraded chat apart from a dead service.
type ChatAvailability bool

// Handler wires the HTTP transport to domain services.
type Handler struct {
	forecastSvc   forecast.Service
	chatSvc       chatbot.Service
	chatAvailable ChatAvailability
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(forecastSvc forecast.Service, chatSvc chatbot.Service, chatAvailable ChatAvailability, logger *slog.Logger) *Handler {
	return &Handler{
		forecastSvc:   forecastSvc,
		chatSvc:       chatSvc,
		chatAvailable: chatAvailable,
		logger:        logger.With("component", "http.handler"),
	}
}

// Health reports service liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"service":        "temple-ai",
		"chat_available": bool(h.chatAvailable),
	})
}

// Predict serves a crowd prediction for one temple and date.
func (h *Handler) Predict(c *gin.Context) {
	var req forecast.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.forecastSvc.Predict(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "prediction_failed"
		switch {
		case apperrors.IsCode(err, apperrors.CodeInvalidInput):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, apperrors.CodeUnknownCategory):
			status = http.StatusBadRequest
			code = "unknown_category"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Chat resolves a visitor question against the FAQ index.
func (h *Handler) Chat(c *gin.Context) {
	var req chatbot.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.chatSvc.Resolve(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "chat_failed"
		switch {
		case apperrors.IsCode(err, apperrors.CodeInvalidInput):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, apperrors.CodeEmbeddingError):
			status = http.StatusBadGateway
			code = "embedding_error"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// TrendingChat returns the most common visitor queries.
func (h *Handler) TrendingChat(c *gin.Context) {
	items, err := h.chatSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "chat_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": items})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
