package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

// Stream event types of stream-chat
const (
	streamEventStart = "start"
	streamEventChunk = "chunk"
	streamEventEnd   = "end"
	streamEventError = "error"
)

// ModelHandler defines the interface for handling model registry and chat requests
type ModelHandler interface {
	Load(ctx *gin.Context)
	Unload(ctx *gin.Context)
	UpdateActive(ctx *gin.Context)
	ListLoaded(ctx *gin.Context)
	GetActive(ctx *gin.Context)
	Choose(ctx *gin.Context)
	Chat(ctx *gin.Context)
	StreamChat(ctx *gin.Context)
}

type modelHandler struct {
	registry modelreg.ModelRegistry
	logger   logger.Logger
}

// NewModelHandler creates a new ModelHandler
func NewModelHandler(registry modelreg.ModelRegistry, logger logger.Logger) ModelHandler {
	return &modelHandler{
		registry: registry,
		logger:   logger,
	}
}

// Load handles POST /models/load
func (handler *modelHandler) Load(ctx *gin.Context) {
	var request LoadModelRequest
	if !bindJSON(ctx, &request) {
		return
	}

	message, err := handler.registry.Load(ctx, request.TaskID)
	handler.respondMessage(ctx, message, err)
}

// Unload handles POST /models/unload
func (handler *modelHandler) Unload(ctx *gin.Context) {
	var request ModelIDRequest
	if !bindJSON(ctx, &request) {
		return
	}

	message, err := handler.registry.Unload(ctx, request.ModelID)
	handler.respondMessage(ctx, message, err)
}

// UpdateActive handles POST /models/update-active
func (handler *modelHandler) UpdateActive(ctx *gin.Context) {
	var request UpdateActiveRequest
	if !bindJSON(ctx, &request) {
		return
	}

	message, err := handler.registry.SetActive(ctx, request.ModelID, *request.IsActive)
	handler.respondMessage(ctx, message, err)
}

func (handler *modelHandler) respondMessage(ctx *gin.Context, message string, err error) {
	if err != nil {
		respondError(ctx, handler.logger, statusOr(err, http.StatusBadRequest), err)
		return
	}
	ctx.JSON(http.StatusOK, MessageResponse{Success: true, Message: message})
}

// ListLoaded handles GET /models/loaded
func (handler *modelHandler) ListLoaded(ctx *gin.Context) {
	models, err := handler.registry.Loaded(ctx)
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}
	if models == nil {
		models = []*modelreg.ModelInfo{}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"models":  models,
	})
}

// GetActive handles GET /models/active
func (handler *modelHandler) GetActive(ctx *gin.Context) {
	model, err := handler.registry.Active(ctx)
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"model":   model,
	})
}

// Choose handles POST /choose-model
func (handler *modelHandler) Choose(ctx *gin.Context) {
	var request ModelIDRequest
	if !bindJSON(ctx, &request) {
		return
	}

	args, err := handler.registry.Choose(ctx, request.ModelID)
	if err != nil {
		respondError(ctx, handler.logger, statusOr(err, http.StatusBadRequest), err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Model configuration retrieved successfully",
		"model_args": args,
	})
}

// Chat handles POST /chat
func (handler *modelHandler) Chat(ctx *gin.Context) {
	var request ChatRequest
	if !bindJSON(ctx, &request) {
		return
	}

	response, err := handler.registry.Chat(ctx, request.Messages, request.System, request.ModelID)
	if err != nil {
		respondError(ctx, handler.logger, statusOr(err, http.StatusBadRequest), err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Response generated successfully",
		"response": response,
	})
}

// StreamChat handles POST /stream-chat. Once the start event is sent, failures are reported as error events.
func (handler *modelHandler) StreamChat(ctx *gin.Context) {
	var request StreamChatRequest
	if !bindJSON(ctx, &request) {
		return
	}

	if _, err := handler.registry.Choose(ctx, request.ModelID); err != nil {
		respondError(ctx, handler.logger, statusOr(err, http.StatusBadRequest), err)
		return
	}

	ctx.Header("X-Accel-Buffering", "no")
	handler.sendEvent(ctx, StreamEvent{Type: streamEventStart})

	var full strings.Builder
	messages := []modelreg.ChatMessage{{Role: "user", Content: request.Message}}
	_, err := handler.registry.StreamChat(ctx, request.ModelID, messages, func(_ context.Context, chunk string) error {
		full.WriteString(chunk)
		handler.sendEvent(ctx, StreamEvent{Type: streamEventChunk, Content: chunk})
		return ctx.Request.Context().Err()
	})
	if err != nil {
		handler.logger.Error("Stream chat with model ", request.ModelID, " failed: ", err)
		handler.sendEvent(ctx, StreamEvent{Type: streamEventError, Content: clientMessage(err)})
		return
	}

	handler.sendEvent(ctx, StreamEvent{Type: streamEventEnd, Content: full.String()})
}

func (handler *modelHandler) sendEvent(ctx *gin.Context, event StreamEvent) {
	ctx.Render(-1, sse.Event{Data: event})
	ctx.Writer.Flush()
}
