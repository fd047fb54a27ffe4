package v1

import (
	"net/http"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/conversations"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ConversationHandler defines the interface for handling conversations and their messages
type ConversationHandler interface {
	Create(ctx *gin.Context)
	GetByID(ctx *gin.Context)
	List(ctx *gin.Context)
	AddMessage(ctx *gin.Context)
	GetMessages(ctx *gin.Context)
	Clear(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
	SetSystemMessage(ctx *gin.Context)
}

type conversationHandler struct {
	conversationService conversations.ConversationService
	logger              logger.Logger
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(conversationService conversations.ConversationService, logger logger.Logger) ConversationHandler {
	return &conversationHandler{
		conversationService: conversationService,
		logger:              logger,
	}
}

// Create handles POST /conversations. The body is optional.
func (handler *conversationHandler) Create(ctx *gin.Context) {
	var request CreateConversationRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			respondBindError(ctx, err)
			return
		}
		if problems := validateRequest(&request); problems != nil {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: msgValidationError, Errors: problems})
			return
		}
	}

	conversation, err := handler.conversationService.Create(ctx, request.Title, request.UserID)
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"message":         "Conversation created successfully",
		"conversation_id": conversation.ID,
	})
}

// GetByID handles GET /conversations/:id
func (handler *conversationHandler) GetByID(ctx *gin.Context) {
	conversation, err := handler.conversationService.GetByID(ctx, ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Conversation found",
		"conversation": NewConversationResponse(conversation),
	})
}

// List handles GET /conversations?user_id=
func (handler *conversationHandler) List(ctx *gin.Context) {
	list, err := handler.conversationService.List(ctx, ctx.Query("user_id"))
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	response := make([]ConversationResponse, 0, len(list))
	for _, conversation := range list {
		response = append(response, NewConversationResponse(conversation))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":       true,
		"conversations": response,
	})
}

// AddMessage handles POST /conversations/:id/messages
func (handler *conversationHandler) AddMessage(ctx *gin.Context) {
	var request AddMessageRequest
	if !bindJSON(ctx, &request) {
		return
	}

	if _, err := handler.conversationService.AddMessage(ctx, ctx.Param("id"), request.Role, request.Content); err != nil {
		respondError(ctx, handler.logger, statusOr(err, http.StatusBadRequest), err)
		return
	}

	ctx.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Message added successfully"})
}

// GetMessages handles GET /conversations/:id/messages
func (handler *conversationHandler) GetMessages(ctx *gin.Context) {
	turns, err := handler.conversationService.GetMessages(ctx, ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Messages retrieved successfully",
		"messages": turns,
	})
}

// Clear handles POST /conversations/:id/clear
func (handler *conversationHandler) Clear(ctx *gin.Context) {
	if err := handler.conversationService.Clear(ctx, ctx.Param("id")); err != nil {
		respondError(ctx, handler.logger, statusOr(err, http.StatusBadRequest), err)
		return
	}

	ctx.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Conversation cleared successfully"})
}

// DeleteByID handles DELETE /conversations/:id
func (handler *conversationHandler) DeleteByID(ctx *gin.Context) {
	if err := handler.conversationService.DeleteByID(ctx, ctx.Param("id")); err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Conversation deleted successfully"})
}

// SetSystemMessage handles PUT /conversations/:id/system-message. Empty content clears it.
func (handler *conversationHandler) SetSystemMessage(ctx *gin.Context) {
	var request SystemMessageRequest
	if !bindJSON(ctx, &request) {
		return
	}

	if err := handler.conversationService.SetSystemMessage(ctx, ctx.Param("id"), request.Content); err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, MessageResponse{Success: true, Message: "System message set successfully"})
}
