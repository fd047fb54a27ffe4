package v1

import (
	"errors"
	"net/http"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/auth"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/conversations"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Messages shared by several handlers
const (
	msgNoData          = "No data provided"
	msgValidationError = "Validation error"
	msgInternalError   = "Internal server error"
	msgBodyTooLarge    = "Request body too large"
)

var notFoundErrors = []error{
	users.ErrUserNotFound,
	conversations.ErrNotFound,
	finetune.ErrTaskNotFound,
	finetune.ErrFileNotFound,
	modelreg.ErrNoActiveModel,
}

var badRequestErrors = []error{
	users.ErrUsernameTaken,
	users.ErrEmailTaken,
	users.ErrTokenNotFound,
	auth.ErrIncorrectPassword,
	auth.ErrSamePassword,
	auth.ErrTokenExpired,
	auth.ErrAlreadyActive,
	auth.ErrAccountDisabled,
	conversations.ErrInvalidRole,
	finetune.ErrOutputExists,
	finetune.ErrNotCSV,
	finetune.ErrMissingColumns,
	finetune.ErrInvalidSpec,
	modelreg.ErrTaskNotFound,
	modelreg.ErrTaskNotCompleted,
	modelreg.ErrAdapterMissing,
	modelreg.ErrConfigNotFound,
	modelreg.ErrNotLoaded,
	modelreg.ErrModelActive,
	modelreg.ErrModelNotActive,
	modelreg.ErrNoChatModel,
}

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	var validationErr *users.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, finetune.ErrShuttingDown):
		return http.StatusServiceUnavailable
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// clientMessage is the text shown to clients for err
func clientMessage(err error) string {
	var validationErr *users.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	return err.Error()
}

// respondError writes err with the given status. Unexpected errors are logged and masked.
func respondError(ctx *gin.Context, log logger.Logger, status int, err error) {
	message := clientMessage(err)
	if status == http.StatusInternalServerError {
		log.Error(ctx.Request.Method, " ", ctx.FullPath(), " failed: ", err)
		message = msgInternalError
	}
	ctx.JSON(status, ErrorResponse{Success: false, Message: message})
}

// respondServiceError writes err with its mapped status
func respondServiceError(ctx *gin.Context, log logger.Logger, err error) {
	respondError(ctx, log, statusFor(err), err)
}

// bindJSON decodes and validates the body into request. It writes the 400 response and
// returns false when the body is missing, malformed or invalid.
func bindJSON(ctx *gin.Context, request interface{}) bool {
	if ctx.Request.Body == nil || ctx.Request.ContentLength == 0 {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: msgNoData})
		return false
	}
	if err := ctx.ShouldBindJSON(request); err != nil {
		respondBindError(ctx, err)
		return false
	}
	if problems := validateRequest(request); problems != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: msgValidationError, Errors: problems})
		return false
	}
	return true
}

// statusOr maps err like statusFor but uses fallback for unmapped client-side failures.
// Unknown errors still map to 500.
func statusOr(err error, fallback int) int {
	status := statusFor(err)
	if status == http.StatusNotFound || status == http.StatusUnauthorized {
		return fallback
	}
	return status
}

// respondBindError writes 413 when the body limit cut the read short, otherwise 400
func respondBindError(ctx *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		ctx.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Success: false, Message: msgBodyTooLarge})
		return
	}
	ctx.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: msgNoData, Errors: []string{err.Error()}})
}
