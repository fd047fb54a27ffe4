package v1

import (
	"net/http"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/auth"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthHandler defines the interface for handling account self-service
type AuthHandler interface {
	Register(ctx *gin.Context)
	Login(ctx *gin.Context)
	ChangePassword(ctx *gin.Context)
	ForgotPassword(ctx *gin.Context)
	ResetPassword(ctx *gin.Context)
	ResendActivation(ctx *gin.Context)
	ActivateAccount(ctx *gin.Context)
	Me(ctx *gin.Context)
}

type authHandler struct {
	authService auth.AuthService
	logger      logger.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService auth.AuthService, logger logger.Logger) AuthHandler {
	return &authHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles POST /auth/register
func (handler *authHandler) Register(ctx *gin.Context) {
	var request auth.RegisterInput
	if !bindJSON(ctx, &request) {
		return
	}

	user, err := handler.authService.Register(ctx, &request)
	if err != nil {
		respondError(ctx, handler.logger, statusOr(err, http.StatusBadRequest), err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user":    NewUserResponse(user),
	})
}

// Login handles POST /auth/login
func (handler *authHandler) Login(ctx *gin.Context) {
	var request auth.LoginInput
	if !bindJSON(ctx, &request) {
		return
	}

	result, err := handler.authService.Login(ctx, &request)
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"data": LoginData{
			Token:     result.Token,
			User:      NewUserResponse(result.User),
			ExpiresAt: result.ExpiresAt,
		},
	})
}

// ChangePassword handles POST /auth/change-password
func (handler *authHandler) ChangePassword(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{Success: false, Message: "Token is missing"})
		return
	}

	var request auth.ChangePasswordInput
	if !bindJSON(ctx, &request) {
		return
	}

	if err := handler.authService.ChangePassword(ctx, user.ID, &request); err != nil {
		respondError(ctx, handler.logger, statusOr(err, http.StatusBadRequest), err)
		return
	}

	ctx.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Password changed successfully"})
}

// ForgotPassword handles POST /auth/forgot-password. Unknown addresses get the same answer.
func (handler *authHandler) ForgotPassword(ctx *gin.Context) {
	var request EmailRequest
	if !bindJSON(ctx, &request) {
		return
	}

	if err := handler.authService.ForgotPassword(ctx, request.Email); err != nil {
		handler.logger.Error("Forgot password failed: ", err)
	}

	ctx.JSON(http.StatusOK, MessageResponse{Success: true, Message: "If the email exists, a password reset link has been sent"})
}

// ResetPassword handles POST /auth/reset-password
func (handler *authHandler) ResetPassword(ctx *gin.Context) {
	var request auth.ResetPasswordInput
	if !bindJSON(ctx, &request) {
		return
	}

	if err := handler.authService.ResetPassword(ctx, &request); err != nil {
		respondError(ctx, handler.logger, statusOr(err, http.StatusBadRequest), err)
		return
	}

	ctx.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Password reset successfully"})
}

// ResendActivation handles POST /auth/resend-activation
func (handler *authHandler) ResendActivation(ctx *gin.Context) {
	var request EmailRequest
	if !bindJSON(ctx, &request) {
		return
	}

	if err := handler.authService.ResendActivation(ctx, request.Email); err != nil {
		respondError(ctx, handler.logger, statusOr(err, http.StatusBadRequest), err)
		return
	}

	ctx.JSON(http.StatusOK, MessageResponse{Success: true, Message: "If the account exists and is inactive, an activation link has been sent"})
}

// ActivateAccount handles POST /auth/activate-account
func (handler *authHandler) ActivateAccount(ctx *gin.Context) {
	var request TokenRequest
	if !bindJSON(ctx, &request) {
		return
	}

	user, err := handler.authService.ActivateAccount(ctx, request.Token)
	if err != nil {
		respondError(ctx, handler.logger, statusOr(err, http.StatusBadRequest), err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account activated successfully",
		"user":    NewUserResponse(user),
	})
}

// Me handles GET /auth/me
func (handler *authHandler) Me(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{Success: false, Message: "Token is missing"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    NewUserResponse(user),
	})
}
