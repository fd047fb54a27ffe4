package v1

import (
	"context"
	"net/http"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AdminHandler defines the interface for handling account administration
type AdminHandler interface {
	ListUsers(ctx *gin.Context)
	CreateUser(ctx *gin.Context)
	GetUser(ctx *gin.Context)
	UpdateUser(ctx *gin.Context)
	DeleteUser(ctx *gin.Context)
	ActivateUser(ctx *gin.Context)
	DeactivateUser(ctx *gin.Context)
}

type adminHandler struct {
	adminService users.AdminService
	logger       logger.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService users.AdminService, logger logger.Logger) AdminHandler {
	return &adminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// ListUsers handles GET /admin/users
func (handler *adminHandler) ListUsers(ctx *gin.Context) {
	list, err := handler.adminService.List(ctx)
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	data := make([]AdminUserResponse, 0, len(list))
	for _, user := range list {
		data = append(data, NewAdminUserResponse(user))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"total":   len(data),
	})
}

// CreateUser handles POST /admin/users
func (handler *adminHandler) CreateUser(ctx *gin.Context) {
	var request CreateUserRequest
	if !bindJSON(ctx, &request) {
		return
	}

	user, err := handler.adminService.Create(ctx, &users.CreateUserInput{
		Name:     request.Name,
		Email:    request.Email,
		Password: request.Password,
		Role:     request.Role,
	})
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"data":    NewAdminUserResponse(user),
	})
}

// GetUser handles GET /admin/users/:id
func (handler *adminHandler) GetUser(ctx *gin.Context) {
	user, err := handler.adminService.GetByID(ctx, ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    NewAdminUserResponse(user),
	})
}

// UpdateUser handles PUT /admin/users/:id
func (handler *adminHandler) UpdateUser(ctx *gin.Context) {
	var request UpdateUserRequest
	if !bindJSON(ctx, &request) {
		return
	}

	user, err := handler.adminService.Update(ctx, ctx.Param("id"), &users.UpdateUserInput{
		Name:  request.Name,
		Email: request.Email,
		Role:  request.Role,
	})
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"data":    NewAdminUserResponse(user),
	})
}

// DeleteUser handles DELETE /admin/users/:id
func (handler *adminHandler) DeleteUser(ctx *gin.Context) {
	if err := handler.adminService.Delete(ctx, ctx.Param("id")); err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, MessageResponse{Success: true, Message: "User deleted successfully"})
}

// ActivateUser handles POST /admin/users/:id/activate
func (handler *adminHandler) ActivateUser(ctx *gin.Context) {
	handler.setStatus(ctx, handler.adminService.Activate, "User activated successfully")
}

// DeactivateUser handles POST /admin/users/:id/deactivate
func (handler *adminHandler) DeactivateUser(ctx *gin.Context) {
	handler.setStatus(ctx, handler.adminService.Deactivate, "User deactivated successfully")
}

func (handler *adminHandler) setStatus(ctx *gin.Context, apply func(context.Context, string) (*users.User, error), message string) {
	user, err := apply(ctx, ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    NewAdminUserResponse(user),
	})
}
