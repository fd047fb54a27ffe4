package v1

import (
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/auth"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/conversations"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Services groups the application services served by the v1 API
type Services struct {
	AuthService         auth.AuthService
	AdminService        users.AdminService
	ConversationService conversations.ConversationService
	FinetuneService     finetune.FinetuneService
	ModelRegistry       modelreg.ModelRegistry
}

// SetupRoutes sets up all the API routes for version 1.
// maxBodyBytes caps the body of every /api request.
func SetupRoutes(r *gin.Engine, services Services, maxBodyBytes int64, logger logger.Logger) {
	r.GET("/health", Health)

	api := r.Group(BasePath) // lookup in version file
	api.Use(RequestLogger(logger), BodyLimit(maxBodyBytes))

	// Auth Routes
	authHandler := NewAuthHandler(services.AuthService, logger)
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/forgot-password", authHandler.ForgotPassword)
	authGroup.POST("/reset-password", authHandler.ResetPassword)
	authGroup.POST("/resend-activation", authHandler.ResendActivation)
	authGroup.POST("/activate-account", authHandler.ActivateAccount)

	authenticated := authGroup.Group("", AuthRequired(services.AuthService))
	authenticated.POST("/change-password", authHandler.ChangePassword)
	authenticated.GET("/me", authHandler.Me)

	// Admin Routes
	adminHandler := NewAdminHandler(services.AdminService, logger)
	adminGroup := api.Group("/admin/users", AuthRequired(services.AuthService), AdminRequired())
	adminGroup.GET("", adminHandler.ListUsers)
	adminGroup.POST("", adminHandler.CreateUser)
	adminGroup.GET("/:id", adminHandler.GetUser)
	adminGroup.PUT("/:id", adminHandler.UpdateUser)
	adminGroup.DELETE("/:id", adminHandler.DeleteUser)
	adminGroup.POST("/:id/activate", adminHandler.ActivateUser)
	adminGroup.POST("/:id/deactivate", adminHandler.DeactivateUser)

	// Conversation Routes
	conversationHandler := NewConversationHandler(services.ConversationService, logger)
	api.POST("/conversations", conversationHandler.Create)
	api.GET("/conversations", conversationHandler.List)
	api.GET("/conversations/:id", conversationHandler.GetByID)
	api.DELETE("/conversations/:id", conversationHandler.DeleteByID)
	api.POST("/conversations/:id/messages", conversationHandler.AddMessage)
	api.GET("/conversations/:id/messages", conversationHandler.GetMessages)
	api.POST("/conversations/:id/clear", conversationHandler.Clear)
	api.PUT("/conversations/:id/system-message", conversationHandler.SetSystemMessage)

	// Fine-tuning Routes
	finetuneHandler := NewFinetuneHandler(services.FinetuneService, logger)
	api.POST("/finetune", finetuneHandler.Start)
	api.GET("/finetune/status/:process_id", finetuneHandler.GetStatus)
	api.GET("/finetune/tasks", finetuneHandler.ListTasks)
	api.GET("/finetune/models", finetuneHandler.ListModels)
	api.POST("/check-csv-file", finetuneHandler.CheckCSVFile)
	api.POST("/auto-finetune", finetuneHandler.AutoFinetune)

	// Model Routes
	modelHandler := NewModelHandler(services.ModelRegistry, logger)
	api.POST("/models/load", modelHandler.Load)
	api.POST("/models/unload", modelHandler.Unload)
	api.POST("/models/update-active", modelHandler.UpdateActive)
	api.GET("/models/loaded", modelHandler.ListLoaded)
	api.GET("/models/active", modelHandler.GetActive)
	api.POST("/choose-model", modelHandler.Choose)
	api.POST("/chat", modelHandler.Chat)
	api.POST("/stream-chat", modelHandler.StreamChat)
}
