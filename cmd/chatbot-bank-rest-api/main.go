// cmd/chatbot-bank-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/CaoThanhNammm/chatbot-bank/internal/api/rest/v1"
	"github.com/CaoThanhNammm/chatbot-bank/internal/app"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/auth"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/conversations"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/dataset"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/inference"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/mailer"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/metrics"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/persistence"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/security"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/training"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/config"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// trainerStopGrace is how long a cancelled training process gets before it is killed
const trainerStopGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../../configs/rest-app.yaml"
	}

	restConfig, err := config.InitializeRestConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := initializeDependencies(restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(restConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	services *appServices
	metrics  *metrics.Metrics
}

// repositories holds the GORM-backed stores
type repositories struct {
	users            users.UserRepository
	resetTokens      users.PasswordResetTokenRepository
	activationTokens users.ActivationTokenRepository
	conversations    conversations.ConversationRepository
	tasks            finetune.TaskRepository
	modelConfigs     modelreg.ModelConfigRepository
}

// appServices holds the application services exposed over HTTP
type appServices struct {
	auth          auth.AuthService
	admin         users.AdminService
	conversations conversations.ConversationService
	finetune      finetune.FinetuneService
	modelRegistry modelreg.ModelRegistry
}

func (s *appServices) routes() v1.Services {
	return v1.Services{
		AuthService:         s.auth,
		AdminService:        s.admin,
		ConversationService: s.conversations,
		FinetuneService:     s.finetune,
		ModelRegistry:       s.modelRegistry,
	}
}

// initializeDependencies sets up all application components
func initializeDependencies(cfg *config.RestConfig, log logger.Logger) (*appDependencies, error) {
	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	// Run migrations
	if err := persistence.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("Database migrations completed successfully")

	repos, err := initializeRepositories(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	m := metrics.New()

	services, err := initializeApplicationServices(cfg, repos, m, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// In-memory model state does not survive a restart
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := services.modelRegistry.Reconcile(ctx); err != nil {
		return nil, fmt.Errorf("failed to reconcile model configs: %w", err)
	}

	if err := m.RegisterGaugeFunc("models_active", "Models currently serving chat.", func() float64 {
		active, err := services.modelRegistry.ActiveModels(context.Background())
		if err != nil {
			return 0
		}
		return float64(len(active))
	}); err != nil {
		return nil, fmt.Errorf("failed to register model gauge: %w", err)
	}

	return &appDependencies{
		services: services,
		metrics:  m,
	}, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	// Setup router
	r := gin.Default()

	// Configure CORS
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	r.Use(deps.metrics.GinMiddleware())

	// Setup API routes
	v1.SetupRoutes(r, deps.services.routes(), cfg.Upload.MaxContentLength, log)

	r.GET("/metrics", gin.WrapH(deps.metrics.Handler()))

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal ", sig, ", initiating graceful shutdown")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Stopping fine-tuning jobs...")
	if err := deps.services.finetune.Shutdown(ctx); err != nil {
		return fmt.Errorf("fine-tuning jobs did not stop: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// corsConfig allows the configured frontend origins. A "*" entry allows any origin.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			c.AllowOriginFunc = func(string) bool { return true }
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}

// initializeApplicationServices sets up all application services
func initializeApplicationServices(cfg *config.RestConfig, repos *repositories, m *metrics.Metrics, log logger.Logger) (*appServices, error) {
	hasher, err := security.NewBcryptHasher(bcrypt.DefaultCost, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}

	issuer, err := security.NewJWTIssuer(&cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	sender, err := mailer.NewSMTPSender(&cfg.Mail, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create email sender: %w", err)
	}

	authService, err := app.NewAuthService(
		repos.users, repos.resetTokens, repos.activationTokens,
		hasher, issuer, security.NewSecretGenerator(), sender,
		cfg.FrontendURL, log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	adminService, err := app.NewAdminService(repos.users, hasher, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin service: %w", err)
	}

	conversationService, err := app.NewConversationService(repos.conversations, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation service: %w", err)
	}

	preparer, err := dataset.NewPreparer(cfg.Training.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset preparer: %w", err)
	}

	trainer, err := training.NewCLITrainer(cfg.Training.CLIPath, trainerStopGrace, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create trainer: %w", err)
	}

	scanner, err := training.NewAdapterScanner(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create adapter scanner: %w", err)
	}

	finetuneService, err := app.NewFinetuneService(
		repos.tasks, preparer, m.InstrumentTrainer(trainer), scanner,
		app.FinetuneOptions{
			OutputRoot:        cfg.Training.OutputDir,
			UploadFolder:      cfg.Upload.Folder,
			MaxConcurrentJobs: cfg.Training.MaxConcurrentJobs,
		},
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fine-tune service: %w", err)
	}

	chatFactory, err := inference.NewChatModelFactory(&cfg.Inference, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model factory: %w", err)
	}

	modelRegistry, err := app.NewModelRegistry(
		repos.modelConfigs, repos.tasks, m.InstrumentChatModelFactory(chatFactory),
		cfg.Training.OutputDir, log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create model registry: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appServices{
		auth:          authService,
		admin:         adminService,
		conversations: conversationService,
		finetune:      finetuneService,
		modelRegistry: modelRegistry,
	}, nil
}

// initializeRepositories creates the repositories
func initializeRepositories(db *gorm.DB, log logger.Logger) (*repositories, error) {
	userRepo, err := persistence.NewGormUserRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	resetRepo, err := persistence.NewGormPasswordResetTokenRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create password reset token repository: %w", err)
	}

	activationRepo, err := persistence.NewGormActivationTokenRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create activation token repository: %w", err)
	}

	conversationRepo, err := persistence.NewGormConversationRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation repository: %w", err)
	}

	taskRepo, err := persistence.NewGormFinetuneTaskRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create fine-tune task repository: %w", err)
	}

	modelConfigRepo, err := persistence.NewGormModelConfigRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create model config repository: %w", err)
	}

	return &repositories{
		users:            userRepo,
		resetTokens:      resetRepo,
		activationTokens: activationRepo,
		conversations:    conversationRepo,
		tasks:            taskRepo,
		modelConfigs:     modelConfigRepo,
	}, nil
}
