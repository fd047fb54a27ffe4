package commands

import (
	"fmt"

	"github.com/CaoThanhNammm/chatbot-bank/internal/app"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/persistence"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/security"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// AdminCommandHandler manages accounts directly against the database.
type AdminCommandHandler struct {
	logger logger.Logger
}

// NewAdminCommandHandler initializes a new AdminCommandHandler with logging.
func NewAdminCommandHandler() (*AdminCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &AdminCommandHandler{
		logger: loggerInstance,
	}, nil
}

// CreateCmd stores an active administrator account
func (commandHandler *AdminCommandHandler) CreateCmd(cmd *cobra.Command, _ []string) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		commandHandler.logger.Error("invalid config flag: ", err)
		return
	}
	input := &users.CreateUserInput{Role: users.RoleAdmin}
	if input.Email, err = cmd.Flags().GetString("email"); err != nil {
		commandHandler.logger.Error("invalid email flag: ", err)
		return
	}
	if input.Password, err = cmd.Flags().GetString("password"); err != nil {
		commandHandler.logger.Error("invalid password flag: ", err)
		return
	}
	if input.Name, err = cmd.Flags().GetString("name"); err != nil {
		commandHandler.logger.Error("invalid name flag: ", err)
		return
	}

	adminService, err := commandHandler.adminService(configPath)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	user, err := adminService.Create(cmd.Context(), input)
	if err != nil {
		commandHandler.logger.Error("Failed to create admin: ", err)
		return
	}

	commandHandler.logger.Info("Created admin ", user.Username, " (", user.ID, ")")
}

func (commandHandler *AdminCommandHandler) adminService(configPath string) (users.AdminService, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}
	if err := persistence.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	userRepo, err := persistence.NewGormUserRepository(db, commandHandler.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}
	hasher, err := security.NewBcryptHasher(bcrypt.DefaultCost, commandHandler.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}

	return app.NewAdminService(userRepo, hasher, commandHandler.logger)
}

// InitAdminCommands registers the admin command group
func InitAdminCommands(rootCmd *cobra.Command) error {
	handler, err := NewAdminCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create admin command handler %w", err)
	}

	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}

	var createCmd = &cobra.Command{
		Use:   "create",
		Short: "Create an active administrator account",
		Run:   handler.CreateCmd,
	}
	createCmd.Flags().StringP("config", "", defaultConfigPath, "Path to the REST API YAML configuration")
	createCmd.Flags().StringP("email", "", "", "Administrator email")
	createCmd.Flags().StringP("password", "", "", "Administrator password")
	createCmd.Flags().StringP("name", "", "", "Administrator display name")
	adminCmd.AddCommand(createCmd)

	rootCmd.AddCommand(adminCmd)
	return nil
}
