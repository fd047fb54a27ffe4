package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// RestConfig is the root configuration of the REST API
type RestConfig struct {
	Port        string            `mapstructure:"port" validate:"required,numeric"`
	FrontendURL string            `mapstructure:"frontend_url" validate:"required,url"`
	CORSOrigins []string          `mapstructure:"cors_origins" validate:"min=1"`
	Logger      LoggerSettings    `mapstructure:"logger"`
	Database    DatabaseSettings  `mapstructure:"database"`
	JWT         JWTSettings       `mapstructure:"jwt"`
	Mail        MailSettings      `mapstructure:"mail"`
	Inference   InferenceSettings `mapstructure:"inference"`
	Training    TrainingSettings  `mapstructure:"training"`
	Upload      UploadSettings    `mapstructure:"upload"`
}

// Validate checks the struct tags of the whole tree, then the cross-field rules of each settings block
func (c *RestConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation failed for RestConfig: %w", err)
	}

	validators := []interface{ Validate() error }{
		&c.Logger, &c.Database, &c.JWT, &c.Mail, &c.Inference, &c.Training, &c.Upload,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func setRestDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("frontend_url", "http://localhost:3000")
	v.SetDefault("cors_origins", []string{"*"})

	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	v.SetDefault("logger.file_path", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", true)

	v.SetDefault("database.type", SqliteDbType)
	v.SetDefault("database.dsn", "chatbot-bank.db")
	v.SetDefault("database.name", "")

	v.SetDefault("jwt.secret_key", "dev-jwt-key")
	v.SetDefault("jwt.expiration_hours", 24)

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.use_tls", true)
	v.SetDefault("mail.use_ssl", false)

	v.SetDefault("inference.base_url", "http://localhost:8000/v1")
	v.SetDefault("inference.api_key", "EMPTY")
	v.SetDefault("inference.timeout_seconds", 300)
	v.SetDefault("inference.encoding", "cl100k_base")

	v.SetDefault("training.output_dir", "output")
	v.SetDefault("training.data_dir", "data")
	v.SetDefault("training.cli_path", "llamafactory-cli")
	v.SetDefault("training.max_concurrent_jobs", 1)

	v.SetDefault("upload.folder", "uploads")
	v.SetDefault("upload.max_content_length", 16*1024*1024)
}

// InitializeRestConfig reads the YAML file at configPath, applies environment
// overrides (e.g. JWT_SECRET_KEY, DATABASE_DSN, FRONTEND_URL) and validates the result.
// An empty configPath loads defaults and environment only.
func InitializeRestConfig(configPath string) (*RestConfig, error) {
	v := viper.New()
	setRestDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	var cfg RestConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
