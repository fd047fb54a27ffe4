package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// JWTSettings configures access token signing
type JWTSettings struct {
	SecretKey       string `mapstructure:"secret_key" validate:"required,min=8"`
	ExpirationHours int    `mapstructure:"expiration_hours" validate:"required,min=1,max=720"`
}

// MailSettings configures the outgoing SMTP relay.
// When Enabled is false emails are logged instead of sent.
type MailSettings struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"min=0,max=65535"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from" validate:"omitempty,email"`
	UseTLS   bool   `mapstructure:"use_tls"`
	UseSSL   bool   `mapstructure:"use_ssl"`
}

// InferenceSettings points at an OpenAI-compatible server that hosts the base model and its LoRA adapters
type InferenceSettings struct {
	BaseURL        string `mapstructure:"base_url" validate:"required,url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"min=0"`
	Encoding       string `mapstructure:"encoding"`
}

// TrainingSettings configures the fine-tuning runner
type TrainingSettings struct {
	OutputDir         string `mapstructure:"output_dir" validate:"required"`
	DataDir           string `mapstructure:"data_dir" validate:"required"`
	CLIPath           string `mapstructure:"cli_path" validate:"required"`
	MaxConcurrentJobs int64  `mapstructure:"max_concurrent_jobs" validate:"min=1,max=16"`
}

// UploadSettings configures dataset uploads and the request body limit
type UploadSettings struct {
	Folder           string `mapstructure:"folder" validate:"required"`
	MaxContentLength int64  `mapstructure:"max_content_length" validate:"min=1"`
}

func validateSettings(name string, s interface{}) error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for %s: %w", name, err)
	}
	return nil
}

// Validate checks JWTSettings
func (s *JWTSettings) Validate() error { return validateSettings("JWTSettings", s) }

// Validate checks MailSettings
func (s *MailSettings) Validate() error {
	if err := validateSettings("MailSettings", s); err != nil {
		return err
	}
	if s.UseTLS && s.UseSSL {
		return fmt.Errorf("use_tls and use_ssl are mutually exclusive")
	}
	if s.Enabled && (s.Host == "" || s.Port == 0 || s.From == "") {
		return fmt.Errorf("host, port and from are required when mail is enabled")
	}
	return nil
}

// Validate checks InferenceSettings
func (s *InferenceSettings) Validate() error { return validateSettings("InferenceSettings", s) }

// Validate checks TrainingSettings
func (s *TrainingSettings) Validate() error { return validateSettings("TrainingSettings", s) }

// Validate checks UploadSettings
func (s *UploadSettings) Validate() error { return validateSettings("UploadSettings", s) }
