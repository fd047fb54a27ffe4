package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Supported database types
const (
	PostgresDbType = "postgres"
	SqliteDbType   = "sqlite"
	MysqlDbType    = "mysql"
)

// DatabaseSettings holds the connection settings for the relational store.
// Name is optional for postgres and mysql; when set the database is created if missing.
type DatabaseSettings struct {
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite mysql"`
	DSN  string `mapstructure:"dsn"`
	Name string `mapstructure:"name" validate:"omitempty,max=63"`
}

// Validate checks that DatabaseSettings are usable for the selected type
func (s *DatabaseSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DatabaseSettings: %w", err)
	}

	if s.Type != SqliteDbType && s.DSN == "" {
		return fmt.Errorf("dsn is required for database type %s", s.Type)
	}

	return nil
}
