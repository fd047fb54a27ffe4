// Package persistence provides the GORM repositories for users, tokens, conversations,
// fine-tuning tasks and model configs on PostgreSQL, MySQL or SQLite.
package persistence
