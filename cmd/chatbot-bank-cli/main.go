// Package main is the entry point for the chatbot-bank-cli application.
// It registers the dataset, fine-tuning and admin command groups, then executes
// the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	commands "github.com/CaoThanhNammm/chatbot-bank/cmd/chatbot-bank-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "chatbot-bank-cli",
		Short: "Dataset and fine-tuning tooling for the bank QA chatbot",
		Long: `chatbot-bank-cli prepares question/answer CSV files for supervised fine-tuning,
runs a fine-tuning job without the HTTP server and bootstraps administrator accounts.

Commands that touch the database or the trainer read the same YAML file as the
REST API (see --config), including its environment overrides.`,
	}

	// Initialize all command groups BEFORE executing
	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	if err := commands.InitDatasetCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize dataset commands: %w", err)
	}

	if err := commands.InitFinetuneCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize fine-tune commands: %w", err)
	}

	if err := commands.InitAdminCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize admin commands: %w", err)
	}

	return nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
