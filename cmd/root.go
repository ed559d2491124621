package cmd

import (
	"fmt"
	"os"

	"github.com/axellelanca/urlshortener-frontend/internal/config"
	"github.com/spf13/cobra"
)

// Cfg is the global variable that will contain the loaded configuration
// It will be accessible to all Cobra commands throughout the application
var Cfg *config.Config

// RootCmd is the base command for the CLI application
// All other commands (shorten, stats, history, migrate, run-server) are added as subcommands
var RootCmd = &cobra.Command{
	Use:   "urlshortener-frontend",
	Short: "Client for the URL shortener service",
	Long: `Client for the URL shortener service: shorten up to five URLs in one batch,
browse click statistics, and serve the same features as web pages.`,
}

// Execute is the main entry point for the Cobra application
// It is called from 'main.go' and handles command execution and error handling
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Configuration is loaded before any command executes
	cobra.OnInitialize(initConfig)

	// Subcommands register themselves via their own init() functions
	// to keep this package free of import cycles.
}

// initConfig loads the application configuration into Cfg
func initConfig() {
	var err error

	// Load configuration from file, environment variables, and defaults
	Cfg, err = config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: problem loading configuration: %v\n", err)
		os.Exit(1)
	}
}
