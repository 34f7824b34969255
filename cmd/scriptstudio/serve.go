package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/scriptstudio/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for credentials, styles, subtitle translation, and streaming pipeline runs.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	sealingKey := os.Getenv("KEYSTORE_SEALING_KEY")
	if sealingKey == "" {
		return fmt.Errorf("KEYSTORE_SEALING_KEY environment variable is required")
	}

	cfg := server.Config{
		Port:        servePort,
		DatabaseURL: databaseURL,
		SealingKey:  sealingKey,
		APIKey:      os.Getenv("GEMINI_API_KEY"),
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
