// Package main provides the entry point for the Script Studio CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scriptstudio",
	Short: "Script Studio video production toolkit",
	Long:  "Script Studio turns long-form scripts into storyboards, shot lists, image and video prompts, translated subtitles, and thumbnail layouts using staged Gemini calls.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
