package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/subtitle"
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate an SRT subtitle file",
	Long: `Parses an SRT file, translates the text of every entry in one batch while
leaving indices and timecodes untouched, and writes the rebuilt file.`,
	RunE: runTranslate,
}

var (
	translateInput    string
	translateOutput   string
	translateLanguage string
	translateNotes    string
	translateAPIKey   string
)

func init() {
	translateCmd.Flags().StringVarP(&translateInput, "input", "i", "", "Path to the source .srt file (required)")
	translateCmd.Flags().StringVarP(&translateOutput, "output", "o", "", "Path for the translated .srt file (required)")
	translateCmd.Flags().StringVarP(&translateLanguage, "language", "l", "", "Target language, e.g. \"German\" (required)")
	translateCmd.Flags().StringVar(&translateNotes, "notes", "", "Extra instructions for the translator, e.g. tone or terminology")
	translateCmd.Flags().StringVar(&translateAPIKey, "api-key", "", "Gemini API key(s), newline-delimited (optional, defaults to GEMINI_API_KEY env var)")

	_ = translateCmd.MarkFlagRequired("input")
	_ = translateCmd.MarkFlagRequired("output")
	_ = translateCmd.MarkFlagRequired("language")

	rootCmd.AddCommand(translateCmd)
}

func runTranslate(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(translateInput)
	if err != nil {
		return fmt.Errorf("failed to read subtitle file: %w", err)
	}

	items, err := subtitle.Parse(string(data))
	if err != nil {
		return err
	}

	fb, err := buildFallback(translateAPIKey, llm.TranslateModels())
	if err != nil {
		return err
	}

	fmt.Printf("Translating %d entries to %s...\n", len(items), translateLanguage)
	translated, err := subtitle.TranslateBatch(context.Background(), fb, items, translateLanguage, translateNotes)
	if err != nil {
		return err
	}

	if err := os.WriteFile(translateOutput, []byte(subtitle.Format(translated)), 0o644); err != nil {
		return fmt.Errorf("failed to write translated file: %w", err)
	}
	fmt.Printf("Wrote %s\n", translateOutput)
	return nil
}
