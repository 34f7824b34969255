package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/stages"
)

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail",
	Short: "Design a thumbnail layout for a video title",
	Long: `Splits the title into display lines and generates a matching background
image prompt. With --offline the lines are wrapped locally without a model call.`,
	RunE: runThumbnail,
}

var (
	thumbnailTitle   string
	thumbnailStyle   string
	thumbnailOutput  string
	thumbnailOffline bool
	thumbnailPerLine int
	thumbnailAPIKey  string
)

func init() {
	thumbnailCmd.Flags().StringVarP(&thumbnailTitle, "title", "t", "", "Video title (required)")
	thumbnailCmd.Flags().StringVar(&thumbnailStyle, "style", "", "Visual style preset")
	thumbnailCmd.Flags().StringVarP(&thumbnailOutput, "output", "o", "", "Path for the layout JSON (default: print to stdout)")
	thumbnailCmd.Flags().BoolVar(&thumbnailOffline, "offline", false, "Wrap the title locally without a model call")
	thumbnailCmd.Flags().IntVar(&thumbnailPerLine, "per-line", 16, "Max characters per line in offline mode")
	thumbnailCmd.Flags().StringVar(&thumbnailAPIKey, "api-key", "", "Gemini API key(s), newline-delimited (optional, defaults to GEMINI_API_KEY env var)")

	_ = thumbnailCmd.MarkFlagRequired("title")

	rootCmd.AddCommand(thumbnailCmd)
}

func runThumbnail(_ *cobra.Command, _ []string) error {
	var layout *stages.ThumbnailLayout

	if thumbnailOffline {
		layout = &stages.ThumbnailLayout{
			Lines: stages.SplitTitleLines(thumbnailTitle, thumbnailPerLine),
		}
	} else {
		fb, err := buildFallback(thumbnailAPIKey, llm.ThumbnailModels())
		if err != nil {
			return err
		}
		layout, err = stages.GenerateThumbnailLayout(context.Background(), fb, thumbnailTitle, thumbnailStyle)
		if err != nil {
			return err
		}
	}

	if thumbnailOutput != "" {
		if err := writeJSONFile(thumbnailOutput, layout); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", thumbnailOutput)
		return nil
	}

	fmt.Println(strings.Join(layout.Lines, "\n"))
	if layout.BackgroundPrompt != "" {
		fmt.Printf("\nBackground: %s\n", layout.BackgroundPrompt)
	}
	return nil
}
