package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/scriptstudio/internal/chunker"
	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/observability"
	"github.com/daniel/scriptstudio/internal/stages"
)

var shotsCmd = &cobra.Command{
	Use:   "shots",
	Short: "Break a script into a per-shot action list",
	Long: `Chunks the script and analyzes each segment into shot entries: an action
summary, the spoken line, a video motion prompt, and an image prompt.`,
	RunE: runShots,
}

var (
	shotsInput   string
	shotsOutput  string
	shotsStyle   string
	shotsCount   bool
	shotsAPIKey  string
	shotsVerbose bool
)

func init() {
	shotsCmd.Flags().StringVarP(&shotsInput, "input", "i", "", "Path to the script text file (required)")
	shotsCmd.Flags().StringVarP(&shotsOutput, "output", "o", "", "Path for the shot list JSON (required)")
	shotsCmd.Flags().StringVar(&shotsStyle, "style", "", "Visual style preset")
	shotsCmd.Flags().BoolVar(&shotsCount, "count-only", false, "Only count actions per segment, without full analysis")
	shotsCmd.Flags().StringVar(&shotsAPIKey, "api-key", "", "Gemini API key(s), newline-delimited (optional, defaults to GEMINI_API_KEY env var)")
	shotsCmd.Flags().BoolVarP(&shotsVerbose, "verbose", "v", false, "Print the shot list as it is built")

	_ = shotsCmd.MarkFlagRequired("input")
	_ = shotsCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(shotsCmd)
}

func runShots(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	data, err := os.ReadFile(shotsInput)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	fb, err := buildFallback(shotsAPIKey, llm.ZenShotModels())
	if err != nil {
		return err
	}

	segments := chunker.Split(string(data))
	fmt.Printf("Analyzing %d segments...\n", len(segments))

	if shotsCount {
		counts := make([]int, len(segments))
		total := 0
		for i, seg := range segments {
			n, err := stages.CountActions(ctx, fb, seg)
			if err != nil {
				return fmt.Errorf("segment %d: %w", i+1, err)
			}
			counts[i] = n
			total += n
			fmt.Printf("segment %d: %d actions\n", i+1, n)
		}
		fmt.Printf("Total: %d actions\n", total)
		return writeJSONFile(shotsOutput, map[string]any{"segments": counts, "total": total})
	}

	var characters []stages.CharacterProfile
	if shotsStyle != "" {
		fmt.Println("Designing character profiles...")
		characters, err = stages.DesignCharacters(ctx, fb, string(data), shotsStyle)
		if err != nil {
			return err
		}
	}

	printer := observability.NewPrinter(os.Stdout)
	var shots []stages.Shot
	for i, seg := range segments {
		fmt.Printf("segment %d/%d...\n", i+1, len(segments))
		segmentShots, err := stages.AnalyzeActions(ctx, fb, seg, shotsStyle, characters)
		if err != nil {
			return fmt.Errorf("segment %d: %w", i+1, err)
		}
		shots = append(shots, segmentShots...)
	}
	if shotsVerbose {
		printer.PrintShots(shots)
	}

	if err := writeJSONFile(shotsOutput, shots); err != nil {
		return err
	}
	fmt.Printf("Wrote %d shots to %s\n", len(shots), shotsOutput)
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
