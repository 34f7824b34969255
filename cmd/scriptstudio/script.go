package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/observability"
	"github.com/daniel/scriptstudio/internal/stages"
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Write a new script from a reference transcript",
	Long: `Runs the script-writing flow: analyze the reference transcript's
structure, generate video ideas, build an outline for the chosen idea, and
write the final script in the reference's style.`,
	RunE: runScriptCmd,
}

var (
	scriptInput   string
	scriptOutput  string
	scriptIdeaNum int
	scriptIdeas   int
	scriptLength  string
	scriptAPIKey  string
	scriptVerbose bool
)

func init() {
	scriptCmd.Flags().StringVarP(&scriptInput, "input", "i", "", "Path to the reference transcript (required)")
	scriptCmd.Flags().StringVarP(&scriptOutput, "output", "o", "", "Path for the final script (required)")
	scriptCmd.Flags().IntVar(&scriptIdeaNum, "idea", 0, "Idea number to develop; 0 prompts interactively")
	scriptCmd.Flags().IntVar(&scriptIdeas, "ideas", 5, "How many ideas to generate")
	scriptCmd.Flags().StringVar(&scriptLength, "length", "", "Target length, e.g. \"about 10 minutes of narration\"")
	scriptCmd.Flags().StringVar(&scriptAPIKey, "api-key", "", "Gemini API key(s), newline-delimited (optional, defaults to GEMINI_API_KEY env var)")
	scriptCmd.Flags().BoolVarP(&scriptVerbose, "verbose", "v", false, "Print intermediate artifacts")

	_ = scriptCmd.MarkFlagRequired("input")
	_ = scriptCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(scriptCmd)
}

func runScriptCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	data, err := os.ReadFile(scriptInput)
	if err != nil {
		return fmt.Errorf("failed to read transcript: %w", err)
	}

	fb, err := buildFallback(scriptAPIKey, llm.VideoModels())
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)

	fmt.Println("Analyzing transcript structure...")
	analysis, err := stages.AnalyzeStructure(ctx, fb, string(data))
	if err != nil {
		return err
	}
	if scriptVerbose {
		printer.PrintAnalysis(analysis)
	}

	fmt.Printf("Generating %d ideas...\n", scriptIdeas)
	ideas, err := stages.GenerateIdeas(ctx, fb, analysis.Text, scriptIdeas)
	if err != nil {
		return err
	}
	printer.PrintIdeas(ideas)

	idea, err := pickIdea(ideas, scriptIdeaNum)
	if err != nil {
		return err
	}

	fmt.Printf("Building outline for %q...\n", idea.Title)
	outline, err := stages.BuildOutline(ctx, fb, analysis.Text, idea, scriptLength)
	if err != nil {
		return err
	}

	fmt.Println("Writing final script...")
	script, err := stages.WriteFinalScript(ctx, fb, outline, analysis.Style)
	if err != nil {
		return err
	}

	if err := os.WriteFile(scriptOutput, []byte(script), 0o644); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}
	fmt.Printf("Wrote %s\n", scriptOutput)
	return nil
}

// pickIdea selects an idea by number, prompting on stdin when none was given.
func pickIdea(ideas []stages.Idea, n int) (stages.Idea, error) {
	if n == 0 {
		fmt.Printf("Pick an idea [1-%d]: ", len(ideas))
		var line string
		if _, err := fmt.Scanln(&line); err != nil {
			return stages.Idea{}, fmt.Errorf("failed to read selection: %w", err)
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return stages.Idea{}, fmt.Errorf("not a number: %q", line)
		}
		n = parsed
	}
	if n < 1 || n > len(ideas) {
		return stages.Idea{}, fmt.Errorf("idea number out of range: %d", n)
	}
	return ideas[n-1], nil
}
