package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/daniel/scriptstudio/internal/config"
	"github.com/daniel/scriptstudio/internal/llm"
	"github.com/daniel/scriptstudio/internal/observability"
	"github.com/daniel/scriptstudio/internal/pipeline"
	"github.com/daniel/scriptstudio/internal/stages"
	"github.com/daniel/scriptstudio/internal/styles"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the storyboard pipeline over a script file",
	Long: `Chunks the script into segments, then runs every segment through the
pipeline: action count -> row split -> image and video prompt generation.
Segments that keep failing are skipped and reported at the end.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath string
	runScript     string
	runOutput     string
	runStyle      string
	runRowCount   int
	runAPIKey     string
	runDelay      int
	runRetries    int
	runVerbose    bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runScript, "script", "s", "", "Path to source script text file")
	runCommand.Flags().StringVarP(&runOutput, "output", "o", "", "Output directory for generated artifacts (default: alongside the script)")
	runCommand.Flags().StringVar(&runStyle, "style", "", "Visual style preset (see 'scriptstudio styles')")
	runCommand.Flags().IntVar(&runRowCount, "rows", 0, "Storyboard rows per segment (default 8)")
	runCommand.Flags().IntVar(&runDelay, "delay", 0, "Seconds to pause between upstream calls (default 8)")
	runCommand.Flags().IntVar(&runRetries, "retries", 0, "Extra attempts per failed stage (default 1)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed progress information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API key(s), newline-delimited (optional, defaults to GEMINI_API_KEY env var)")

	rootCmd.AddCommand(runCommand)
}

// mergedRunConfig loads the optional config file and applies CLI overrides.
func mergedRunConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if runConfigPath != "" {
		loaded, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	if cmd.Flags().Changed("script") {
		cfg.Script = runScript
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = runOutput
	}
	if cmd.Flags().Changed("style") {
		cfg.Style = runStyle
	}
	if cmd.Flags().Changed("rows") {
		cfg.RowCount = runRowCount
	}
	if cmd.Flags().Changed("delay") {
		cfg.DelaySeconds = runDelay
	}
	if cmd.Flags().Changed("retries") {
		cfg.StageRetries = runRetries
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}

	if cfg.Script == "" {
		return cfg, fmt.Errorf("a script file is required (--script or config)")
	}
	return cfg, nil
}

// buildFallback resolves credentials and wraps them in a fallback executor.
func buildFallback(raw string, models []string) (*llm.Fallback, error) {
	creds := llm.ResolveCredentials(raw)
	if len(creds) == 0 {
		return nil, fmt.Errorf("no API key: pass --api-key or set %s", llm.EnvAPIKey)
	}
	return llm.NewFallback(creds, models), nil
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := mergedRunConfig(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cfg.Script)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	fb, err := buildFallback(cfg.APIKey, llm.VisualModels())
	if err != nil {
		return err
	}

	doc := pipeline.NewDocument(string(data))
	printer := observability.NewPrinter(os.Stdout)

	if cfg.Style != "" {
		st, ok := styles.Lookup(cfg.Style)
		if !ok {
			return fmt.Errorf("unknown style %q; run 'scriptstudio styles' to list presets", cfg.Style)
		}
		doc.Style = st.Name
	} else {
		fmt.Println("Recommending a visual style...")
		recommended, err := stages.RecommendStyle(ctx, fb, string(data), styles.Names())
		if err != nil {
			return err
		}
		doc.Style = recommended
		fmt.Printf("Style: %s\n", recommended)
	}

	fmt.Println("Designing character profiles...")
	characters, err := stages.DesignCharacters(ctx, fb, string(data), doc.Style)
	if err != nil {
		return err
	}
	doc.Characters = characters
	if runVerbose {
		printer.PrintCharacters(characters)
	}
	runner := pipeline.NewRunner(fb)
	if cfg.RowCount > 0 {
		runner.RowCount = cfg.RowCount
	}
	if cfg.DelaySeconds > 0 {
		runner.Delays = pipeline.DelayPolicy{BetweenStages: time.Duration(cfg.DelaySeconds) * time.Second}
	}
	if cfg.StageRetries > 0 {
		runner.StageRetries = cfg.StageRetries
	}
	runner.OnProgress = printer.PrintProgress

	var skipped []int
	runner.OnFailure = func(segment int, stage string, err error) pipeline.Decision {
		fmt.Fprintf(os.Stderr, "segment %d failed at %s: %v (skipping)\n", segment, stage, err)
		skipped = append(skipped, segment)
		return pipeline.DecisionSkip
	}

	fmt.Printf("Processing %d segments...\n", len(doc.Segments))
	if err := runner.AutoRun(ctx, doc); err != nil {
		return err
	}

	if runVerbose {
		printer.PrintAnalysis(doc.Analysis)
		printer.PrintSegments(doc.Segments)
	}

	outDir := cfg.Output
	if outDir == "" {
		outDir = filepath.Dir(cfg.Script)
	}
	if err := writeRunArtifacts(outDir, doc); err != nil {
		return err
	}

	if len(skipped) > 0 {
		fmt.Printf("Done with %d segment(s) skipped: %v\n", len(skipped), skipped)
	} else {
		fmt.Println("Done.")
	}
	return nil
}

// writeRunArtifacts writes the aggregated outputs and the full document state.
func writeRunArtifacts(dir string, doc *pipeline.Document) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	lists := map[string]pipeline.Field{
		"rows.txt":          pipeline.FieldRows,
		"image_prompts.txt": pipeline.FieldImagePrompts,
		"video_prompts.txt": pipeline.FieldVideoPrompts,
	}
	for name, field := range lists {
		content := strings.Join(pipeline.CollectAll(doc.Segments, field), "\n")
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	state, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "document.json"), state, 0o644); err != nil {
		return fmt.Errorf("failed to write document.json: %w", err)
	}
	return nil
}
