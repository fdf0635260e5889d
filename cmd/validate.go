package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/artifix/artifix/pkg/config"
	"github.com/artifix/artifix/pkg/events"
	"github.com/artifix/artifix/pkg/llm"
	"github.com/artifix/artifix/pkg/logging"
	"github.com/artifix/artifix/pkg/pipeline"
	"github.com/artifix/artifix/pkg/retry"
	"github.com/artifix/artifix/pkg/types"
	"github.com/artifix/artifix/pkg/validator"
)

var (
	validateJSON       bool
	validateMaxRetries int
	validateRepair     bool
	validateModel      string
)

// validateCmd validates artifact files from disk. JSON files may hold a
// single artifact or an array; .tsx files are wrapped into an artifact
// directly.
var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate artifact files, repairing failures when a model is configured",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("max-retries") {
			cfg.MaxRetries = validateMaxRetries
		}
		if cmd.Flags().Changed("model") {
			cfg.RepairModel = validateModel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		artifacts, err := loadArtifacts(args)
		if err != nil {
			return err
		}

		logger := logging.New(logging.Options{Filename: cfg.LogFile})
		defer logger.Close()

		var channel llm.RepairChannel
		if validateRepair {
			ch, err := llm.NewOllamaChannel(cfg.RepairModel, cfg.OllamaServerURL)
			if err != nil {
				return fmt.Errorf("could not set up repair channel: %w", err)
			}
			channel = ch
		}

		var sink events.Sink
		if !validateJSON && cfg.StreamingEnabled {
			sink = consoleSink{}
		}

		orchestrator := pipeline.New(cfg, validator.New(nil, logger), retry.NewManager(logger), channel, sink, logger)
		outcomes, summary := orchestrator.ValidateAll(cmd.Context(), artifacts)

		if validateJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(struct {
				Outcomes []pipeline.Outcome `json:"outcomes"`
				Summary  pipeline.Summary   `json:"summary"`
			}{outcomes, summary}); err != nil {
				return err
			}
		} else {
			printOutcomes(outcomes, summary)
		}

		if summary.Failed > 0 {
			return fmt.Errorf("%d artifact(s) failed validation", summary.Failed)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "emit machine-readable JSON output")
	validateCmd.Flags().IntVar(&validateMaxRetries, "max-retries", 3, "total validation passes per artifact")
	validateCmd.Flags().BoolVar(&validateRepair, "repair", false, "attempt AI repair of failing artifacts")
	validateCmd.Flags().StringVar(&validateModel, "model", "", "repair model name")
	rootCmd.AddCommand(validateCmd)
}

// loadArtifacts reads artifact files. A .json file may contain one artifact
// or an array of them; any other extension is treated as raw component source.
func loadArtifacts(paths []string) ([]types.Artifact, error) {
	var artifacts []types.Artifact
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read %s: %w", path, err)
		}

		if strings.EqualFold(filepath.Ext(path), ".json") {
			var list []types.Artifact
			if err := json.Unmarshal(data, &list); err == nil {
				artifacts = append(artifacts, list...)
				continue
			}
			var single types.Artifact
			if err := json.Unmarshal(data, &single); err != nil {
				return nil, fmt.Errorf("could not parse artifact file %s: %w", path, err)
			}
			artifacts = append(artifacts, single)
			continue
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		artifacts = append(artifacts, types.Artifact{
			Identifier:  name,
			ContentType: "text/tsx",
			Title:       name,
			Content:     string(data),
		})
	}
	return artifacts, nil
}

// consoleSink prints progress events to stdout as they happen.
type consoleSink struct{}

func (consoleSink) Send(event events.ProgressEvent) {
	switch event.Type {
	case events.EventTypeCompilationSuccess, events.EventTypeFixSuccess:
		color.Green("  %s", event.Message)
	case events.EventTypeCompilationFailure, events.EventTypeFixFailure, events.EventTypeError:
		color.Red("  %s", event.Message)
	case events.EventTypeArtifactStart, events.EventTypeValidationStart, events.EventTypeValidationComplete:
		fmt.Println(event.Message)
	default:
		fmt.Printf("  %s\n", event.Message)
	}
}

func printOutcomes(outcomes []pipeline.Outcome, summary pipeline.Summary) {
	for _, outcome := range outcomes {
		name := outcome.Artifact.Identifier
		switch {
		case outcome.Result.Skipped:
			color.Yellow("%s: skipped (%s)", name, outcome.Result.SkipReason)
		case outcome.Result.Success && outcome.Repaired:
			color.Green("%s: repaired and valid after %d attempt(s)", name, outcome.Result.Attempts)
		case outcome.Result.Success:
			color.Green("%s: valid", name)
		default:
			color.Red("%s: failed after %d attempt(s)", name, outcome.Result.Attempts)
			for _, e := range outcome.Result.Errors {
				printError(e)
			}
		}
	}

	fmt.Printf("\n%d validated, %d succeeded, %d failed, %d skipped, %d repaired (%s)\n",
		summary.Validated, summary.Succeeded, summary.Failed, summary.Skipped, summary.Repaired,
		summary.Duration.Round(time.Millisecond))
}

func printError(e types.FormattedError) {
	severity := color.RedString("%s", e.Severity)
	if e.Severity == types.SeverityWarning {
		severity = color.YellowString("%s", e.Severity)
	}
	location := ""
	if e.Location != "" {
		location = " (" + e.Location + ")"
	}
	fmt.Printf("  [%s] %s: %s%s\n", e.Category, severity, e.Message, location)
	if e.Hint != "" {
		fmt.Printf("    hint: %s\n", e.Hint)
	}
}
