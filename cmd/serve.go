package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artifix/artifix/pkg/config"
	"github.com/artifix/artifix/pkg/events"
	"github.com/artifix/artifix/pkg/llm"
	"github.com/artifix/artifix/pkg/logging"
	"github.com/artifix/artifix/pkg/pipeline"
	"github.com/artifix/artifix/pkg/retry"
	"github.com/artifix/artifix/pkg/streamer"
	"github.com/artifix/artifix/pkg/validator"
)

var (
	serveListen string
	serveRepair bool
)

// serveCmd runs the validation HTTP server. POST /validate accepts artifact
// batches; GET /ws streams progress events.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the validation HTTP server with WebSocket progress streaming",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		logger := logging.New(logging.Options{Filename: cfg.LogFile, Stdout: true})
		defer logger.Close()

		var channel llm.RepairChannel
		if serveRepair {
			ch, err := llm.NewOllamaChannel(cfg.RepairModel, cfg.OllamaServerURL)
			if err != nil {
				return fmt.Errorf("could not set up repair channel: %w", err)
			}
			channel = ch
		}

		bus := events.NewEventBus()
		orchestrator := pipeline.New(cfg, validator.New(nil, logger), retry.NewManager(logger), channel, events.BusSink{Bus: bus}, logger)
		server := streamer.NewServer(orchestrator, bus)

		logger.LogProcessStep(fmt.Sprintf("Listening on %s", serveListen))
		return server.ListenAndServe(serveListen)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", ":8420", "listen address")
	serveCmd.Flags().BoolVar(&serveRepair, "repair", false, "attempt AI repair of failing artifacts")
	rootCmd.AddCommand(serveCmd)
}
