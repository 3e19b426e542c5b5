package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nexora/cloudtask/internal/api"
	"github.com/nexora/cloudtask/internal/config"
	"github.com/nexora/cloudtask/internal/telemetry"
)

var boardServerCmd = &cobra.Command{
	Use:   "board-server",
	Short: "Start the CloudTask board server",
	Run: func(cmd *cobra.Command, args []string) {
		conf := config.ReadConfig()

		shutdownTelemetry := telemetry.NewProvider(conf.OTEL_EXPORTER_OTLP_ENDPOINT)
		defer shutdownTelemetry()

		s := api.New()
		s.Start()
	},
}

func init() {
	rootCmd.AddCommand(boardServerCmd)
}
