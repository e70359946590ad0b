package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lead-scorer/config"
)

// app carries what every subcommand needs once the config is loaded.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "lead-scorer",
		Short:         "Score mortgage leads by their probability of converting",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			level, err := config.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the YAML config file (default $"+config.EnvConfigPath+" or config.yaml)")

	cmd.AddCommand(
		newServeCmd(a),
		newTrainCmd(a),
		newScoreCmd(a),
		newLeadsCmd(a),
	)
	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
