package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lead-scorer/model"
)

func newTrainCmd(a *app) *cobra.Command {
	var samples int

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the model on synthetic leads and print its metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.TrainConfig()
			if samples > 0 {
				cfg.SampleCount = samples
			}

			start := time.Now()
			m, err := model.Train(cfg)
			if err != nil {
				return fmt.Errorf("train: %w", err)
			}
			a.logger.Info("model trained", "version", m.Version(), "duration", time.Since(start))

			out := struct {
				Version   string        `json:"version"`
				TrainedAt time.Time     `json:"trained_at"`
				Metrics   model.Metrics `json:"metrics"`
				LoanTypes []string      `json:"loan_types"`
				Trees     int           `json:"trees"`
			}{
				Version:   m.Version().String(),
				TrainedAt: m.TrainedAt(),
				Metrics:   m.Metrics(),
				LoanTypes: m.Encoder().Classes(),
				Trees:     m.Forest().Size(),
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().IntVar(&samples, "samples", 0, "override the number of synthetic training samples")

	return cmd
}
