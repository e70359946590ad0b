package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lead-scorer/service"
)

func newLeadsCmd(a *app) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Score a batch of demo leads, highest probability first",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := service.NewLeadScoringService(a.cfg.TrainConfig(), nil, service.NewDemoLeadGenerator(a.cfg.Demo.Seed), a.logger)
			leads, err := svc.ScoreBatch(cmd.Context(), count)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tLOAN TYPE\tAMOUNT\tSTAGE\tSCORE\tURGENCY")
			for _, l := range leads {
				fmt.Fprintf(tw, "%s\t%s\t%.0f\t%s\t%.1f\t%s\n",
					l.Name, l.LoanType, l.LoanAmount, l.Stage, *l.ProbabilityScore, l.Urgency)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", service.DefaultBatchSize, fmt.Sprintf("number of leads (1-%d)", service.MaxBatchSize))

	return cmd
}
