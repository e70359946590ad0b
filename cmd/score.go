package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"lead-scorer/domain"
	"lead-scorer/service"
)

func newScoreCmd(a *app) *cobra.Command {
	var (
		lead             domain.RawLead
		daysSinceContact int
		contactFrequency int
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a single lead",
		Example: "  lead-scorer score --credit-score 780 --income 180000 --loan-amount 500000 \\\n" +
			"    --dti 0.2 --loan-type conventional --days-since-contact 2 --contact-frequency 5",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("days-since-contact") {
				lead.DaysSinceContact = &daysSinceContact
			}
			if cmd.Flags().Changed("contact-frequency") {
				lead.ContactFrequency = &contactFrequency
			}

			svc := service.NewLeadScoringService(a.cfg.TrainConfig(), nil, nil, a.logger)
			score, err := svc.Score(cmd.Context(), lead)
			if err != nil {
				return fmt.Errorf("score: %w", err)
			}

			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
				"probability_score": score,
				"urgency":           domain.UrgencyFor(score),
			})
		},
	}

	f := cmd.Flags()
	f.IntVar(&lead.CreditScore, "credit-score", 0, "credit score (300-850)")
	f.Float64Var(&lead.Income, "income", 0, "annual income")
	f.Float64Var(&lead.LoanAmount, "loan-amount", 0, "requested loan amount")
	f.Float64Var(&lead.DebtToIncome, "dti", 0, "debt-to-income ratio (0-1)")
	f.StringVar(&lead.LoanType, "loan-type", "", "loan type, e.g. conventional, fha, va, jumbo, refinance")
	f.IntVar(&daysSinceContact, "days-since-contact", 0, "days since the last contact")
	f.IntVar(&contactFrequency, "contact-frequency", 0, "number of contacts so far")
	for _, name := range []string{"credit-score", "income", "loan-amount", "dti", "loan-type"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
