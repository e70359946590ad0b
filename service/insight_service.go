package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"lead-scorer/domain"
)

const (
	insightTimeout   = 30 * time.Second
	insightMaxTokens = 300

	insightSystemPrompt = "You are a sales coach for mortgage loan officers. " +
		"You write short, concrete, encouraging guidance grounded in the numbers you are given. " +
		"Never invent leads or figures."
)

// InsightService turns a scored pipeline into coaching recommendations. With
// an API key the headline description is written by the LLM; otherwise a
// template is used.
type InsightService struct {
	client  anthropic.Client
	model   string
	enabled bool
	logger  *slog.Logger
}

func NewInsightService(apiKey, model string, logger *slog.Logger) *InsightService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &InsightService{
		model:   model,
		enabled: apiKey != "",
		logger:  logger,
	}
	if s.enabled {
		s.client = anthropic.NewClient(option.WithAPIKey(apiKey))
	}
	return s
}

func (s *InsightService) Enabled() bool {
	return s.enabled
}

// Recommend builds recommendations from leads, which must already be scored.
func (s *InsightService) Recommend(ctx context.Context, leads []domain.ScoredLead) []domain.Recommendation {
	if len(leads) == 0 {
		return []domain.Recommendation{}
	}

	ranked := slices.Clone(leads)
	slices.SortStableFunc(ranked, func(a, b domain.ScoredLead) int {
		return cmp.Compare(scoreOf(b), scoreOf(a))
	})

	recs := []domain.Recommendation{s.focusRecommendation(ctx, ranked)}
	if rec, ok := staleRecommendation(ranked); ok {
		recs = append(recs, rec)
	}
	if rec, ok := pipelineRecommendation(ranked); ok {
		recs = append(recs, rec)
	}

	for i := range recs {
		recs[i].ID = i + 1
	}
	return recs
}

func (s *InsightService) focusRecommendation(ctx context.Context, ranked []domain.ScoredLead) domain.Recommendation {
	var high []domain.ScoredLead
	for _, l := range ranked {
		if l.Urgency == domain.UrgencyHigh {
			high = append(high, l)
		}
	}

	focus := high
	if len(focus) == 0 {
		focus = ranked[:min(MaxActionItems, len(ranked))]
	}

	rec := domain.Recommendation{
		Type:             "conversion",
		Title:            "Focus on High-Score Leads",
		Impact:           "medium",
		EstimatedRevenue: estimatedRevenue(focus),
		ActionItems:      actionItems(focus),
	}
	if len(high) >= MaxActionItems {
		rec.Impact = "high"
	}
	rec.Description = fallbackFocusDescription(len(high), focus)

	if !s.enabled {
		return rec
	}

	text, err := s.callLLM(ctx, focusPrompt(ranked, focus))
	if err != nil {
		s.logger.WarnContext(ctx, "insight generation failed, using template", "error", err)
		return rec
	}
	rec.Description = text
	rec.GeneratedByLLM = true
	return rec
}

func staleRecommendation(ranked []domain.ScoredLead) (domain.Recommendation, bool) {
	var stale []domain.ScoredLead
	for _, l := range ranked {
		if l.Urgency == domain.UrgencyLow || l.DaysSinceContact == nil {
			continue
		}
		if *l.DaysSinceContact > StaleContactDays {
			stale = append(stale, l)
		}
	}
	if len(stale) == 0 {
		return domain.Recommendation{}, false
	}

	return domain.Recommendation{
		Type:  "follow_up",
		Title: "Re-engage Promising Leads",
		Description: fmt.Sprintf("%d medium or high probability leads have not been contacted in over %d days",
			len(stale), StaleContactDays),
		Impact:           "medium",
		EstimatedRevenue: estimatedRevenue(stale),
		ActionItems:      actionItems(stale),
	}, true
}

func pipelineRecommendation(ranked []domain.ScoredLead) (domain.Recommendation, bool) {
	counts := map[string]int{}
	for _, l := range ranked {
		if l.Stage != "" {
			counts[l.Stage]++
		}
	}
	if len(counts) == 0 {
		return domain.Recommendation{}, false
	}

	stages := make([]string, 0, len(counts))
	for stage := range counts {
		stages = append(stages, stage)
	}
	slices.SortFunc(stages, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	busiest := stages[0]

	var inStage []domain.ScoredLead
	for _, l := range ranked {
		if l.Stage == busiest {
			inStage = append(inStage, l)
		}
	}

	return domain.Recommendation{
		Type:             "pipeline",
		Title:            "Optimize Pipeline Flow",
		Description:      fmt.Sprintf("%d of %d leads are sitting in %q; move the strongest ones forward", counts[busiest], len(ranked), busiest),
		Impact:           "low",
		EstimatedRevenue: estimatedRevenue(inStage),
		ActionItems: []string{
			fmt.Sprintf("Review the %s queue for missing documents", busiest),
			"Set reminders for leads waiting more than a week",
		},
	}, true
}

func (s *InsightService) callLLM(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, insightTimeout)
	defer cancel()

	message, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: insightMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: insightSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", errors.New("no text content in anthropic response")
}

func focusPrompt(ranked, focus []domain.ScoredLead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A loan officer has %d leads in the pipeline. The ones to prioritize this week are:\n", len(ranked))
	for _, l := range focus {
		fmt.Fprintf(&b, "- %s: %.1f%% conversion probability, %s loan of $%.0f, stage %s\n",
			l.Name, scoreOf(l), l.LoanType, l.LoanAmount, l.Stage)
	}
	b.WriteString("\nWrite two sentences telling the loan officer where to spend their time and why.")
	return b.String()
}

func fallbackFocusDescription(highCount int, focus []domain.ScoredLead) string {
	if highCount == 0 {
		return fmt.Sprintf("No leads above %.0f%% yet; the %d strongest are the best use of follow-up time this week",
			domain.HighUrgencyThreshold, len(focus))
	}
	return fmt.Sprintf("Prioritize %d leads with %.0f%%+ conversion probability this week",
		highCount, domain.HighUrgencyThreshold)
}

func actionItems(leads []domain.ScoredLead) []string {
	items := make([]string, 0, MaxActionItems)
	for _, l := range leads[:min(MaxActionItems, len(leads))] {
		items = append(items, fmt.Sprintf("Schedule a follow-up call with %s (%.0f%% score)", l.Name, scoreOf(l)))
	}
	return items
}

func estimatedRevenue(leads []domain.ScoredLead) float64 {
	var total float64
	for _, l := range leads {
		total += l.LoanAmount * OriginationRate * scoreOf(l) / 100
	}
	return roundTo2Decimals(total)
}

func scoreOf(l domain.ScoredLead) float64 {
	if l.ProbabilityScore == nil {
		return 0
	}
	return *l.ProbabilityScore
}
