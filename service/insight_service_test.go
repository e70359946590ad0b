package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-scorer/domain"
)

func scored(name string, score float64, days int, stage string) domain.ScoredLead {
	return domain.ScoredLead{
		Lead: domain.Lead{
			Name:             name,
			Stage:            stage,
			ProbabilityScore: &score,
			RawLead: domain.RawLead{
				LoanAmount:       400000,
				LoanType:         "conventional",
				DaysSinceContact: domain.IntPtr(days),
			},
		},
		Urgency: domain.UrgencyFor(score),
	}
}

func TestInsightService_TemplateRecommendations(t *testing.T) {
	svc := NewInsightService("", "", discardLogger())
	require.False(t, svc.Enabled())

	leads := []domain.ScoredLead{
		scored("Mike Chen", 65, 10, "Qualified"),
		scored("Sarah Johnson", 92, 2, "Application"),
		scored("Lisa Brown", 87, 3, "Qualified"),
		scored("Amy Davis", 81, 1, "Qualified"),
		scored("David Wilson", 30, 12, "New Lead"),
	}

	recs := svc.Recommend(context.Background(), leads)
	require.Len(t, recs, 3)

	focus := recs[0]
	assert.Equal(t, 1, focus.ID)
	assert.Equal(t, "conversion", focus.Type)
	assert.Equal(t, "high", focus.Impact)
	assert.False(t, focus.GeneratedByLLM)
	assert.Equal(t, []string{
		"Schedule a follow-up call with Sarah Johnson (92% score)",
		"Schedule a follow-up call with Lisa Brown (87% score)",
		"Schedule a follow-up call with Amy Davis (81% score)",
	}, focus.ActionItems)
	assert.InDelta(t, 400000*0.01*(0.92+0.87+0.81), focus.EstimatedRevenue, 0.01)

	stale := recs[1]
	assert.Equal(t, "follow_up", stale.Type)
	assert.Equal(t, []string{"Schedule a follow-up call with Mike Chen (65% score)"}, stale.ActionItems)

	pipeline := recs[2]
	assert.Equal(t, 3, pipeline.ID)
	assert.Contains(t, pipeline.Description, `"Qualified"`)
}

func TestInsightService_NoHighLeadsFallsBackToTopThree(t *testing.T) {
	svc := NewInsightService("", "", discardLogger())

	leads := []domain.ScoredLead{
		scored("A", 40, 1, ""),
		scored("B", 55, 1, ""),
		scored("C", 20, 1, ""),
		scored("D", 10, 1, ""),
	}

	recs := svc.Recommend(context.Background(), leads)
	require.Len(t, recs, 1)
	assert.Equal(t, "medium", recs[0].Impact)
	assert.Len(t, recs[0].ActionItems, MaxActionItems)
	assert.Contains(t, recs[0].ActionItems[0], "B (55% score)")
}

func TestInsightService_Empty(t *testing.T) {
	svc := NewInsightService("", "", discardLogger())

	assert.Empty(t, svc.Recommend(context.Background(), nil))
}
