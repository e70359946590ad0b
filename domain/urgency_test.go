package domain

import "testing"

func TestUrgencyFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Urgency
	}{
		{100, UrgencyHigh},
		{80, UrgencyHigh},
		{79.9, UrgencyMedium},
		{60, UrgencyMedium},
		{59.9, UrgencyLow},
		{0, UrgencyLow},
	}

	for _, tt := range tests {
		if got := UrgencyFor(tt.score); got != tt.want {
			t.Errorf("UrgencyFor(%v) = %s, expected %s", tt.score, got, tt.want)
		}
	}
}
