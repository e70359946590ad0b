package domain

type Urgency string

const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

const (
	HighUrgencyThreshold   = 80.0
	MediumUrgencyThreshold = 60.0
)

// UrgencyFor maps a probability percentage to its follow-up tier.
func UrgencyFor(score float64) Urgency {
	switch {
	case score >= HighUrgencyThreshold:
		return UrgencyHigh
	case score >= MediumUrgencyThreshold:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}
