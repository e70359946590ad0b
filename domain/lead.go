package domain

import "time"

// RawLead is the lead shape the scoring model consumes. Required fields that
// are missing from a payload decode to their zero value; the two optional
// contact fields are pointers so the encoder can tell absence from zero.
type RawLead struct {
	CreditScore      int     `json:"credit_score"`
	Income           float64 `json:"income"`
	LoanAmount       float64 `json:"loan_amount"`
	DebtToIncome     float64 `json:"debt_to_income"`
	LoanType         string  `json:"loan_type"`
	DaysSinceContact *int    `json:"days_since_contact,omitempty"`
	ContactFrequency *int    `json:"contact_frequency,omitempty"`
}

// Lead is a pipeline lead with its contact details, as received on intake or
// produced by the demo generator.
type Lead struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Stage            string    `json:"stage"`
	CreatedDate      time.Time `json:"created_date"`
	LastContact      time.Time `json:"last_contact"`
	ProbabilityScore *float64  `json:"probability_score,omitempty"`
	RawLead
}

// ScoredLead is a lead with its conversion score and urgency tier.
type ScoredLead struct {
	Lead
	Urgency Urgency `json:"urgency"`
}

// IntPtr is a small helper for populating optional lead fields.
func IntPtr(v int) *int {
	return &v
}
