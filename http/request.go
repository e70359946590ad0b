package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lead-scorer/domain"
)

// scoreRequest mirrors domain.RawLead with pointers so the ingress can tell
// a missing required field from a zero value.
type scoreRequest struct {
	CreditScore      *int     `json:"credit_score"`
	Income           *float64 `json:"income"`
	LoanAmount       *float64 `json:"loan_amount"`
	DebtToIncome     *float64 `json:"debt_to_income"`
	LoanType         *string  `json:"loan_type"`
	DaysSinceContact *int     `json:"days_since_contact"`
	ContactFrequency *int     `json:"contact_frequency"`
}

func (r scoreRequest) toRawLead() (domain.RawLead, error) {
	var missing []string
	if r.CreditScore == nil {
		missing = append(missing, "credit_score")
	}
	if r.Income == nil {
		missing = append(missing, "income")
	}
	if r.LoanAmount == nil {
		missing = append(missing, "loan_amount")
	}
	if r.DebtToIncome == nil {
		missing = append(missing, "debt_to_income")
	}
	if r.LoanType == nil || strings.TrimSpace(*r.LoanType) == "" {
		missing = append(missing, "loan_type")
	}
	if len(missing) > 0 {
		return domain.RawLead{}, fmt.Errorf("%w: missing %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}

	switch {
	case *r.CreditScore < 300 || *r.CreditScore > 850:
		return domain.RawLead{}, fmt.Errorf("%w: credit_score must be between 300 and 850", domain.ErrInvalidInput)
	case *r.Income <= 0:
		return domain.RawLead{}, fmt.Errorf("%w: income must be positive", domain.ErrInvalidInput)
	case *r.LoanAmount <= 0:
		return domain.RawLead{}, fmt.Errorf("%w: loan_amount must be positive", domain.ErrInvalidInput)
	case *r.DebtToIncome < 0 || *r.DebtToIncome > 1:
		return domain.RawLead{}, fmt.Errorf("%w: debt_to_income must be between 0 and 1", domain.ErrInvalidInput)
	case r.DaysSinceContact != nil && *r.DaysSinceContact < 0:
		return domain.RawLead{}, fmt.Errorf("%w: days_since_contact must not be negative", domain.ErrInvalidInput)
	case r.ContactFrequency != nil && *r.ContactFrequency < 0:
		return domain.RawLead{}, fmt.Errorf("%w: contact_frequency must not be negative", domain.ErrInvalidInput)
	}

	return domain.RawLead{
		CreditScore:      *r.CreditScore,
		Income:           *r.Income,
		LoanAmount:       *r.LoanAmount,
		DebtToIncome:     *r.DebtToIncome,
		LoanType:         strings.TrimSpace(*r.LoanType),
		DaysSinceContact: r.DaysSinceContact,
		ContactFrequency: r.ContactFrequency,
	}, nil
}

type createLeadRequest struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Stage       string     `json:"stage"`
	CreatedDate *time.Time `json:"created_date"`
	LastContact *time.Time `json:"last_contact"`
	scoreRequest
}

func (r createLeadRequest) toLead(now time.Time) (domain.Lead, error) {
	if strings.TrimSpace(r.Name) == "" {
		return domain.Lead{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if !strings.Contains(r.Email, "@") {
		return domain.Lead{}, fmt.Errorf("%w: email is invalid", domain.ErrInvalidInput)
	}

	raw, err := r.scoreRequest.toRawLead()
	if err != nil {
		return domain.Lead{}, err
	}

	lead := domain.Lead{
		Name:        strings.TrimSpace(r.Name),
		Email:       strings.TrimSpace(r.Email),
		Phone:       r.Phone,
		Stage:       r.Stage,
		CreatedDate: now,
		LastContact: now,
		RawLead:     raw,
	}
	if lead.Stage == "" {
		lead.Stage = "New Lead"
	}
	if r.CreatedDate != nil {
		lead.CreatedDate = *r.CreatedDate
	}
	if r.LastContact != nil {
		lead.LastContact = *r.LastContact
	}
	return lead, nil
}

var errEmptyBody = errors.New("empty request body")
