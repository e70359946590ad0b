package model

import (
	"slices"

	"lead-scorer/domain"
)

// Feature positions inside a FeatureVector.
const (
	FeatureCreditScore = iota
	FeatureIncome
	FeatureLoanAmount
	FeatureDebtToIncome
	FeatureDaysSinceContact
	FeatureContactFrequency
	FeatureLoanType

	FeatureCount
)

// FeatureNames lists the vector columns in order.
var FeatureNames = [FeatureCount]string{
	"credit_score",
	"income",
	"loan_amount",
	"debt_to_income",
	"days_since_contact",
	"contact_frequency",
	"loan_type_encoded",
}

const (
	DefaultDaysSinceContact = 1
	DefaultContactFrequency = 1

	// UnknownCategoryCode is emitted for loan types the encoder never saw.
	UnknownCategoryCode = 0
)

// FeatureVector is the fixed-order numeric encoding of a lead.
type FeatureVector [FeatureCount]float64

// CategoryEncoder maps loan types to stable integer codes. Codes follow the
// sorted order of the distinct values seen at fit time.
type CategoryEncoder struct {
	classes []string
	codes   map[string]int
}

// FitCategoryEncoder builds an encoder over the distinct values.
func FitCategoryEncoder(values []string) *CategoryEncoder {
	classes := slices.Clone(values)
	slices.Sort(classes)
	classes = slices.Compact(classes)

	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		codes[c] = i
	}
	return &CategoryEncoder{classes: classes, codes: codes}
}

// Code returns the stored code for value, or UnknownCategoryCode.
func (e *CategoryEncoder) Code(value string) int {
	if e == nil {
		return UnknownCategoryCode
	}
	if code, ok := e.codes[value]; ok {
		return code
	}
	return UnknownCategoryCode
}

// Classes returns a copy of the known categories in code order.
func (e *CategoryEncoder) Classes() []string {
	if e == nil {
		return nil
	}
	return slices.Clone(e.classes)
}

// Encode converts a raw lead into its feature vector, applying the contact
// defaults first. Missing required fields arrive as zero values and are
// encoded as 0.
func Encode(lead domain.RawLead, enc *CategoryEncoder) FeatureVector {
	s := Sample{
		CreditScore:      float64(lead.CreditScore),
		Income:           lead.Income,
		LoanAmount:       lead.LoanAmount,
		DebtToIncome:     lead.DebtToIncome,
		LoanType:         lead.LoanType,
		DaysSinceContact: DefaultDaysSinceContact,
		ContactFrequency: DefaultContactFrequency,
	}
	if lead.DaysSinceContact != nil {
		s.DaysSinceContact = *lead.DaysSinceContact
	}
	if lead.ContactFrequency != nil {
		s.ContactFrequency = *lead.ContactFrequency
	}
	return encodeSample(s, enc)
}

// encodeSample is the single place the column order is written down; training
// and inference both go through it.
func encodeSample(s Sample, enc *CategoryEncoder) FeatureVector {
	var v FeatureVector
	v[FeatureCreditScore] = s.CreditScore
	v[FeatureIncome] = s.Income
	v[FeatureLoanAmount] = s.LoanAmount
	v[FeatureDebtToIncome] = s.DebtToIncome
	v[FeatureDaysSinceContact] = float64(s.DaysSinceContact)
	v[FeatureContactFrequency] = float64(s.ContactFrequency)
	v[FeatureLoanType] = float64(enc.Code(s.LoanType))
	return v
}
