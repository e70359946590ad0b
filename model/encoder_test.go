package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lead-scorer/domain"
)

func sampleLead() domain.RawLead {
	return domain.RawLead{
		CreditScore:      780,
		Income:           180000,
		LoanAmount:       500000,
		DebtToIncome:     0.20,
		LoanType:         "conventional",
		DaysSinceContact: domain.IntPtr(2),
		ContactFrequency: domain.IntPtr(5),
	}
}

func TestFitCategoryEncoder_SortedStableCodes(t *testing.T) {
	enc := FitCategoryEncoder([]string{"va", "fha", "conventional", "va", "refinance", "jumbo", "fha"})

	assert.Equal(t, []string{"conventional", "fha", "jumbo", "refinance", "va"}, enc.Classes())
	assert.Equal(t, 0, enc.Code("conventional"))
	assert.Equal(t, 1, enc.Code("fha"))
	assert.Equal(t, 2, enc.Code("jumbo"))
	assert.Equal(t, 3, enc.Code("refinance"))
	assert.Equal(t, 4, enc.Code("va"))
}

func TestCategoryEncoder_UnseenFallsBack(t *testing.T) {
	enc := FitCategoryEncoder(LoanTypes)

	assert.Equal(t, UnknownCategoryCode, enc.Code("reverse-mortgage"))
	assert.Equal(t, UnknownCategoryCode, enc.Code(""))

	var nilEnc *CategoryEncoder
	assert.Equal(t, UnknownCategoryCode, nilEnc.Code("fha"))
}

func TestEncode_FieldOrder(t *testing.T) {
	enc := FitCategoryEncoder(LoanTypes)
	lead := sampleLead()
	lead.LoanType = "va"

	v := Encode(lead, enc)

	assert.Equal(t, FeatureVector{780, 180000, 500000, 0.20, 2, 5, 4}, v)
}

func TestEncode_Idempotent(t *testing.T) {
	enc := FitCategoryEncoder(LoanTypes)
	lead := sampleLead()

	first := Encode(lead, enc)
	second := Encode(lead, enc)

	assert.Equal(t, first, second)
	assert.Equal(t, sampleLead(), lead)
}

func TestEncode_UnseenLoanType(t *testing.T) {
	enc := FitCategoryEncoder(LoanTypes)
	lead := sampleLead()
	lead.LoanType = "Balloon"

	v := Encode(lead, enc)

	assert.Equal(t, float64(UnknownCategoryCode), v[FeatureLoanType])
}

func TestEncode_OptionalDefaults(t *testing.T) {
	enc := FitCategoryEncoder(LoanTypes)
	lead := sampleLead()
	lead.DaysSinceContact = nil
	lead.ContactFrequency = nil

	v := Encode(lead, enc)

	assert.Equal(t, 1.0, v[FeatureDaysSinceContact])
	assert.Equal(t, 1.0, v[FeatureContactFrequency])
}

func TestEncode_ExplicitZeroIsKept(t *testing.T) {
	enc := FitCategoryEncoder(LoanTypes)
	lead := sampleLead()
	lead.DaysSinceContact = domain.IntPtr(0)

	v := Encode(lead, enc)

	assert.Equal(t, 0.0, v[FeatureDaysSinceContact])
}

func TestEncode_MissingRequiredFieldsAreZero(t *testing.T) {
	enc := FitCategoryEncoder(LoanTypes)

	v := Encode(domain.RawLead{}, enc)

	assert.Equal(t, FeatureVector{0, 0, 0, 0, 1, 1, 0}, v)
}
