package model

import (
	"math"
	"math/rand/v2"
)

// LoanTypes are the loan products drawn by the synthetic generator.
var LoanTypes = []string{"conventional", "fha", "va", "jumbo", "refinance"}

// Sample stands for one synthetic lead. CreditScore stays real-valued because
// the label process compares the clamped draw, not a rounded integer.
type Sample struct {
	CreditScore      float64
	Income           float64
	LoanAmount       float64
	DebtToIncome     float64
	LoanType         string
	DaysSinceContact int
	ContactFrequency int
}

// TrainingExample is a synthetic sample with its conversion label.
type TrainingExample struct {
	Sample
	Converted bool
}

const (
	baseConversionProbability = 0.30
	minConversionProbability  = 0.05
	maxConversionProbability  = 0.95
	labelNoise                = 0.10

	// contact draws cover 1..29 days and 1..9 touches
	maxDaysSinceContact = 29
	maxContactFrequency = 9
)

// GenerateTrainingSet draws n labeled examples. The same (n, seed) pair always
// yields the same slice.
func GenerateTrainingSet(n int, seed uint64) ([]TrainingExample, error) {
	if n < 1 {
		return nil, ErrInvalidSampleCount
	}

	rng := newRand(seed, generatorStream)
	examples := make([]TrainingExample, n)

	for i := range examples {
		s := drawSample(rng)
		p := ConversionProbability(s) + uniform(rng, -labelNoise, labelNoise)
		p = clamp(p, minConversionProbability, maxConversionProbability)

		examples[i] = TrainingExample{
			Sample:    s,
			Converted: rng.Float64() < p,
		}
	}

	return examples, nil
}

func drawSample(rng *rand.Rand) Sample {
	creditScore := clamp(720+80*rng.NormFloat64(), 300, 850)
	income := math.Exp(11.5 + 0.6*rng.NormFloat64())

	return Sample{
		CreditScore:      creditScore,
		Income:           income,
		LoanAmount:       income * uniform(rng, 2.5, 5.0),
		DebtToIncome:     uniform(rng, 0.15, 0.45),
		LoanType:         LoanTypes[rng.IntN(len(LoanTypes))],
		DaysSinceContact: 1 + rng.IntN(maxDaysSinceContact),
		ContactFrequency: 1 + rng.IntN(maxContactFrequency),
	}
}

// ConversionProbability is the noiseless part of the label process: the base
// rate plus the credit, income, debt and recency adjustments.
func ConversionProbability(s Sample) float64 {
	p := baseConversionProbability

	// credit score
	switch {
	case s.CreditScore > 750:
		p += 0.25
	case s.CreditScore > 680:
		p += 0.15
	case s.CreditScore < 600:
		p -= 0.20
	}

	// income
	switch {
	case s.Income > 150000:
		p += 0.20
	case s.Income > 100000:
		p += 0.10
	case s.Income < 50000:
		p -= 0.15
	}

	// debt to income
	switch {
	case s.DebtToIncome < 0.25:
		p += 0.15
	case s.DebtToIncome > 0.40:
		p -= 0.20
	}

	// contact recency
	switch {
	case s.DaysSinceContact <= 3:
		p += 0.10
	case s.DaysSinceContact > 14:
		p -= 0.15
	}

	return p
}

// PCG stream ids; every consumer of the seed reads its own stream.
const (
	generatorStream uint64 = 0
	splitStream     uint64 = 1
	treeStream      uint64 = 1 << 32
)

// newRand returns a PCG-backed generator for the given seed and stream.
func newRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
