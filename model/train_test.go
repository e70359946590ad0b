package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-scorer/domain"
)

var (
	defaultModelOnce sync.Once
	defaultModel     *TrainedModel
	defaultModelErr  error
)

func trainedDefault(t *testing.T) *TrainedModel {
	t.Helper()
	defaultModelOnce.Do(func() {
		defaultModel, defaultModelErr = Train(DefaultTrainConfig())
	})
	require.NoError(t, defaultModelErr)
	return defaultModel
}

func TestTrain_Metrics(t *testing.T) {
	m := trainedDefault(t)

	metrics := m.Metrics()
	assert.Equal(t, 800, metrics.TrainSize)
	assert.Equal(t, 200, metrics.ValidationSize)
	assert.Greater(t, metrics.TrainAccuracy, 0.5)
	assert.Greater(t, metrics.ValidationAccuracy, 0.5)
	assert.Greater(t, metrics.PositiveRate, 0.0)
	assert.Less(t, metrics.PositiveRate, 1.0)
	assert.Equal(t, 100, m.Forest().Size())
	assert.Equal(t, LoanTypes[0], m.Encoder().Classes()[0])
	assert.False(t, m.TrainedAt().IsZero())
}

func TestTrain_ProbabilityRange(t *testing.T) {
	m := trainedDefault(t)

	for _, credit := range []int{300, 450, 600, 700, 850} {
		for _, income := range []float64{1, 40000, 90000, 250000} {
			for _, dti := range []float64{0, 0.3, 1} {
				p := m.PredictProbability(domain.RawLead{
					CreditScore:  credit,
					Income:       income,
					LoanAmount:   income * 3,
					DebtToIncome: dti,
					LoanType:     "fha",
				})
				assert.GreaterOrEqual(t, p, 0.0)
				assert.LessOrEqual(t, p, 1.0)
			}
		}
	}
}

func TestTrain_ExampleProfiles(t *testing.T) {
	m := trainedDefault(t)

	strong := m.PredictProbability(domain.RawLead{
		CreditScore:      780,
		Income:           180000,
		LoanAmount:       500000,
		DebtToIncome:     0.20,
		LoanType:         "conventional",
		DaysSinceContact: domain.IntPtr(2),
		ContactFrequency: domain.IntPtr(5),
	})
	weak := m.PredictProbability(domain.RawLead{
		CreditScore:      560,
		Income:           40000,
		LoanAmount:       300000,
		DebtToIncome:     0.44,
		LoanType:         "fha",
		DaysSinceContact: domain.IntPtr(25),
		ContactFrequency: domain.IntPtr(1),
	})

	assert.Greater(t, strong, 0.5)
	assert.Less(t, weak, 0.5)
}

func TestTrain_CreditScoreMonotonicOnAverage(t *testing.T) {
	m := trainedDefault(t)

	average := func(credit int) float64 {
		var sum float64
		n := 0
		for _, income := range []float64{60000, 75000, 90000} {
			for _, dti := range []float64{0.28, 0.32, 0.36} {
				for freq := 1; freq <= 9; freq += 2 {
					sum += m.PredictProbability(domain.RawLead{
						CreditScore:      credit,
						Income:           income,
						LoanAmount:       income * 3.5,
						DebtToIncome:     dti,
						LoanType:         "conventional",
						DaysSinceContact: domain.IntPtr(7),
						ContactFrequency: domain.IntPtr(freq),
					})
					n++
				}
			}
		}
		return sum / float64(n)
	}

	assert.Greater(t, average(800), average(500))
}

func TestTrain_SameSeedSamePredictions(t *testing.T) {
	cfg := DefaultTrainConfig()
	cfg.SampleCount = 300
	cfg.Forest.Trees = 15

	a, err := Train(cfg)
	require.NoError(t, err)
	b, err := Train(cfg)
	require.NoError(t, err)

	lead := domain.RawLead{CreditScore: 700, Income: 95000, LoanAmount: 300000, DebtToIncome: 0.3, LoanType: "va"}
	assert.Equal(t, a.PredictProbability(lead), b.PredictProbability(lead))
	assert.Equal(t, a.Metrics(), b.Metrics())
	assert.NotEqual(t, a.Version(), b.Version())
}

func TestTrainOn_DegenerateLabels(t *testing.T) {
	examples, err := GenerateTrainingSet(50, 3)
	require.NoError(t, err)
	for i := range examples {
		examples[i].Converted = false
	}

	_, err = TrainOn(examples, DefaultTrainConfig())
	assert.ErrorIs(t, err, ErrDegenerateTrainingSet)
}

func TestTrainOn_NothingLeftToTrain(t *testing.T) {
	examples, err := GenerateTrainingSet(1, 3)
	require.NoError(t, err)

	_, err = TrainOn(examples, DefaultTrainConfig())
	assert.ErrorIs(t, err, ErrDegenerateTrainingSet)
}

func TestTrain_InvalidConfig(t *testing.T) {
	cfg := DefaultTrainConfig()
	cfg.SampleCount = 0
	_, err := Train(cfg)
	assert.ErrorIs(t, err, ErrInvalidSampleCount)

	cfg = DefaultTrainConfig()
	cfg.ValidationFraction = 1
	_, err = Train(cfg)
	assert.ErrorIs(t, err, ErrInvalidParams)
}
