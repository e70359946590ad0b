package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"lead-scorer/domain"
)

// TrainConfig drives a full training run. One seed feeds data generation, the
// validation split and the forest.
type TrainConfig struct {
	SampleCount        int
	ValidationFraction float64
	Seed               uint64
	Forest             ForestParams
}

func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		SampleCount:        1000,
		ValidationFraction: 0.2,
		Seed:               42,
		Forest:             DefaultForestParams(),
	}
}

// Metrics are recorded for reporting only; they never gate training.
type Metrics struct {
	TrainAccuracy      float64 `json:"train_accuracy"`
	ValidationAccuracy float64 `json:"validation_accuracy"`
	TrainSize          int     `json:"train_size"`
	ValidationSize     int     `json:"validation_size"`
	PositiveRate       float64 `json:"positive_rate"`
}

// TrainedModel bundles the forest with the encoder and scaler it was fit
// with. It is never mutated after Train returns.
type TrainedModel struct {
	version   uuid.UUID
	trainedAt time.Time
	encoder   *CategoryEncoder
	scaler    ScalerState
	forest    *Forest
	metrics   Metrics
}

// Train generates a synthetic training set and fits a model on it.
func Train(cfg TrainConfig) (*TrainedModel, error) {
	examples, err := GenerateTrainingSet(cfg.SampleCount, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("generate training set: %w", err)
	}
	return TrainOn(examples, cfg)
}

// TrainOn fits a model on the given examples. cfg.SampleCount is ignored.
func TrainOn(examples []TrainingExample, cfg TrainConfig) (*TrainedModel, error) {
	n := len(examples)
	if n == 0 {
		return nil, ErrInvalidSampleCount
	}
	if cfg.ValidationFraction < 0 || cfg.ValidationFraction >= 1 {
		return nil, fmt.Errorf("%w: validation_fraction=%v", ErrInvalidParams, cfg.ValidationFraction)
	}

	loanTypes := make([]string, n)
	for i, ex := range examples {
		loanTypes[i] = ex.LoanType
	}
	encoder := FitCategoryEncoder(loanTypes)

	X := make([]FeatureVector, n)
	y := make([]bool, n)
	labels := make([]float64, n)
	for i, ex := range examples {
		X[i] = encodeSample(ex.Sample, encoder)
		y[i] = ex.Converted
		if ex.Converted {
			labels[i] = 1
		}
	}

	perm := newRand(cfg.Seed, splitStream).Perm(n)
	holdout := int(math.Ceil(cfg.ValidationFraction * float64(n)))
	if holdout >= n {
		return nil, fmt.Errorf("%w: no examples left for training", ErrDegenerateTrainingSet)
	}

	trainX, trainY := subset(X, y, perm[holdout:])
	validX, validY := subset(X, y, perm[:holdout])

	if !bothClasses(trainY) {
		return nil, fmt.Errorf("%w: training labels contain a single class", ErrDegenerateTrainingSet)
	}

	scaler := FitScaler(trainX)
	trainX = scaler.TransformAll(trainX)
	validX = scaler.TransformAll(validX)

	params := cfg.Forest
	params.Seed = cfg.Seed
	forest, err := FitForest(trainX, trainY, params)
	if err != nil {
		return nil, err
	}

	return &TrainedModel{
		version:   uuid.New(),
		trainedAt: time.Now().UTC(),
		encoder:   encoder,
		scaler:    scaler,
		forest:    forest,
		metrics: Metrics{
			TrainAccuracy:      forest.Accuracy(trainX, trainY),
			ValidationAccuracy: forest.Accuracy(validX, validY),
			TrainSize:          len(trainX),
			ValidationSize:     len(validX),
			PositiveRate:       stat.Mean(labels, nil),
		},
	}, nil
}

// PredictProbability returns the estimated conversion probability in [0, 1].
func (m *TrainedModel) PredictProbability(lead domain.RawLead) float64 {
	return m.forest.PredictProbability(m.Features(lead))
}

// Features returns the encoded and scaled vector the forest sees for lead.
func (m *TrainedModel) Features(lead domain.RawLead) FeatureVector {
	return m.scaler.Transform(Encode(lead, m.encoder))
}

func (m *TrainedModel) Version() uuid.UUID {
	return m.version
}

func (m *TrainedModel) TrainedAt() time.Time {
	return m.trainedAt
}

func (m *TrainedModel) Metrics() Metrics {
	return m.metrics
}

func (m *TrainedModel) Encoder() *CategoryEncoder {
	return m.encoder
}

func (m *TrainedModel) Scaler() ScalerState {
	return m.scaler
}

func (m *TrainedModel) Forest() *Forest {
	return m.forest
}

func subset(X []FeatureVector, y []bool, idx []int) ([]FeatureVector, []bool) {
	sx := make([]FeatureVector, len(idx))
	sy := make([]bool, len(idx))
	for k, i := range idx {
		sx[k] = X[i]
		sy[k] = y[i]
	}
	return sx, sy
}

func bothClasses(y []bool) bool {
	var pos, neg bool
	for _, v := range y {
		if v {
			pos = true
		} else {
			neg = true
		}
		if pos && neg {
			return true
		}
	}
	return false
}
