package service

import (
	"cmp"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"lead-scorer/domain"
	"lead-scorer/model"
	"lead-scorer/repository"
)

// ModelState tracks the lifecycle of the service's trained model.
type ModelState int32

const (
	ModelUntrained ModelState = iota
	ModelTraining
	ModelTrained
)

func (s ModelState) String() string {
	switch s {
	case ModelTraining:
		return "training"
	case ModelTrained:
		return "trained"
	default:
		return "untrained"
	}
}

// ModelInfo describes the trained model for dashboards.
type ModelInfo struct {
	State        string        `json:"state"`
	Version      string        `json:"version,omitempty"`
	TrainedAt    *time.Time    `json:"trained_at,omitempty"`
	Metrics      model.Metrics `json:"metrics"`
	FeaturesUsed []string      `json:"features_used"`
	LoanTypes    []string      `json:"loan_types,omitempty"`
	Trees        int           `json:"trees"`
	MaxDepth     int           `json:"max_depth"`
	TrainingRuns int64         `json:"training_runs"`
}

type trainFunc func(model.TrainConfig) (*model.TrainedModel, error)

// LeadScoringService owns the trained model. The first caller that needs it
// trains it; concurrent callers share that single run.
type LeadScoringService struct {
	cfg    model.TrainConfig
	cache  repository.CacheRepository
	demo   *DemoLeadGenerator
	logger *slog.Logger
	train  trainFunc

	current atomic.Pointer[model.TrainedModel]
	state   atomic.Int32
	runs    atomic.Int64
	flight  singleflight.Group
}

// NewLeadScoringService creates an untrained LeadScoringService.
func NewLeadScoringService(
	cfg model.TrainConfig,
	cache repository.CacheRepository,
	demo *DemoLeadGenerator,
	logger *slog.Logger,
) *LeadScoringService {
	if cache == nil {
		cache = repository.NewMemoryCache()
	}
	if demo == nil {
		demo = NewDemoLeadGenerator(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LeadScoringService{
		cfg:    cfg,
		cache:  cache,
		demo:   demo,
		logger: logger,
		train:  model.Train,
	}
}

// Warmup trains the model if it does not exist yet.
func (s *LeadScoringService) Warmup(ctx context.Context) error {
	_, err := s.Model(ctx)
	return err
}

// Model returns the trained model, training it on first use. If ctx ends while
// waiting, the caller gets ctx.Err() and training carries on for the others.
func (s *LeadScoringService) Model(ctx context.Context) (*model.TrainedModel, error) {
	if m := s.current.Load(); m != nil {
		return m, nil
	}

	ch := s.flight.DoChan("train", func() (any, error) {
		if m := s.current.Load(); m != nil {
			return m, nil
		}
		return s.trainOnce(ctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrModelNotAvailable, res.Err)
		}
		return res.Val.(*model.TrainedModel), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *LeadScoringService) trainOnce(ctx context.Context) (*model.TrainedModel, error) {
	s.state.Store(int32(ModelTraining))
	s.runs.Add(1)
	start := time.Now()

	s.logger.InfoContext(ctx, "training lead scoring model",
		"samples", s.cfg.SampleCount,
		"trees", s.cfg.Forest.Trees,
		"seed", s.cfg.Seed,
	)

	m, err := s.train(s.cfg)
	if err != nil {
		s.state.Store(int32(ModelUntrained))
		s.logger.ErrorContext(ctx, "model training failed", "error", err)
		return nil, err
	}

	s.current.Store(m)
	s.state.Store(int32(ModelTrained))

	metrics := m.Metrics()
	s.logger.InfoContext(ctx, "model trained",
		"version", m.Version(),
		"train_accuracy", fmt.Sprintf("%.3f", metrics.TrainAccuracy),
		"validation_accuracy", fmt.Sprintf("%.3f", metrics.ValidationAccuracy),
		"duration", time.Since(start),
	)
	return m, nil
}

// Score returns the conversion probability of lead as a percentage rounded
// to one decimal place.
func (s *LeadScoringService) Score(ctx context.Context, lead domain.RawLead) (float64, error) {
	m, err := s.Model(ctx)
	if err != nil {
		return 0, err
	}

	key := cacheKey(m, lead)
	if cached, ok := s.cache.Get(key); ok {
		if score, err := strconv.ParseFloat(cached, 64); err == nil {
			return score, nil
		}
	}

	score := ProbabilityPercentage(m.PredictProbability(lead))

	// La caché no es crítica
	if err := s.cache.Set(key, strconv.FormatFloat(score, 'f', 1, 64)); err != nil {
		s.logger.WarnContext(ctx, "failed to cache lead score", "error", err)
	}

	return score, nil
}

// ScoreLead scores a lead and tags it with its urgency tier.
func (s *LeadScoringService) ScoreLead(ctx context.Context, lead domain.Lead) (domain.ScoredLead, error) {
	score, err := s.Score(ctx, lead.RawLead)
	if err != nil {
		return domain.ScoredLead{}, err
	}
	lead.ProbabilityScore = &score
	return domain.ScoredLead{Lead: lead, Urgency: domain.UrgencyFor(score)}, nil
}

// ScoreBatch draws n demo leads, scores them and sorts them by score,
// highest first.
func (s *LeadScoringService) ScoreBatch(ctx context.Context, n int) ([]domain.ScoredLead, error) {
	if n < 1 || n > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d (must be 1..%d)", domain.ErrInvalidBatchSize, n, MaxBatchSize)
	}

	leads := s.demo.Generate(n)
	scored := make([]domain.ScoredLead, 0, n)
	for _, lead := range leads {
		sl, err := s.ScoreLead(ctx, lead)
		if err != nil {
			return nil, err
		}
		scored = append(scored, sl)
	}

	slices.SortStableFunc(scored, func(a, b domain.ScoredLead) int {
		return cmp.Compare(*b.ProbabilityScore, *a.ProbabilityScore)
	})

	return scored, nil
}

func (s *LeadScoringService) State() ModelState {
	return ModelState(s.state.Load())
}

// TrainingRuns counts how many times training has been started.
func (s *LeadScoringService) TrainingRuns() int64 {
	return s.runs.Load()
}

// ModelInfo reports the current model without triggering training.
func (s *LeadScoringService) ModelInfo() ModelInfo {
	info := ModelInfo{
		State:        s.State().String(),
		FeaturesUsed: slices.Clone(model.FeatureNames[:]),
		Trees:        s.cfg.Forest.Trees,
		MaxDepth:     s.cfg.Forest.MaxDepth,
		TrainingRuns: s.TrainingRuns(),
	}

	m := s.current.Load()
	if m == nil {
		return info
	}

	trainedAt := m.TrainedAt()
	info.Version = m.Version().String()
	info.TrainedAt = &trainedAt
	info.Metrics = m.Metrics()
	info.LoanTypes = m.Encoder().Classes()
	return info
}

// ProbabilityPercentage converts a probability to a percentage with one
// decimal place, bounded to [0, 100].
func ProbabilityPercentage(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	pct := math.Round(p*1000) / 10
	return math.Max(0, math.Min(100, pct))
}

// cacheKey identifies a score by model version and encoded features, so two
// leads that encode identically share an entry.
func cacheKey(m *model.TrainedModel, lead domain.RawLead) string {
	v := model.Encode(lead, m.Encoder())

	d := xxhash.New()
	var buf [8]byte
	for _, x := range v {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
		_, _ = d.Write(buf[:])
	}
	return m.Version().String() + ":" + strconv.FormatUint(d.Sum64(), 16)
}

// roundTo2Decimals redondea un float64 a 2 decimales
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}
