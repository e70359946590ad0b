package repository

import (
	"slices"
	"sync"

	"lead-scorer/domain"
)

// ScoreRepositoryMemory is an in-memory implementation of ScoreRepository.
type ScoreRepositoryMemory struct {
	mu   sync.Mutex
	data []domain.Lead
}

// NewScoreRepositoryMemory creates a new in-memory score repository.
func NewScoreRepositoryMemory() *ScoreRepositoryMemory {
	return &ScoreRepositoryMemory{
		data: []domain.Lead{},
	}
}

// Save stores the scored lead in memory.
func (r *ScoreRepositoryMemory) Save(lead domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, lead)
	return nil
}

// List returns up to limit leads, most recent first. limit <= 0 returns all.
func (r *ScoreRepositoryMemory) List(limit int) ([]domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := slices.Clone(r.data)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
