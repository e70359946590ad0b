package repository

import "lead-scorer/domain"

// ScoreRepository records scored leads outside the scoring core.
type ScoreRepository interface {
	Save(lead domain.Lead) error
	List(limit int) ([]domain.Lead, error)
}
