package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitScaler_MeanAndStdDev(t *testing.T) {
	rows := []FeatureVector{
		{1, 10, 0, 0, 0, 0, 0},
		{2, 20, 0, 0, 0, 0, 0},
		{3, 30, 0, 0, 0, 0, 0},
	}

	s := FitScaler(rows)

	assert.InDelta(t, 2.0, s.Mean[0], 1e-9)
	assert.InDelta(t, 20.0, s.Mean[1], 1e-9)
	assert.InDelta(t, 1.0, s.StdDev[0], 1e-9)
	assert.InDelta(t, 10.0, s.StdDev[1], 1e-9)

	out := s.Transform(rows[2])
	assert.InDelta(t, 1.0, out[0], 1e-9)
	assert.InDelta(t, 1.0, out[1], 1e-9)
}

func TestFitScaler_ZeroVarianceColumn(t *testing.T) {
	rows := []FeatureVector{
		{5, 1, 1, 1, 1, 1, 1},
		{5, 2, 1, 1, 1, 1, 1},
	}

	s := FitScaler(rows)

	assert.Equal(t, 1.0, s.StdDev[0])
	out := s.Transform(FeatureVector{7, 1, 1, 1, 1, 1, 1})
	for j, x := range out {
		assert.False(t, math.IsNaN(x) || math.IsInf(x, 0), "column %d not finite", j)
	}
	assert.InDelta(t, 2.0, out[0], 1e-9)
}

func TestFitScaler_SingleRow(t *testing.T) {
	s := FitScaler([]FeatureVector{{1, 2, 3, 4, 5, 6, 7}})

	out := s.Transform(FeatureVector{1, 2, 3, 4, 5, 6, 7})
	assert.Equal(t, FeatureVector{}, out)
}

func TestScalerState_ZeroValueIsSafe(t *testing.T) {
	var s ScalerState

	out := s.Transform(FeatureVector{1, 2, 3, 4, 5, 6, 7})
	assert.Equal(t, FeatureVector{1, 2, 3, 4, 5, 6, 7}, out)
}
