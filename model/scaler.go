package model

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ScalerState holds the per-column statistics learned at training time.
type ScalerState struct {
	Mean   FeatureVector
	StdDev FeatureVector
}

// FitScaler computes column means and standard deviations. Columns with no
// spread get a standard deviation of 1 so Transform never divides by zero.
func FitScaler(rows []FeatureVector) ScalerState {
	var state ScalerState
	for j := range state.StdDev {
		state.StdDev[j] = 1
	}
	if len(rows) == 0 {
		return state
	}

	col := make([]float64, len(rows))
	for j := 0; j < FeatureCount; j++ {
		for i, row := range rows {
			col[i] = row[j]
		}

		mean, std := stat.MeanStdDev(col, nil)
		state.Mean[j] = mean
		if std > 0 && !math.IsNaN(std) {
			state.StdDev[j] = std
		}
	}
	return state
}

// Transform standardizes v column by column.
func (s ScalerState) Transform(v FeatureVector) FeatureVector {
	var out FeatureVector
	for j := range v {
		sd := s.StdDev[j]
		if sd == 0 || math.IsNaN(sd) {
			sd = 1
		}
		out[j] = (v[j] - s.Mean[j]) / sd
	}
	return out
}

// TransformAll standardizes every row.
func (s ScalerState) TransformAll(rows []FeatureVector) []FeatureVector {
	out := make([]FeatureVector, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
