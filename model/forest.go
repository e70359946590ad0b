package model

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
)

// ForestParams configures the random forest.
type ForestParams struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	// MaxFeatures is the number of candidate features per split; 0 means
	// floor(sqrt(FeatureCount)).
	MaxFeatures int
	// Workers bounds concurrent tree fitting; 0 means GOMAXPROCS.
	Workers int
	Seed    uint64
}

func DefaultForestParams() ForestParams {
	return ForestParams{
		Trees:           100,
		MaxDepth:        10,
		MinSamplesSplit: 2,
		Seed:            42,
	}
}

func (p ForestParams) validate() error {
	if p.Trees < 1 {
		return fmt.Errorf("%w: trees=%d", ErrInvalidParams, p.Trees)
	}
	if p.MaxDepth < 1 {
		return fmt.Errorf("%w: max_depth=%d", ErrInvalidParams, p.MaxDepth)
	}
	if p.MaxFeatures < 0 || p.MaxFeatures > FeatureCount {
		return fmt.Errorf("%w: max_features=%d", ErrInvalidParams, p.MaxFeatures)
	}
	return nil
}

func (p ForestParams) maxFeatures() int {
	if p.MaxFeatures > 0 {
		return p.MaxFeatures
	}
	return max(1, int(math.Sqrt(FeatureCount)))
}

func (p ForestParams) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Forest is a fitted bagged ensemble of classification trees.
type Forest struct {
	trees  []tree
	params ForestParams
}

// FitForest grows params.Trees trees on bootstrap resamples of (X, y). Each
// tree draws from its own stream of the seed, so the result does not depend
// on goroutine scheduling.
func FitForest(X []FeatureVector, y []bool, params ForestParams) (*Forest, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrDimensionMismatch, len(X), len(y))
	}
	if len(X) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrDegenerateTrainingSet)
	}
	if params.MinSamplesSplit < 2 {
		params.MinSamplesSplit = 2
	}

	trees := make([]tree, params.Trees)

	var g errgroup.Group
	g.SetLimit(params.workers())

	for i := range trees {
		g.Go(func() error {
			b := &treeBuilder{
				X:           X,
				y:           y,
				rng:         newRand(params.Seed, treeStream+uint64(i)),
				maxDepth:    params.MaxDepth,
				minSplit:    params.MinSamplesSplit,
				maxFeatures: params.maxFeatures(),
			}
			trees[i] = b.grow(b.bootstrap(len(X)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fit forest: %w", err)
	}

	return &Forest{trees: trees, params: params}, nil
}

// PredictProbability is the mean positive-class fraction of the leaves v
// falls into, one per tree.
func (f *Forest) PredictProbability(v FeatureVector) float64 {
	if f == nil || len(f.trees) == 0 {
		return 0
	}
	var sum float64
	for i := range f.trees {
		sum += f.trees[i].predict(v)
	}
	return sum / float64(len(f.trees))
}

// Predict reports whether the positive class wins the vote.
func (f *Forest) Predict(v FeatureVector) bool {
	return f.PredictProbability(v) > 0.5
}

// Accuracy is the fraction of rows whose predicted class matches the label.
func (f *Forest) Accuracy(X []FeatureVector, y []bool) float64 {
	if len(X) == 0 {
		return 0
	}
	hits := 0
	for i := range X {
		if f.Predict(X[i]) == y[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(X))
}

func (f *Forest) Size() int {
	return len(f.trees)
}

func (f *Forest) Params() ForestParams {
	return f.params
}

const leafFeature = -1

type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	prob      float64
}

type tree struct {
	nodes []node
}

func (t *tree) predict(v FeatureVector) float64 {
	i := 0
	for t.nodes[i].feature != leafFeature {
		n := &t.nodes[i]
		if v[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
	return t.nodes[i].prob
}

type treeBuilder struct {
	X           []FeatureVector
	y           []bool
	rng         *rand.Rand
	maxDepth    int
	minSplit    int
	maxFeatures int
	nodes       []node
}

func (b *treeBuilder) bootstrap(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = b.rng.IntN(n)
	}
	return idx
}

func (b *treeBuilder) grow(idx []int) tree {
	b.nodes = b.nodes[:0]
	b.split(idx, 0)
	return tree{nodes: slices.Clip(b.nodes)}
}

// split appends the subtree for idx and returns its root position.
func (b *treeBuilder) split(idx []int, depth int) int {
	pos := b.positives(idx)
	id := len(b.nodes)
	b.nodes = append(b.nodes, node{
		feature: leafFeature,
		prob:    float64(pos) / float64(len(idx)),
	})

	if depth >= b.maxDepth || len(idx) < b.minSplit || pos == 0 || pos == len(idx) {
		return id
	}

	feature, threshold, ok := b.bestSplit(idx, pos)
	if !ok {
		return id
	}

	var left, right []int
	for _, i := range idx {
		if b.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.split(left, depth+1)
	r := b.split(right, depth+1)

	b.nodes[id].feature = feature
	b.nodes[id].threshold = threshold
	b.nodes[id].left = l
	b.nodes[id].right = r
	return id
}

func (b *treeBuilder) positives(idx []int) int {
	n := 0
	for _, i := range idx {
		if b.y[i] {
			n++
		}
	}
	return n
}

// bestSplit draws features in random order and evaluates them until
// maxFeatures non-constant ones have been tried.
func (b *treeBuilder) bestSplit(idx []int, pos int) (int, float64, bool) {
	bestFeature, bestThreshold := -1, 0.0
	bestImpurity := math.Inf(1)

	sorted := slices.Clone(idx)
	tried := 0

	for _, f := range b.rng.Perm(FeatureCount) {
		if tried >= b.maxFeatures {
			break
		}

		slices.SortFunc(sorted, func(a, c int) int {
			switch {
			case b.X[a][f] < b.X[c][f]:
				return -1
			case b.X[a][f] > b.X[c][f]:
				return 1
			}
			return 0
		})

		if b.X[sorted[0]][f] == b.X[sorted[len(sorted)-1]][f] {
			continue
		}
		tried++

		n := len(sorted)
		leftPos := 0
		for k := 0; k < n-1; k++ {
			if b.y[sorted[k]] {
				leftPos++
			}
			lo, hi := b.X[sorted[k]][f], b.X[sorted[k+1]][f]
			if lo == hi {
				continue
			}

			leftN := k + 1
			rightN := n - leftN
			impurity := float64(leftN)*gini(leftPos, leftN) + float64(rightN)*gini(pos-leftPos, rightN)
			if impurity < bestImpurity {
				bestImpurity = impurity
				bestFeature = f
				bestThreshold = lo + (hi-lo)/2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func gini(pos, n int) float64 {
	p := float64(pos) / float64(n)
	return 1 - p*p - (1-p)*(1-p)
}
