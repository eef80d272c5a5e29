// Package neighbors implements instance-based learners.
package neighbors

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/scigolab/varimp/core/model"
	"github.com/scigolab/varimp/pkg/errors"
)

// KNNClassifier implements k-nearest-neighbour classification with Euclidean
// distance and majority vote. Unlike linear models it captures feature
// interactions, which makes it the reference learner for interaction-driven
// targets in this module's tests and examples.
//
// Prediction is fully deterministic: neighbours are ranked by (distance,
// training index) and vote ties resolve to the smallest class label.
type KNNClassifier struct {
	model.BaseEstimator

	// Hyperparameters
	k int

	// Training data, retained as-is (lazy learner).
	trainX  *mat.Dense
	trainY  []int
	classes []int

	nFeatures int
}

// KNNOption is a functional option for KNNClassifier.
type KNNOption func(*KNNClassifier)

// WithK sets the number of neighbours (default 5).
func WithK(k int) KNNOption {
	return func(c *KNNClassifier) {
		c.k = k
	}
}

// NewKNNClassifier creates a new k-nearest-neighbour classifier.
func NewKNNClassifier(opts ...KNNOption) *KNNClassifier {
	c := &KNNClassifier{k: 5}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clone returns an unfitted classifier with the same hyperparameters.
func (c *KNNClassifier) Clone() *KNNClassifier {
	return NewKNNClassifier(WithK(c.k))
}

// Fit stores the training data. Labels are read from the first column of y
// and must be integral.
func (c *KNNClassifier) Fit(X, y mat.Matrix) error {
	r, cols := X.Dims()
	ry, _ := y.Dims()

	if r == 0 || cols == 0 {
		return errors.NewValueError("KNNClassifier.Fit", "empty data")
	}
	if ry != r {
		return errors.NewDimensionError("KNNClassifier.Fit", r, ry, 0)
	}
	if c.k < 1 {
		return errors.NewValueError("KNNClassifier.Fit", "k must be at least 1")
	}
	if c.k > r {
		return errors.NewValueError("KNNClassifier.Fit", "k exceeds number of training samples")
	}

	c.trainX = mat.NewDense(r, cols, nil)
	c.trainX.Copy(X)

	c.trainY = make([]int, r)
	classSet := map[int]bool{}
	for i := 0; i < r; i++ {
		label := y.At(i, 0)
		if label != math.Trunc(label) {
			return errors.NewValueError("KNNClassifier.Fit", "class labels must be integral")
		}
		c.trainY[i] = int(label)
		classSet[int(label)] = true
	}

	c.classes = make([]int, 0, len(classSet))
	for label := range classSet {
		c.classes = append(c.classes, label)
	}
	sort.Ints(c.classes)

	c.nFeatures = cols
	c.SetFitted()
	return nil
}

// Predict returns the majority-vote class label for each row of X.
func (c *KNNClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}

	r, _ := X.Dims()
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		best := 0
		for ci := 1; ci < len(c.classes); ci++ {
			// Strict inequality keeps ties on the smallest class label.
			if proba.At(i, ci) > proba.At(i, best) {
				best = ci
			}
		}
		predictions.Set(i, 0, float64(c.classes[best]))
	}
	return predictions, nil
}

// PredictProba returns neighbour-frequency class probabilities, one column
// per class in Classes() order.
func (c *KNNClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("KNNClassifier", "PredictProba")
	}

	r, cols := X.Dims()
	if cols != c.nFeatures {
		return nil, errors.NewDimensionError("KNNClassifier.PredictProba", c.nFeatures, cols, 1)
	}

	classIndex := make(map[int]int, len(c.classes))
	for ci, label := range c.classes {
		classIndex[label] = ci
	}

	nTrain, _ := c.trainX.Dims()
	proba := mat.NewDense(r, len(c.classes), nil)

	type neighbour struct {
		dist float64
		idx  int
	}

	for i := 0; i < r; i++ {
		neighbours := make([]neighbour, nTrain)
		for j := 0; j < nTrain; j++ {
			var d float64
			for f := 0; f < c.nFeatures; f++ {
				diff := X.At(i, f) - c.trainX.At(j, f)
				d += diff * diff
			}
			neighbours[j] = neighbour{dist: d, idx: j}
		}

		sort.Slice(neighbours, func(a, b int) bool {
			if neighbours[a].dist != neighbours[b].dist {
				return neighbours[a].dist < neighbours[b].dist
			}
			return neighbours[a].idx < neighbours[b].idx
		})

		for _, nb := range neighbours[:c.k] {
			ci := classIndex[c.trainY[nb.idx]]
			proba.Set(i, ci, proba.At(i, ci)+1)
		}
		for ci := range c.classes {
			proba.Set(i, ci, proba.At(i, ci)/float64(c.k))
		}
	}

	return proba, nil
}

// Score returns the accuracy on the given data.
func (c *KNNClassifier) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := c.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	var correct float64
	for i := 0; i < r; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return correct / float64(r), nil
}

// Classes returns the unique class labels seen during fitting, ascending.
func (c *KNNClassifier) Classes() []int {
	out := make([]int, len(c.classes))
	copy(out, c.classes)
	return out
}
