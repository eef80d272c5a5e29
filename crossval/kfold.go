// Package crossval provides cross-validation fold generators. A fold is a
// disjoint train/test partition of sample indices; the folds of one split
// cover every sample exactly once as a test sample.
package crossval

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Fold represents a single fold in cross-validation.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// Splitter defines the interface for cross-validation splitters.
type Splitter interface {
	Split(X, y mat.Matrix) []Fold
	NSplits() int
}

// KFold implements k-fold cross-validation.
type KFold struct {
	nSplits    int
	shuffle    bool
	randomSeed int64
}

// NewKFold creates a new k-fold splitter. The requested split count is kept
// as given; callers validate it through NSplits before splitting, since fewer
// than 2 splits cannot produce a train/test partition.
func NewKFold(nSplits int, shuffle bool, randomSeed int64) *KFold {
	return &KFold{
		nSplits:    nSplits,
		shuffle:    shuffle,
		randomSeed: randomSeed,
	}
}

// NSplits returns the number of splits.
func (kf *KFold) NSplits() int {
	return kf.nSplits
}

// Split generates train/test indices for each fold.
func (kf *KFold) Split(X, _ mat.Matrix) []Fold {
	nSamples, _ := X.Dims()

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	if kf.shuffle {
		r := rand.New(rand.NewPCG(uint64(kf.randomSeed), uint64(kf.randomSeed)))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.nSplits)
	foldSize := nSamples / kf.nSplits
	remainder := nSamples % kf.nSplits

	currentIdx := 0
	for i := 0; i < kf.nSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		testIndices := make([]int, testSize)
		copy(testIndices, indices[currentIdx:currentIdx+testSize])

		folds[i] = Fold{
			TestIndices:  testIndices,
			TrainIndices: complement(indices, testIndices, nSamples),
		}

		currentIdx += testSize
	}

	return folds
}

// StratifiedKFold implements stratified k-fold cross-validation: each fold's
// test set preserves the class proportions of y.
type StratifiedKFold struct {
	nSplits    int
	shuffle    bool
	randomSeed int64
}

// NewStratifiedKFold creates a new stratified k-fold splitter. As with
// NewKFold, the split count is kept as given and validated by the caller.
func NewStratifiedKFold(nSplits int, shuffle bool, randomSeed int64) *StratifiedKFold {
	return &StratifiedKFold{
		nSplits:    nSplits,
		shuffle:    shuffle,
		randomSeed: randomSeed,
	}
}

// NSplits returns the number of splits.
func (skf *StratifiedKFold) NSplits() int {
	return skf.nSplits
}

// Split generates stratified train/test indices for each fold.
func (skf *StratifiedKFold) Split(X, y mat.Matrix) []Fold {
	nSamples, _ := X.Dims()

	// Group indices by class, preserving first-seen class order so the
	// split is deterministic.
	classOrder := make([]float64, 0)
	classIndices := make(map[float64][]int)
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		if _, ok := classIndices[label]; !ok {
			classOrder = append(classOrder, label)
		}
		classIndices[label] = append(classIndices[label], i)
	}

	if skf.shuffle {
		r := rand.New(rand.NewPCG(uint64(skf.randomSeed), uint64(skf.randomSeed)))
		for _, label := range classOrder {
			indices := classIndices[label]
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	folds := make([]Fold, skf.nSplits)

	// Distribute each class across folds.
	for _, label := range classOrder {
		indices := classIndices[label]
		nClass := len(indices)
		foldSize := nClass / skf.nSplits
		remainder := nClass % skf.nSplits

		currentIdx := 0
		for i := 0; i < skf.nSplits; i++ {
			testSize := foldSize
			if i < remainder {
				testSize++
			}
			for j := 0; j < testSize && currentIdx < nClass; j++ {
				folds[i].TestIndices = append(folds[i].TestIndices, indices[currentIdx])
				currentIdx++
			}
		}
	}

	// Build train sets (all samples not in test).
	for i := range folds {
		testSet := make(map[int]bool, len(folds[i].TestIndices))
		for _, idx := range folds[i].TestIndices {
			testSet[idx] = true
		}
		for j := 0; j < nSamples; j++ {
			if !testSet[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
	}

	return folds
}

// complement returns all members of indices that are not test indices.
func complement(indices, testIndices []int, nSamples int) []int {
	testSet := make(map[int]bool, len(testIndices))
	for _, idx := range testIndices {
		testSet[idx] = true
	}

	train := make([]int, 0, nSamples-len(testIndices))
	for _, idx := range indices {
		if !testSet[idx] {
			train = append(train, idx)
		}
	}
	return train
}
