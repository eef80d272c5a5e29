package importance

import (
	"gonum.org/v1/gonum/mat"
)

// PFI is permutation feature importance: the columns of a group are jointly
// permuted on the test partition with one shared row permutation, and the
// importance is the mean increase in test loss over the baseline.
//
// PFI measures marginal dependence. A feature the model relies on through a
// correlated proxy still scores high; use CPI to test conditional relevance.
type PFI struct {
	repetitions int
}

// PFIOption configures a PFI strategy.
type PFIOption func(*PFI)

// WithPFIRepetitions sets how many independent permutations are averaged per
// (group, fold) pair. The default is 5.
func WithPFIRepetitions(reps int) PFIOption {
	return func(p *PFI) {
		if reps > 0 {
			p.repetitions = reps
		}
	}
}

// NewPFI builds a PFI strategy.
func NewPFI(opts ...PFIOption) *PFI {
	p := &PFI{repetitions: 5}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the strategy identifier.
func (p *PFI) Name() string { return "pfi" }

// GroupScores permutes each group on the fold's test partition and scores
// the resulting loss inflation. The same permutation is applied to every
// column of a group, so within-group structure is preserved while the joint
// association with the target is broken.
func (p *PFI) GroupScores(fc *FoldContext) ([]float64, []error) {
	scores := make([]float64, len(fc.Groups))
	errs := make([]error, len(fc.Groups))

	n, _ := fc.TestX.Dims()
	for gi, group := range fc.Groups {
		work := mat.DenseCopyOf(fc.TestX)
		var total float64
		for rep := 0; rep < p.repetitions; rep++ {
			perm := fc.Stream(gi, rep).Perm(n)
			for i, src := range perm {
				for _, col := range group.Columns {
					work.Set(i, col, fc.TestX.At(src, col))
				}
			}
			loss, err := lossOnChannel(fc, fc.Model, work)
			if err != nil {
				errs[gi] = err
				break
			}
			total += loss
		}
		if errs[gi] != nil {
			continue
		}
		scores[gi] = total/float64(p.repetitions) - fc.Baseline
	}
	return scores, errs
}
