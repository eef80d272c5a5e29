package importance

import (
	"github.com/scigolab/varimp/dataset"
	"github.com/scigolab/varimp/pkg/errors"
)

// LOCO is leave-one-covariate-out importance: for each group a fresh
// estimator is refitted on the training partition with the group's columns
// removed, and the importance is the reduced model's test loss minus the full
// model's baseline.
//
// LOCO is the most expensive strategy, one refit per (group, fold) pair, but
// it measures the loss actually recoverable from the remaining features
// rather than the behavior of a single fitted model under input distortion.
type LOCO struct{}

// NewLOCO builds a LOCO strategy.
func NewLOCO() *LOCO { return &LOCO{} }

// Name returns the strategy identifier.
func (l *LOCO) Name() string { return "loco" }

// GroupScores refits the base estimator without each group in turn. A
// reduced model that fails to fit marks only its own group missing.
func (l *LOCO) GroupScores(fc *FoldContext) ([]float64, []error) {
	scores := make([]float64, len(fc.Groups))
	errs := make([]error, len(fc.Groups))

	for gi, group := range fc.Groups {
		reducedTrain := dataset.DropColumns(fc.TrainX, group.Columns)
		reducedTest := dataset.DropColumns(fc.TestX, group.Columns)

		reduced := fc.Factory()
		if err := errors.SafeExecute("reduced model fit", func() error {
			return reduced.Fit(reducedTrain, fc.TrainY)
		}); err != nil {
			errs[gi] = errors.NewEstimatorFitError("reduced", fc.Fold, err)
			continue
		}

		loss, err := lossOnChannel(fc, reduced, reducedTest)
		if err != nil {
			errs[gi] = err
			continue
		}
		scores[gi] = loss - fc.Baseline
	}
	return scores, errs
}
