package importance

import (
	"gonum.org/v1/gonum/mat"

	"github.com/scigolab/varimp/core/model"
	"github.com/scigolab/varimp/dataset"
	"github.com/scigolab/varimp/linear"
	"github.com/scigolab/varimp/pkg/errors"
)

// CPI is conditional permutation importance. For each group an auxiliary
// model learns to predict the group's columns from the remaining features on
// the training partition. On the test partition the group is then replaced by
// its conditional prediction plus permuted residuals, which breaks the
// conditional association with the target while preserving the group's
// dependence on the other features. The importance is the mean increase in
// test loss over the baseline.
//
// Under conditional independence of group and target given the rest, the CPI
// score has mean zero, which makes the downstream one-sided t-test valid for
// correlated features where plain PFI inflates.
type CPI struct {
	repetitions int
	aux         model.Factory
}

// CPIOption configures a CPI strategy.
type CPIOption func(*CPI)

// WithCPIRepetitions sets how many residual permutations are averaged per
// (group, fold) pair. The default is 5.
func WithCPIRepetitions(reps int) CPIOption {
	return func(c *CPI) {
		if reps > 0 {
			c.repetitions = reps
		}
	}
}

// WithAuxiliary replaces the default ridge auxiliary model. The factory must
// produce estimators that accept a multi-column target, one column per
// feature in the scored group.
func WithAuxiliary(aux model.Factory) CPIOption {
	return func(c *CPI) { c.aux = aux }
}

// NewCPI builds a CPI strategy. Without options the auxiliary model is a
// lightly regularized multi-output ridge regression.
func NewCPI(opts ...CPIOption) *CPI {
	c := &CPI{
		repetitions: 5,
		aux: func() model.Estimator {
			return linear.NewRidge(linear.WithAlpha(1e-2))
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the strategy identifier.
func (c *CPI) Name() string { return "cpi" }

// GroupScores scores every group by conditional permutation. An auxiliary
// model that fails to fit marks only its own group missing; the remaining
// groups are still scored.
func (c *CPI) GroupScores(fc *FoldContext) ([]float64, []error) {
	scores := make([]float64, len(fc.Groups))
	errs := make([]error, len(fc.Groups))

	n, _ := fc.TestX.Dims()
	for gi, group := range fc.Groups {
		predicted, residuals, err := c.conditional(fc, group)
		if err != nil {
			errs[gi] = err
			continue
		}

		work := mat.DenseCopyOf(fc.TestX)
		var total float64
		for rep := 0; rep < c.repetitions; rep++ {
			perm := fc.Stream(gi, rep).Perm(n)
			for i, src := range perm {
				for j, col := range group.Columns {
					work.Set(i, col, predicted.At(i, j)+residuals.At(src, j))
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
		scores[gi] = total/float64(c.repetitions) - fc.Baseline
	}
	return scores, errs
}

// conditional fits the auxiliary model for one group on the training
// partition and returns its test-partition predictions together with the
// test residuals.
func (c *CPI) conditional(fc *FoldContext, group dataset.Group) (*mat.Dense, *mat.Dense, error) {
	trainRest := dataset.DropColumns(fc.TrainX, group.Columns)
	trainGroup := dataset.SelectColumns(fc.TrainX, group.Columns)

	aux := c.aux()
	if err := errors.SafeExecute("auxiliary model fit", func() error {
		return aux.Fit(trainRest, trainGroup)
	}); err != nil {
		return nil, nil, errors.NewEstimatorFitError("auxiliary", fc.Fold, err)
	}

	testRest := dataset.DropColumns(fc.TestX, group.Columns)
	testGroup := dataset.SelectColumns(fc.TestX, group.Columns)
	raw, err := aux.Predict(testRest)
	if err != nil {
		return nil, nil, errors.NewEstimatorFitError("auxiliary", fc.Fold, err)
	}

	n, k := testGroup.Dims()
	predicted := mat.DenseCopyOf(raw)
	residuals := mat.NewDense(n, k, nil)
	residuals.Sub(testGroup, predicted)
	return predicted, residuals, nil
}
