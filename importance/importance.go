// Package importance implements cross-fitted variable importance estimation
// with finite-sample error control.
//
// A run iterates over K cross-validation folds. On each fold a base estimator
// is trained on the training partition, and an interchangeable strategy
// (permutation, conditional permutation, or leave-one-covariate-out) scores
// every feature group on the held-out test partition. The per-fold, per-group
// scores form the sample reduced by the inference package into one-sided
// p-values against the null hypothesis of zero mean importance.
package importance

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/scigolab/varimp/core/model"
	"github.com/scigolab/varimp/core/random"
	"github.com/scigolab/varimp/dataset"
	"github.com/scigolab/varimp/inference"
	"github.com/scigolab/varimp/metrics"
	"github.com/scigolab/varimp/pkg/errors"
)

// Record is one importance measurement: a (group, fold, value) tuple.
// A Missing record marks a (group, fold) pair whose auxiliary or reduced
// model failed to fit; its value carries no information and is excluded from
// aggregation rather than treated as zero.
type Record struct {
	Group   string
	Fold    int
	Value   float64
	Missing bool
}

// Result collects everything a run produced: the importance records in
// deterministic fold-major order, the per-fold fitted models (retained so a
// caller can reuse them across strategies on the same folds), and the
// non-fatal warnings gathered along the way.
type Result struct {
	Strategy string
	Groups   dataset.Groups
	Folds    int
	Records  []Record
	Models   []model.Estimator
	Warnings []error
}

// ValuesFor returns the non-missing importance values of one group, in fold
// order.
func (r *Result) ValuesFor(group string) []float64 {
	var values []float64
	for _, rec := range r.Records {
		if rec.Group == group && !rec.Missing {
			values = append(values, rec.Value)
		}
	}
	return values
}

// MissingCount returns the number of missing (group, fold) records.
func (r *Result) MissingCount() int {
	var missing int
	for _, rec := range r.Records {
		if rec.Missing {
			missing++
		}
	}
	return missing
}

// Significance reduces the records to one inference result per group, in
// group order. It is a pure function of the records: calling it repeatedly
// yields identical output. Groups with fewer than minFolds non-missing
// records fail the whole call with InsufficientFoldsError; a zero-variance
// positive-mean sample fails with DegenerateSampleError.
func (r *Result) Significance(minFolds int) ([]inference.Result, error) {
	results := make([]inference.Result, 0, len(r.Groups))
	for _, group := range r.Groups {
		res, err := inference.OneSampleTGreaterMin(group.Name, r.ValuesFor(group.Name), minFolds)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// FoldContext is the per-fold view a strategy works on: the fold's data
// partitions, the model fitted on the training partition, its baseline test
// loss, and the run configuration the strategy needs. Strategies must not
// mutate TrainX, TrainY, TestX or TestY.
type FoldContext struct {
	Fold     int
	TrainX   *mat.Dense
	TrainY   *mat.VecDense
	TestX    *mat.Dense
	TestY    *mat.VecDense
	Model    model.Estimator
	Baseline float64

	Groups  dataset.Groups
	Loss    metrics.Loss
	Channel model.OutputChannel
	Factory model.Factory

	source *random.Source
}

// Stream returns the deterministic random stream for one (group, repetition)
// unit of this fold. Streams depend only on (seed, fold, group, rep), never
// on scheduling order.
func (fc *FoldContext) Stream(group, rep int) *rand.Rand {
	return fc.source.Stream(random.UnitID(fc.Fold, group, rep))
}

// Strategy scores all feature groups on one fold. Implementations return one
// score per group in group order; a non-nil error in errs[i] marks group i as
// missing for this fold without failing the others.
type Strategy interface {
	Name() string
	GroupScores(fc *FoldContext) (scores []float64, errs []error)
}

// lossOnChannel evaluates the configured loss on the estimator's declared
// output channel, rejecting non-finite values leaking out of a misbehaving
// model.
func lossOnChannel(fc *FoldContext, est model.Estimator, X mat.Matrix) (float64, error) {
	preds, err := model.Predictions(est, fc.Channel, X)
	if err != nil {
		return 0, err
	}
	value, err := fc.Loss(fc.TestY, preds)
	if err != nil {
		return 0, err
	}
	if err := errors.CheckScalar("loss evaluation", value); err != nil {
		return 0, err
	}
	return value, nil
}
