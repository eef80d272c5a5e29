// Package inference reduces per-fold importance samples to p-values.
//
// The test is a one-sample Student t against zero with a "greater"
// alternative: under the null hypothesis a feature group carries no
// importance, the K per-fold scores are an exchangeable sample with mean at
// most zero. The reduction is a pure function of the sample multiset; fold
// order never matters.
package inference

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/scigolab/varimp/pkg/errors"
)

// MinFolds is the default minimum number of non-missing folds the test
// accepts for one group.
const MinFolds = 2

// Result summarizes the significance test for one feature group.
type Result struct {
	Group  string
	Mean   float64
	StdDev float64
	Folds  int
	PValue float64
}

// OneSampleTGreater tests the one-sided null hypothesis that the mean of the
// sample is <= 0. The group name is carried into the result and any error.
//
// Degenerate samples are never resolved silently: zero variance with a
// non-positive mean yields p = 1, zero variance with a positive mean fails
// with DegenerateSampleError.
func OneSampleTGreater(group string, sample []float64) (Result, error) {
	return oneSampleTGreater(group, sample, MinFolds)
}

// OneSampleTGreaterMin is OneSampleTGreater with a caller-chosen minimum
// sample size (at least 2).
func OneSampleTGreaterMin(group string, sample []float64, minFolds int) (Result, error) {
	if minFolds < 2 {
		minFolds = 2
	}
	return oneSampleTGreater(group, sample, minFolds)
}

func oneSampleTGreater(group string, sample []float64, minFolds int) (Result, error) {
	n := len(sample)
	if n < minFolds {
		return Result{}, errors.NewInsufficientFoldsError(group, n, minFolds)
	}
	if err := errors.CheckValues("importance sample", sample); err != nil {
		return Result{}, err
	}

	mean, err := stats.Mean(sample)
	if err != nil {
		return Result{}, errors.Wrap(err, "inference: mean")
	}
	sd, err := stats.StandardDeviationSample(sample)
	if err != nil {
		return Result{}, errors.Wrap(err, "inference: standard deviation")
	}

	res := Result{Group: group, Mean: mean, StdDev: sd, Folds: n}

	if sd == 0 {
		if mean > 0 {
			return Result{}, errors.NewDegenerateSampleError(group, mean, n)
		}
		res.PValue = 1.0
		return res, nil
	}

	t := mean / (sd / math.Sqrt(float64(n)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	res.PValue = dist.Survival(t)

	return res, nil
}
