// Package varimp provides cross-fitted variable importance estimation with
// finite-sample significance testing for Go.
//
// Given a dataset, a model factory and a loss function, varimp answers the
// question "which feature groups does a predictive model actually depend
// on?" with a p-value per group instead of a bare ranking. Importance is
// measured out-of-sample across K cross-validation folds, and the per-fold
// scores are reduced with a one-sided t-test against the null hypothesis of
// zero mean importance.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/scigolab/varimp/core/model"
//	    "github.com/scigolab/varimp/dataset"
//	    "github.com/scigolab/varimp/importance"
//	    "github.com/scigolab/varimp/inference"
//	    "github.com/scigolab/varimp/linear"
//	    "github.com/scigolab/varimp/metrics"
//	)
//
//	func main() {
//	    d, err := dataset.Spurious(500, 42)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    factory := func() model.Estimator { return linear.NewRidge() }
//	    runner := importance.New(factory, importance.NewCPI(), metrics.MSE,
//	        importance.WithSeed(42),
//	    )
//	    res, err := runner.Run(d)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    sig, err := res.Significance(inference.MinFolds)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, s := range sig {
//	        fmt.Printf("%s: mean=%.4f p=%.4f\n", s.Group, s.Mean, s.PValue)
//	    }
//	}
//
// # Packages
//
//   - importance: the fold orchestration driver and the PFI, CPI and LOCO
//     importance strategies
//   - inference: one-sample significance testing and multiple-testing
//     corrections
//   - dataset: dataset container, feature groups and synthetic generators
//   - crossval: K-fold and stratified K-fold splitters
//   - metrics: loss functions (MSE, RMSE, MAE, log loss, zero-one)
//   - linear: ridge regression, also the default CPI auxiliary model
//   - neighbors: k-nearest-neighbor classification
//   - preprocessing: standardization and the scaled-estimator wrapper
//   - core/model: estimator interfaces and output channels
//   - core/parallel: bounded worker pools
//   - core/random: deterministic per-unit random streams
//
// # Determinism
//
// Runs are reproducible by construction: every (fold, group, repetition)
// unit draws from its own seeded random stream, so results are bit-identical
// across repeated runs and across worker counts.
package varimp
