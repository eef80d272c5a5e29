package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/scigolab/varimp/pkg/errors"
)

// OutputChannel declares which prediction surface of an estimator a loss
// function should be paired with. The channel is supplied explicitly by the
// caller instead of being inferred from the concrete estimator type at
// runtime, so the pairing between estimator and loss is visible in the
// run configuration.
type OutputChannel int

const (
	// OutputLabels uses Predict: regression values or hard class labels.
	OutputLabels OutputChannel = iota
	// OutputProbabilities uses PredictProba: per-class probability estimates.
	OutputProbabilities
	// OutputDecision uses DecisionFunction: raw pre-threshold scores.
	OutputDecision
)

// String returns the string representation of the output channel.
func (c OutputChannel) String() string {
	switch c {
	case OutputLabels:
		return "labels"
	case OutputProbabilities:
		return "probabilities"
	case OutputDecision:
		return "decision"
	default:
		return "unknown"
	}
}

// Predictions produces the estimator's output on X through the declared
// channel. It fails with a ValueError when the estimator does not implement
// the requested capability, rather than silently falling back to another
// channel.
func Predictions(est Estimator, channel OutputChannel, X mat.Matrix) (mat.Matrix, error) {
	switch channel {
	case OutputLabels:
		return est.Predict(X)
	case OutputProbabilities:
		pp, ok := est.(ProbabilityPredictor)
		if !ok {
			return nil, errors.NewValueError("Predictions", "estimator does not implement PredictProba but channel is probabilities")
		}
		return pp.PredictProba(X)
	case OutputDecision:
		ds, ok := est.(DecisionScorer)
		if !ok {
			return nil, errors.NewValueError("Predictions", "estimator does not implement DecisionFunction but channel is decision")
		}
		return ds.DecisionFunction(X)
	default:
		return nil, errors.NewValueError("Predictions", "unknown output channel")
	}
}
