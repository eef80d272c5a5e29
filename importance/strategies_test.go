package importance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/scigolab/varimp/core/model"
	"github.com/scigolab/varimp/core/random"
	"github.com/scigolab/varimp/dataset"
	"github.com/scigolab/varimp/inference"
	"github.com/scigolab/varimp/linear"
	"github.com/scigolab/varimp/metrics"
	"github.com/scigolab/varimp/neighbors"
)

// firstColumnModel predicts the first input column verbatim. It ignores every
// other column, so permuting those must not move the loss at all.
type firstColumnModel struct{}

func (firstColumnModel) Fit(X, y mat.Matrix) error { return nil }

func (firstColumnModel) Predict(X mat.Matrix) (mat.Matrix, error) {
	n, _ := X.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, X.At(i, 0))
	}
	return out, nil
}

func stubFoldContext(t *testing.T) *FoldContext {
	t.Helper()
	n := 40
	X := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(n-i))
		y.SetVec(i, float64(i))
	}
	fc := &FoldContext{
		Fold:    0,
		TrainX:  X,
		TrainY:  y,
		TestX:   X,
		TestY:   y,
		Model:   firstColumnModel{},
		Groups:  dataset.SingleFeatureGroups(2),
		Loss:    metrics.MSE,
		Channel: model.OutputLabels,
		Factory: func() model.Estimator { return firstColumnModel{} },
		source:  random.NewSource(17),
	}
	baseline, err := lossOnChannel(fc, fc.Model, fc.TestX)
	require.NoError(t, err)
	fc.Baseline = baseline
	return fc
}

func TestPFIUnusedFeatureScoresExactlyZero(t *testing.T) {
	fc := stubFoldContext(t)
	scores, errs := NewPFI().GroupScores(fc)
	require.Len(t, scores, 2)
	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Greater(t, scores[0], 0.0, "permuting the predicted column must inflate the loss")
	assert.InDelta(t, 0.0, scores[1], 1e-12, "permuting an ignored column must not move the loss")
}

func TestPFIDoesNotMutateTestPartition(t *testing.T) {
	fc := stubFoldContext(t)
	before := mat.DenseCopyOf(fc.TestX)
	_, _ = NewPFI().GroupScores(fc)
	assert.True(t, mat.Equal(before, fc.TestX))
}

func sigFor(t *testing.T, results []inference.Result, group string) inference.Result {
	t.Helper()
	for _, r := range results {
		if r.Group == group {
			return r
		}
	}
	t.Fatalf("no inference result for group %q", group)
	return inference.Result{}
}

func TestPFIDetectsSignalFeature(t *testing.T) {
	d, err := dataset.Null(200, 4, 11)
	require.NoError(t, err)

	runner := New(ridgeFactory, NewPFI(), metrics.MSE, WithSeed(21))
	res, err := runner.Run(d)
	require.NoError(t, err)
	assert.Zero(t, res.MissingCount())

	sig, err := res.Significance(inference.MinFolds)
	require.NoError(t, err)

	signal := sigFor(t, sig, "x0")
	assert.Less(t, signal.PValue, 0.01, "the generating feature must be significant")
	for _, s := range sig {
		if s.Group == "x0" {
			continue
		}
		assert.Less(t, s.Mean, signal.Mean,
			"noise feature %s must score below the signal feature", s.Group)
		assert.InDelta(t, 0.0, s.Mean, 0.5,
			"noise feature %s importance must be near zero", s.Group)
	}
}

func TestCPIDetectsSignalFeature(t *testing.T) {
	d, err := dataset.Null(200, 4, 13)
	require.NoError(t, err)

	runner := New(ridgeFactory, NewCPI(), metrics.MSE, WithSeed(23))
	res, err := runner.Run(d)
	require.NoError(t, err)
	assert.Zero(t, res.MissingCount())

	sig, err := res.Significance(inference.MinFolds)
	require.NoError(t, err)
	signal := sigFor(t, sig, "x0")
	assert.Less(t, signal.PValue, 0.01)
}

func TestCPICustomAuxiliary(t *testing.T) {
	d, err := dataset.Null(120, 3, 5)
	require.NoError(t, err)

	strategy := NewCPI(
		WithCPIRepetitions(3),
		WithAuxiliary(ridgeFactory),
	)
	runner := New(ridgeFactory, strategy, metrics.MSE, WithSeed(5))
	res, err := runner.Run(d)
	require.NoError(t, err)
	assert.Zero(t, res.MissingCount())
	assert.Equal(t, "cpi", res.Strategy)
}

func TestLOCORecoversInteraction(t *testing.T) {
	d, err := dataset.XOR(400, 3)
	require.NoError(t, err)

	factory := func() model.Estimator {
		return neighbors.NewKNNClassifier(neighbors.WithK(5))
	}
	runner := New(factory, NewLOCO(), metrics.ZeroOne, WithSeed(31))
	res, err := runner.Run(d)
	require.NoError(t, err)
	assert.Zero(t, res.MissingCount())

	sig, err := res.Significance(inference.MinFolds)
	require.NoError(t, err)
	// Each feature is useless alone but indispensable jointly: removing
	// either one drops the classifier to chance level.
	for _, s := range sig {
		assert.Greater(t, s.Mean, 0.15, "refitting without %s must cost accuracy", s.Group)
		assert.Less(t, s.PValue, 0.05)
	}
}

func TestCPIRecordsInteractionAsConditionallyRelevant(t *testing.T) {
	d, err := dataset.XOR(400, 7)
	require.NoError(t, err)

	factory := func() model.Estimator {
		return neighbors.NewKNNClassifier(neighbors.WithK(5))
	}
	// The XOR features are independent, so the conditional distribution of one
	// given the other is its marginal and CPI retains full power: both
	// features are conditionally indispensable.
	runner := New(factory, NewCPI(), metrics.ZeroOne, WithSeed(37))
	res, err := runner.Run(d)
	require.NoError(t, err)
	assert.Zero(t, res.MissingCount())

	sig, err := res.Significance(inference.MinFolds)
	require.NoError(t, err)
	for _, s := range sig {
		assert.Less(t, s.PValue, 0.05, "feature %s must be conditionally relevant", s.Group)
	}
}

func TestXORUnivariateAccuracyIsChance(t *testing.T) {
	d, err := dataset.XOR(400, 7)
	require.NoError(t, err)

	trainIdx := make([]int, 200)
	testIdx := make([]int, 200)
	for i := range trainIdx {
		trainIdx[i] = i
		testIdx[i] = 200 + i
	}
	trainX, trainY := d.Subset(trainIdx)
	testX, testY := d.Subset(testIdx)

	// Neither feature carries marginal information: conditioned on one
	// feature alone the label is a fair coin, so a univariate classifier
	// cannot beat chance no matter how it is tuned.
	for col := 0; col < d.NumFeatures(); col++ {
		knn := neighbors.NewKNNClassifier(neighbors.WithK(5))
		require.NoError(t, knn.Fit(dataset.SelectColumns(trainX, []int{col}), trainY))
		acc, err := knn.Score(dataset.SelectColumns(testX, []int{col}), testY)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, acc, 0.15,
			"feature x%d alone must predict at chance level", col)
	}
}

// frozenLinearModel predicts w0*x0 + w1*x1 with fixed coefficients and
// ignores every other column. It stands in for a model with no conditional
// reliance on the spurious feature.
type frozenLinearModel struct {
	w0, w1 float64
}

func (frozenLinearModel) Fit(X, y mat.Matrix) error { return nil }

func (m frozenLinearModel) Predict(X mat.Matrix) (mat.Matrix, error) {
	n, _ := X.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, m.w0*X.At(i, 0)+m.w1*X.At(i, 1))
	}
	return out, nil
}

func TestSpuriousProxyMarginalVersusConditional(t *testing.T) {
	d, err := dataset.Spurious(300, 41)
	require.NoError(t, err)

	estimate := func(factory model.Factory, strategy Strategy) []inference.Result {
		runner := New(factory, strategy, metrics.MSE, WithSeed(41))
		res, err := runner.Run(d)
		require.NoError(t, err)
		sig, err := res.Significance(inference.MinFolds)
		require.NoError(t, err)
		return sig
	}

	// Marginal view: a strongly regularized ridge spreads weight onto the
	// proxy because using x2 lowers the coefficient norm. Permuting the proxy
	// then destroys its correlation structure, so PFI flags it alongside the
	// informative feature.
	shrunkFactory := func() model.Estimator { return linear.NewRidge(linear.WithAlpha(500)) }
	pfi := estimate(shrunkFactory, NewPFI())
	assert.Less(t, sigFor(t, pfi, "x1").PValue, 0.05)
	assert.Less(t, sigFor(t, pfi, "x2").PValue, 0.05,
		"marginal permutation must flag the spurious proxy")

	// Conditional view: for a model that does not rely on x2, replacing the
	// proxy with its conditional prediction plus permuted residuals leaves
	// every prediction untouched, so the score is zero on every fold and the
	// zero-variance non-positive sample yields p = 1.
	frozenFactory := func() model.Estimator { return frozenLinearModel{w0: 1, w1: 2} }
	cpi := estimate(frozenFactory, NewCPI(WithCPIRepetitions(1)))
	assert.Less(t, sigFor(t, cpi, "x1").PValue, 0.05,
		"the feature the model relies on stays conditionally significant")
	cpiProxy := sigFor(t, cpi, "x2")
	assert.Greater(t, cpiProxy.PValue, 0.05,
		"conditional permutation must not flag the spurious proxy")
	assert.InDelta(t, 0.0, cpiProxy.Mean, 1e-12)

	// The two default-ridge views on the same folds: the marginal proxy score
	// dominates the conditional one, which stays near zero.
	pfiDefault := estimate(ridgeFactory, NewPFI())
	cpiDefault := estimate(ridgeFactory, NewCPI())
	assert.Less(t, sigFor(t, pfiDefault, "x1").PValue, 0.01)
	assert.Less(t, sigFor(t, cpiDefault, "x1").PValue, 0.01)
	pfiProxy := sigFor(t, pfiDefault, "x2")
	cpiProxyDefault := sigFor(t, cpiDefault, "x2")
	assert.GreaterOrEqual(t, pfiProxy.Mean, cpiProxyDefault.Mean-1e-3)
	assert.InDelta(t, 0.0, cpiProxyDefault.Mean, 0.1,
		"conditional importance of the spurious proxy must be near zero")
}

func TestJointGroupPermutation(t *testing.T) {
	d, err := dataset.Spurious(150, 19)
	require.NoError(t, err)
	groups := dataset.Groups{
		{Name: "informative", Columns: []int{0, 1}},
		{Name: "proxy", Columns: []int{2}},
	}

	runner := New(ridgeFactory, NewPFI(), metrics.MSE,
		WithSeed(19),
		WithGroups(groups),
	)
	res, err := runner.Run(d)
	require.NoError(t, err)
	assert.Zero(t, res.MissingCount())

	sig, err := res.Significance(inference.MinFolds)
	require.NoError(t, err)
	joint := sigFor(t, sig, "informative")
	assert.Less(t, joint.PValue, 0.01,
		"jointly permuting the generating columns must be significant")
}

// sumModel predicts x0 + x1 and ignores everything else.
type sumModel struct{}

func (sumModel) Fit(X, y mat.Matrix) error { return nil }

func (sumModel) Predict(X mat.Matrix) (mat.Matrix, error) {
	n, _ := X.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, X.At(i, 0)+X.At(i, 1))
	}
	return out, nil
}

func pairFoldContext(t *testing.T, groups dataset.Groups) *FoldContext {
	t.Helper()
	// Two identical columns: permuting them jointly doubles the perturbation,
	// permuting them separately does not.
	n := 100
	X := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v := float64(i % 13)
		X.Set(i, 0, v)
		X.Set(i, 1, v)
		y.SetVec(i, 2*v)
	}
	fc := &FoldContext{
		Fold:    0,
		TrainX:  X,
		TrainY:  y,
		TestX:   X,
		TestY:   y,
		Model:   sumModel{},
		Groups:  groups,
		Loss:    metrics.MSE,
		Channel: model.OutputLabels,
		Factory: func() model.Estimator { return sumModel{} },
		source:  random.NewSource(23),
	}
	baseline, err := lossOnChannel(fc, fc.Model, fc.TestX)
	require.NoError(t, err)
	fc.Baseline = baseline
	return fc
}

func TestGroupScoreEqualsManualJointPermutation(t *testing.T) {
	group := dataset.Group{Name: "pair", Columns: []int{0, 1}}
	fc := pairFoldContext(t, dataset.Groups{group})

	scores, errs := NewPFI().GroupScores(fc)
	require.NoError(t, errs[0])

	// Rebuild the score by hand as a single permutation unit: one stream per
	// (fold, group, rep), one shared row permutation applied to both columns.
	// An independently constructed source must reproduce it exactly.
	n, _ := fc.TestX.Dims()
	src := random.NewSource(23)
	work := mat.DenseCopyOf(fc.TestX)
	var total float64
	for rep := 0; rep < 5; rep++ {
		perm := src.Stream(random.UnitID(0, 0, rep)).Perm(n)
		for i, from := range perm {
			work.Set(i, 0, fc.TestX.At(from, 0))
			work.Set(i, 1, fc.TestX.At(from, 1))
		}
		loss, err := lossOnChannel(fc, fc.Model, work)
		require.NoError(t, err)
		total += loss
	}
	manual := total/5 - fc.Baseline

	assert.Equal(t, manual, scores[0],
		"group score must be the single-unit joint permutation score")
}

func TestGroupScoreIsNotSumOfColumnScores(t *testing.T) {
	joint, errs := NewPFI().GroupScores(pairFoldContext(t,
		dataset.Groups{{Name: "pair", Columns: []int{0, 1}}}))
	require.NoError(t, errs[0])

	singles, errs := NewPFI().GroupScores(pairFoldContext(t, dataset.Groups{
		{Name: "a", Columns: []int{0}},
		{Name: "b", Columns: []int{1}},
	}))
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	// With duplicated columns the shared permutation doubles the input
	// perturbation, so the joint loss inflation is about twice the sum of the
	// per-column inflations. Summing column scores would underestimate it.
	assert.Greater(t, joint[0], 1.3*(singles[0]+singles[1]))
}

func TestProbabilityChannelWithLogLoss(t *testing.T) {
	d, err := dataset.XOR(300, 29)
	require.NoError(t, err)

	factory := func() model.Estimator {
		return neighbors.NewKNNClassifier(neighbors.WithK(7))
	}
	runner := New(factory, NewPFI(WithPFIRepetitions(3)), metrics.LogLoss,
		WithSeed(29),
		WithChannel(model.OutputProbabilities),
	)
	res, err := runner.Run(d)
	require.NoError(t, err)
	assert.Zero(t, res.MissingCount())
	for _, rec := range res.Records {
		assert.False(t, rec.Missing)
	}
}
