package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/scigolab/varimp/core/random"
)

// XOR builds a classification dataset where the label is the XOR of the signs
// of two independent standard-normal features. Neither feature carries any
// marginal information about the label; only their interaction does.
func XOR(nSamples int, seed int64) (*Dataset, error) {
	rng := random.NewSource(seed).Stream(0)

	X := mat.NewDense(nSamples, 2, nil)
	y := mat.NewVecDense(nSamples, nil)

	for i := 0; i < nSamples; i++ {
		x1 := rng.NormFloat64()
		x2 := rng.NormFloat64()
		X.Set(i, 0, x1)
		X.Set(i, 1, x2)

		if (x1 > 0) != (x2 > 0) {
			y.SetVec(i, 1)
		}
	}

	return New(X, y)
}

// Spurious builds a regression dataset with two informative features and one
// engineered spurious feature: a noisy linear combination of the informative
// ones that carries no information beyond what they already encode.
//
//	x0, x1 ~ N(0,1)    y = x0 + 2*x1 + 0.5*eps
//	x2 = x0 + x1 + 0.1*eps
//
// Marginal importance methods pick x2 up through its correlation with x0 and
// x1; conditional methods should score it near zero.
func Spurious(nSamples int, seed int64) (*Dataset, error) {
	rng := random.NewSource(seed).Stream(0)

	X := mat.NewDense(nSamples, 3, nil)
	y := mat.NewVecDense(nSamples, nil)

	for i := 0; i < nSamples; i++ {
		x0 := rng.NormFloat64()
		x1 := rng.NormFloat64()
		spurious := x0 + x1 + 0.1*rng.NormFloat64()

		X.Set(i, 0, x0)
		X.Set(i, 1, x1)
		X.Set(i, 2, spurious)

		y.SetVec(i, x0+2*x1+0.5*rng.NormFloat64())
	}

	return New(X, y)
}

// Null builds a regression dataset with the requested number of independent
// standard-normal features where only the first feature drives the target.
// The remaining features have no relationship to the target and no
// correlation with each other; they calibrate the null behavior of an
// importance method.
func Null(nSamples, nFeatures int, seed int64) (*Dataset, error) {
	rng := random.NewSource(seed).Stream(0)

	X := mat.NewDense(nSamples, nFeatures, nil)
	y := mat.NewVecDense(nSamples, nil)

	for i := 0; i < nSamples; i++ {
		for j := 0; j < nFeatures; j++ {
			X.Set(i, j, rng.NormFloat64())
		}
		y.SetVec(i, 2*X.At(i, 0)+0.5*rng.NormFloat64())
	}

	return New(X, y)
}
