package linear

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/scigolab/varimp/pkg/errors"
)

func TestRidge_FitPredict_Linear(t *testing.T) {
	// y = 2x + 1, recoverable with negligible regularization
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewDense(5, 1, []float64{3, 5, 7, 9, 11})

	rg := NewRidge(WithAlpha(1e-8))
	if err := rg.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if math.Abs(rg.Weights.At(0, 0)-2) > 1e-4 {
		t.Errorf("weight = %v, want 2", rg.Weights.At(0, 0))
	}
	if math.Abs(rg.Intercept[0]-1) > 1e-4 {
		t.Errorf("intercept = %v, want 1", rg.Intercept[0])
	}

	pred, err := rg.Predict(mat.NewDense(2, 1, []float64{6, 7}))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if math.Abs(pred.At(0, 0)-13) > 1e-3 || math.Abs(pred.At(1, 0)-15) > 1e-3 {
		t.Errorf("predictions = %v, %v, want 13, 15", pred.At(0, 0), pred.At(1, 0))
	}
}

func TestRidge_RegularizationShrinksWeights(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		1, 1.01,
		2, 2.02,
		3, 2.99,
		4, 4.01,
		5, 4.98,
		6, 6.03,
	})
	y := mat.NewDense(6, 1, []float64{2, 4, 6, 8, 10, 12})

	weak := NewRidge(WithAlpha(1e-6))
	strong := NewRidge(WithAlpha(100))
	if err := weak.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if err := strong.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	normOf := func(w *mat.Dense) float64 {
		var s float64
		r, c := w.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				s += w.At(i, j) * w.At(i, j)
			}
		}
		return math.Sqrt(s)
	}

	if normOf(strong.Weights) >= normOf(weak.Weights) {
		t.Errorf("stronger regularization should shrink weights: %v >= %v",
			normOf(strong.Weights), normOf(weak.Weights))
	}
}

func TestRidge_MultiOutput(t *testing.T) {
	// Two targets regressed jointly: y0 = x, y1 = -2x.
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 2, []float64{
		1, -2,
		2, -4,
		3, -6,
		4, -8,
	})

	rg := NewRidge(WithAlpha(1e-8))
	if err := rg.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	pred, err := rg.Predict(mat.NewDense(1, 1, []float64{5}))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(pred.At(0, 0)-5) > 1e-3 || math.Abs(pred.At(0, 1)+10) > 1e-3 {
		t.Errorf("multi-output prediction = (%v, %v), want (5, -10)", pred.At(0, 0), pred.At(0, 1))
	}
}

func TestRidge_Score(t *testing.T) {
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewDense(5, 1, []float64{2, 4, 6, 8, 10})

	rg := NewRidge(WithAlpha(1e-8))
	if err := rg.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	score, err := rg.Score(X, y)
	if err != nil {
		t.Fatal(err)
	}
	if score < 0.999 {
		t.Errorf("R² = %v, want close to 1", score)
	}
}

func TestRidge_NotFitted(t *testing.T) {
	rg := NewRidge()
	_, err := rg.Predict(mat.NewDense(1, 1, []float64{1}))
	if err == nil {
		t.Fatal("Predict before Fit should fail")
	}

	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Errorf("expected NotFittedError, got %T", err)
	}
}

func TestRidge_SingularDesignMatrix(t *testing.T) {
	// Duplicated columns with no regularization leave XᵀX rank-deficient.
	X := mat.NewDense(4, 2, []float64{
		1, 1,
		2, 2,
		3, 3,
		4, 4,
	})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	rg := NewRidge(WithAlpha(0))
	err := rg.Fit(X, y)
	if err == nil {
		t.Fatal("Fit on a singular design matrix should fail")
	}
	if !errors.Is(err, errors.ErrSingularMatrix) {
		t.Errorf("expected ErrSingularMatrix, got %v", err)
	}
	if rg.IsFitted() {
		t.Error("failed Fit must leave the model unfitted")
	}
}

func TestRidge_ResetClearsFittedState(t *testing.T) {
	rg := NewRidge(WithAlpha(1e-8))
	if err := rg.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(3, 1, []float64{2, 4, 6})); err != nil {
		t.Fatal(err)
	}
	if !rg.IsFitted() {
		t.Fatal("model should be fitted")
	}

	rg.Reset()
	if rg.IsFitted() {
		t.Error("Reset should clear the fitted flag")
	}

	_, err := rg.Predict(mat.NewDense(1, 1, []float64{1}))
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Errorf("Predict after Reset should return NotFittedError, got %v", err)
	}
}

func TestRidge_Clone(t *testing.T) {
	rg := NewRidge(WithAlpha(0.5))
	if err := rg.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(3, 1, []float64{1, 2, 3})); err != nil {
		t.Fatal(err)
	}

	clone := rg.Clone()
	if clone.Alpha != 0.5 {
		t.Errorf("clone alpha = %v, want 0.5", clone.Alpha)
	}
	if clone.IsFitted() {
		t.Error("clone must start unfitted")
	}
}
