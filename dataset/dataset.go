// Package dataset holds the immutable data model of an importance run: a
// feature matrix with its target vector, and named feature groups scored as
// joint units.
package dataset

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/scigolab/varimp/pkg/errors"
)

// Dataset is a fixed matrix of observations (rows = samples, columns =
// features) plus a target vector. It is loaded once and never mutated;
// strategies that need perturbed copies work on their own clones.
type Dataset struct {
	x *mat.Dense
	y *mat.VecDense
}

// New validates dimensions and wraps X and y into a Dataset. The input
// matrices are cloned so later mutation by the caller cannot leak into a
// running computation.
func New(X mat.Matrix, y mat.Matrix) (*Dataset, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError("dataset.New", "empty feature matrix")
	}

	ry, cy := y.Dims()
	if cy != 1 {
		return nil, errors.NewValueError("dataset.New", "y must be a column vector")
	}
	if ry != r {
		return nil, errors.NewDimensionError("dataset.New", r, ry, 0)
	}

	xc := mat.NewDense(r, c, nil)
	xc.Copy(X)

	yc := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yc.SetVec(i, y.At(i, 0))
	}

	return &Dataset{x: xc, y: yc}, nil
}

// NumSamples returns the number of rows.
func (d *Dataset) NumSamples() int {
	r, _ := d.x.Dims()
	return r
}

// NumFeatures returns the number of feature columns.
func (d *Dataset) NumFeatures() int {
	_, c := d.x.Dims()
	return c
}

// X returns the feature matrix. Callers must treat it as read-only.
func (d *Dataset) X() mat.Matrix {
	return d.x
}

// Y returns the target vector. Callers must treat it as read-only.
func (d *Dataset) Y() *mat.VecDense {
	return d.y
}

// Subset extracts the rows at the given sample indices into fresh matrices.
// Indices are visited in ascending order so the extraction is independent of
// the order the fold generator produced them in.
func (d *Dataset) Subset(indices []int) (*mat.Dense, *mat.VecDense) {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)

	_, cols := d.x.Dims()
	xs := mat.NewDense(len(sorted), cols, nil)
	ys := mat.NewVecDense(len(sorted), nil)

	for i, idx := range sorted {
		for j := 0; j < cols; j++ {
			xs.Set(i, j, d.x.At(idx, j))
		}
		ys.SetVec(i, d.y.AtVec(idx))
	}

	return xs, ys
}

// DropColumns returns a copy of X without the given columns. Used by the
// leave-one-covariate-out refit and by auxiliary model fitting.
func DropColumns(X mat.Matrix, drop []int) *mat.Dense {
	r, c := X.Dims()

	dropped := make(map[int]bool, len(drop))
	for _, j := range drop {
		dropped[j] = true
	}

	kept := make([]int, 0, c-len(dropped))
	for j := 0; j < c; j++ {
		if !dropped[j] {
			kept = append(kept, j)
		}
	}

	out := mat.NewDense(r, len(kept), nil)
	for i := 0; i < r; i++ {
		for k, j := range kept {
			out.Set(i, k, X.At(i, j))
		}
	}
	return out
}

// SelectColumns returns a copy of the given columns of X, in the order given.
func SelectColumns(X mat.Matrix, cols []int) *mat.Dense {
	r, _ := X.Dims()
	out := mat.NewDense(r, len(cols), nil)
	for i := 0; i < r; i++ {
		for k, j := range cols {
			out.Set(i, k, X.At(i, j))
		}
	}
	return out
}
