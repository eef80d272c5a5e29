// Package linear は閉形式で解ける線形モデルを提供します。
// RidgeはLOCOの縮約モデルやCPIの補助モデルとして繰り返し再学習されるため、
// 反復法ではなく正規方程式で解きます。
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/scigolab/varimp/core/model"
	"github.com/scigolab/varimp/core/parallel"
	"github.com/scigolab/varimp/pkg/errors"
)

// Ridge はL2正則化付き線形回帰モデル。
// 正規方程式 W = (XᵀX + αI)⁻¹ Xᵀy で解く。
// yが複数列の場合は各列を同じ計画行列で同時に回帰する
// （グループ列の同時予測に使用される）。
type Ridge struct {
	model.BaseEstimator
	Alpha     float64    // 正則化強度（切片には適用しない）
	Weights   *mat.Dense // 重み（(n_features)×(n_outputs)）
	Intercept []float64  // 出力ごとの切片
	NFeatures int        // 特徴量の数
	NOutputs  int        // 出力の数
}

// RidgeOption はRidgeの機能オプション
type RidgeOption func(*Ridge)

// WithAlpha は正則化強度を設定する
func WithAlpha(alpha float64) RidgeOption {
	return func(r *Ridge) {
		r.Alpha = alpha
	}
}

// NewRidge は新しいRidgeモデルを作成する（デフォルト α = 1.0）
func NewRidge(opts ...RidgeOption) *Ridge {
	r := &Ridge{Alpha: 1.0}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Clone は同じハイパーパラメータを持つ未学習のRidgeを返す
func (rg *Ridge) Clone() *Ridge {
	return NewRidge(WithAlpha(rg.Alpha))
}

// Fit はモデルを訓練データで学習させる
func (rg *Ridge) Fit(X, y mat.Matrix) error {
	// 入力の検証
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewValueError("Ridge.Fit", "empty data")
	}
	if ry != r {
		return errors.NewDimensionError("Ridge.Fit", r, ry, 0)
	}
	if cy < 1 {
		return errors.NewValueError("Ridge.Fit", "y has no columns")
	}
	if rg.Alpha < 0 {
		return errors.NewValueError("Ridge.Fit", "alpha must be non-negative")
	}

	rg.NFeatures = c
	rg.NOutputs = cy

	// 切片項のために X に 1 の列を追加
	// X_with_intercept = [1, X]
	XWithIntercept := mat.NewDense(r, c+1, nil)

	// 並列処理の閾値（この値以下の行数では逐次処理を使用）
	const parallelThreshold = 1000

	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			XWithIntercept.Set(i, 0, 1.0) // 切片項
			for j := 0; j < c; j++ {
				XWithIntercept.Set(i, j+1, X.At(i, j))
			}
		}
	})

	// 正規方程式を解く
	// (XᵀX + αI)⁻¹ Xᵀ Y、ただし切片項には正則化を適用しない
	var XT mat.Dense
	XT.CloneFrom(XWithIntercept.T())

	var XTX mat.Dense
	XTX.Mul(&XT, XWithIntercept)

	for j := 1; j <= c; j++ {
		XTX.Set(j, j, XTX.At(j, j)+rg.Alpha)
	}

	var XTXInv mat.Dense
	if err := XTXInv.Inverse(&XTX); err != nil {
		return errors.Wrap(errors.ErrSingularMatrix, "Ridge.Fit")
	}

	var XTY mat.Dense
	XTY.Mul(&XT, y)

	// 重みを計算: (XᵀX + αI)⁻¹ Xᵀ Y
	var weights mat.Dense
	weights.Mul(&XTXInv, &XTY)

	// 切片と重みを分離
	rg.Intercept = make([]float64, cy)
	for k := 0; k < cy; k++ {
		rg.Intercept[k] = weights.At(0, k)
	}
	rg.Weights = mat.NewDense(c, cy, nil)
	for j := 0; j < c; j++ {
		for k := 0; k < cy; k++ {
			rg.Weights.Set(j, k, weights.At(j+1, k))
		}
	}

	rg.SetFitted()
	return nil
}

// Predict は入力データに対する予測を行う（n×n_outputs行列を返す）
func (rg *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rg.IsFitted() {
		return nil, errors.NewNotFittedError("Ridge", "Predict")
	}

	r, c := X.Dims()
	if c != rg.NFeatures {
		return nil, errors.NewDimensionError("Ridge.Predict", rg.NFeatures, c, 1)
	}

	// 予測: Y = X * W + intercept
	predictions := mat.NewDense(r, rg.NOutputs, nil)
	predictions.Mul(X, rg.Weights)

	for i := 0; i < r; i++ {
		for k := 0; k < rg.NOutputs; k++ {
			predictions.Set(i, k, predictions.At(i, k)+rg.Intercept[k])
		}
	}

	return predictions, nil
}

// Score はモデルの決定係数（R²）を計算する。
// 複数出力の場合は出力ごとのR²の単純平均を返す。
func (rg *Ridge) Score(X, y mat.Matrix) (float64, error) {
	if !rg.IsFitted() {
		return 0, errors.NewNotFittedError("Ridge", "Score")
	}

	yPred, err := rg.Predict(X)
	if err != nil {
		return 0, err
	}

	r, cy := y.Dims()
	if cy != rg.NOutputs {
		return 0, errors.NewDimensionError("Ridge.Score", rg.NOutputs, cy, 1)
	}

	var total float64
	for k := 0; k < cy; k++ {
		// y の平均を計算
		var yMean float64
		for i := 0; i < r; i++ {
			yMean += y.At(i, k)
		}
		yMean /= float64(r)

		// 全変動 (TSS) と残差変動 (RSS) を計算
		var tss, rss float64
		for i := 0; i < r; i++ {
			yTrue := y.At(i, k)
			yPredVal := yPred.At(i, k)

			tss += (yTrue - yMean) * (yTrue - yMean)
			rss += (yTrue - yPredVal) * (yTrue - yPredVal)
		}

		if tss == 0 {
			return 0, errors.Newf("Ridge.Score: total sum of squares is zero in output %d", k)
		}

		// R² = 1 - RSS/TSS
		total += 1 - rss/tss
	}

	return total / float64(cy), nil
}
