// Package metrics は重要度計算に使用される損失関数を提供します。
// すべての損失は「小さいほど良い」規約に従います。重要度は
// (摂動後の損失 − 元の損失) として計算されるため、符号規約が統一されている
// 必要があります。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/scigolab/varimp/pkg/errors"
)

// Loss は損失関数の型です。yTrueは真のラベル/値、yPredはモデル出力
// （ラベルならn×1、確率ならn×1またはn×n_classes）です。
// 出力チャネルとの組み合わせは呼び出し元が明示的に宣言します。
type Loss func(yTrue *mat.VecDense, yPred mat.Matrix) (float64, error)

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue *mat.VecDense, yPred mat.Matrix) (float64, error) {
	n, err := checkInputs("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.At(i, 0)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue *mat.VecDense, yPred mat.Matrix) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue *mat.VecDense, yPred mat.Matrix) (float64, error) {
	n, err := checkInputs("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.At(i, 0))
	}

	return sum / float64(n), nil
}

// LogLoss は対数損失（交差エントロピー）を計算する。
// yPredがn×1の場合は陽性クラス（ラベル1）の確率、n×kの場合は
// 列がクラスインデックスに対応する確率行列として解釈する。
// 確率は log(0) を避けるためクリップされる。
func LogLoss(yTrue *mat.VecDense, yPred mat.Matrix) (float64, error) {
	n, err := checkInputs("LogLoss", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	_, cols := yPred.Dims()

	const eps = 1e-15
	var sum float64
	for i := 0; i < n; i++ {
		label := yTrue.AtVec(i)

		var pTrue float64
		if cols == 1 {
			p := errors.ClipValue(yPred.At(i, 0), eps, 1-eps)
			if label == 1 {
				pTrue = p
			} else {
				pTrue = 1 - p
			}
		} else {
			cls := int(label)
			if cls < 0 || cls >= cols {
				return 0, errors.NewValueError("LogLoss", "label outside probability matrix columns")
			}
			pTrue = errors.ClipValue(yPred.At(i, cls), eps, 1-eps)
		}

		sum -= math.Log(pTrue)
	}

	return sum / float64(n), nil
}

// ZeroOne は誤分類率（1 − 正解率）を計算する。
// 予測は最近傍の整数ラベルに丸めて比較する。
func ZeroOne(yTrue *mat.VecDense, yPred mat.Matrix) (float64, error) {
	n, err := checkInputs("ZeroOne", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var wrong float64
	for i := 0; i < n; i++ {
		if math.Round(yPred.At(i, 0)) != yTrue.AtVec(i) {
			wrong++
		}
	}

	return wrong / float64(n), nil
}

// checkInputs は入力検証を行い、標本数を返す
func checkInputs(op string, yTrue *mat.VecDense, yPred mat.Matrix) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}

	rPred, cPred := yPred.Dims()
	if rPred != n {
		return 0, errors.NewDimensionError(op, n, rPred, 0)
	}
	if cPred < 1 {
		return 0, errors.NewValueError(op, "prediction matrix has no columns")
	}

	return n, nil
}
