package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/scigolab/varimp/core/model"
	"github.com/scigolab/varimp/pkg/errors"
)

// ScaledEstimator は内部の推定器に渡す入力を学習時の統計で標準化するラッパー。
// Fitでスケーラーを学習し、以降のPredict系呼び出しでは同じ変換を適用する。
// 重要度推定では特徴量の置換後もfold訓練時のスケールが使われるため、
// 置換が変換パラメータに漏れることはない。
type ScaledEstimator struct {
	inner  model.Estimator
	scaler *StandardScaler
}

// Scaled は推定器を標準化ラッパーで包んで返す
func Scaled(inner model.Estimator) *ScaledEstimator {
	return &ScaledEstimator{inner: inner, scaler: NewStandardScaler()}
}

// ScaledFactory は生成される推定器をすべて標準化ラッパーで包むFactoryを返す
func ScaledFactory(factory model.Factory) model.Factory {
	return func() model.Estimator {
		return Scaled(factory())
	}
}

// Fit はスケーラーを学習させたうえで内部の推定器を学習させる
func (s *ScaledEstimator) Fit(X, y mat.Matrix) error {
	scaled, err := s.scaler.FitTransform(X)
	if err != nil {
		return err
	}
	return s.inner.Fit(scaled, y)
}

// Predict は標準化した入力で内部の推定器の予測を返す
func (s *ScaledEstimator) Predict(X mat.Matrix) (mat.Matrix, error) {
	scaled, err := s.scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	return s.inner.Predict(scaled)
}

// PredictProba は内部の推定器がクラス確率を出力できる場合にそれを返す
func (s *ScaledEstimator) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	pp, ok := s.inner.(model.ProbabilityPredictor)
	if !ok {
		return nil, errors.NewValueError("ScaledEstimator.PredictProba", "inner estimator does not implement PredictProba")
	}
	scaled, err := s.scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	return pp.PredictProba(scaled)
}

// DecisionFunction は内部の推定器が決定スコアを出力できる場合にそれを返す
func (s *ScaledEstimator) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	ds, ok := s.inner.(model.DecisionScorer)
	if !ok {
		return nil, errors.NewValueError("ScaledEstimator.DecisionFunction", "inner estimator does not implement DecisionFunction")
	}
	scaled, err := s.scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	return ds.DecisionFunction(scaled)
}
