package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator は教師あり学習モデルの基本インターフェース
type Estimator interface {
	Fitter
	Predictor
}

// ProbabilityPredictor はクラス確率を出力できるモデルのインターフェース
type ProbabilityPredictor interface {
	// PredictProba は各クラスの確率推定値を返す（n×n_classes行列）
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// DecisionScorer は決定スコア（閾値前の生スコア）を出力できるモデルのインターフェース
type DecisionScorer interface {
	// DecisionFunction は各標本の決定スコアを返す（n×1行列）
	DecisionFunction(X mat.Matrix) (mat.Matrix, error)
}

// Scorer はスコア計算が可能なモデルのインターフェース
type Scorer interface {
	// Score はモデルの性能指標（回帰はR²、分類は正解率）を計算する
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor は回帰モデルのインターフェース
type Regressor interface {
	Estimator
	Scorer
}

// Classifier は分類モデルのインターフェース
type Classifier interface {
	Estimator
	Scorer
	ProbabilityPredictor

	// Classes は学習時に観測された一意のクラスラベルを返す
	Classes() []int
}

// Factory は未学習のEstimatorを新規作成する関数です。
// foldごと、またはLOCOの縮約モデルごとに独立したインスタンスを提供します。
// 返されるEstimatorは呼び出し間で状態を共有してはいけません。
type Factory func() Estimator
