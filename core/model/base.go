package model

// BaseEstimator は推定器に埋め込んで学習状態を追跡するための基底構造体。
// fold並列実行では各ワーカーが自分専用の推定器インスタンスを持つため、
// 状態へのアクセスは同期しない。
type BaseEstimator struct {
	fitted bool
}

// IsFitted はFitが正常に完了したかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.fitted
}

// SetFitted はFitの正常完了を記録する
func (e *BaseEstimator) SetFitted() {
	e.fitted = true
}

// Reset は推定器を未学習状態に戻す
func (e *BaseEstimator) Reset() {
	e.fitted = false
}
