// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 変数重要度推定のワークフロー（fold駆動、戦略計算、有意性集約）で発生する
// 構造化されたエラー情報を提供します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("varimp-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// これにより、FitWarningなどの非致命的な警告の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	// zerologが設定されている場合は優先的に使用
	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	// フォールバック: 従来のハンドラ
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// FitWarning はfoldまたはグループ単位のモデル学習が失敗したが、
// 実行全体は継続する場合に発生する警告です。
type FitWarning struct {
	Fold  int
	Group string
	Err   error
}

func (w *FitWarning) Error() string {
	if w.Group != "" {
		return fmt.Sprintf("fit failed for group %q on fold %d, importance recorded as missing: %v", w.Group, w.Fold, w.Err)
	}
	return fmt.Sprintf("fit failed on fold %d, importance recorded as missing: %v", w.Fold, w.Err)
}

func (w *FitWarning) Unwrap() error {
	return w.Err
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *FitWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("fold", w.Fold).
		Str("group", w.Group).
		AnErr("cause", w.Err).
		Str("type", "FitWarning")
}

// NewFitWarning は新しいFitWarningを作成します。
func NewFitWarning(fold int, group string, err error) *FitWarning {
	return &FitWarning{Fold: fold, Group: group, Err: err}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// ConfigurationError は実行開始前の構成検証に失敗した場合のエラーです。
// fold数が標本数を超える、グループが存在しない列を参照するなど、
// 計算を一切始めずに報告される致命的なエラーです。
type ConfigurationError struct {
	Param  string
	Reason string
	Value  interface{}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("varimp: invalid configuration for %q: %s (got: %v)", e.Param, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param", e.Param).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigurationError")
}

// NewConfigurationError は新しいConfigurationErrorを作成し、スタックトレースを付与します。
func NewConfigurationError(param, reason string, value interface{}) error {
	err := &ConfigurationError{Param: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// EstimatorFitError はベースモデルまたは補助モデルの学習が失敗した場合のエラーです。
// fold単位で呼び出し元に報告され、他のfoldの計算は中断しません。自動リトライは行いません。
type EstimatorFitError struct {
	Estimator string
	Fold      int
	Err       error
}

func (e *EstimatorFitError) Error() string {
	return fmt.Sprintf("varimp: %s failed to fit on fold %d: %v", e.Estimator, e.Fold, e.Err)
}

func (e *EstimatorFitError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *EstimatorFitError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("estimator", e.Estimator).
		Int("fold", e.Fold).
		AnErr("cause", e.Err).
		Str("type", "EstimatorFitError")
}

// NewEstimatorFitError は新しいEstimatorFitErrorを作成し、スタックトレースを付与します。
func NewEstimatorFitError(estimator string, fold int, err error) error {
	fitErr := &EstimatorFitError{Estimator: estimator, Fold: fold, Err: err}
	return errors.WithStack(fitErr)
}

// InsufficientDataError はテスト分割が退化している（標本が2未満）場合のエラーです。
// そのfoldにとって致命的です。
type InsufficientDataError struct {
	Op      string
	Fold    int
	Samples int
	Minimum int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("varimp: %s: fold %d has %d test samples, need at least %d", e.Op, e.Fold, e.Samples, e.Minimum)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InsufficientDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("fold", e.Fold).
		Int("samples", e.Samples).
		Int("minimum", e.Minimum).
		Str("type", "InsufficientDataError")
}

// NewInsufficientDataError は新しいInsufficientDataErrorを作成し、スタックトレースを付与します。
func NewInsufficientDataError(op string, fold, samples, minimum int) error {
	err := &InsufficientDataError{Op: op, Fold: fold, Samples: samples, Minimum: minimum}
	return errors.WithStack(err)
}

// InsufficientFoldsError はあるグループについて欠損していないfoldが
// 有意性検定に必要な最小数を下回った場合のエラーです。
type InsufficientFoldsError struct {
	Group     string
	Available int
	Required  int
}

func (e *InsufficientFoldsError) Error() string {
	return fmt.Sprintf("varimp: group %q has %d non-missing folds, need at least %d for the significance test", e.Group, e.Available, e.Required)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InsufficientFoldsError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("group", e.Group).
		Int("available", e.Available).
		Int("required", e.Required).
		Str("type", "InsufficientFoldsError")
}

// NewInsufficientFoldsError は新しいInsufficientFoldsErrorを作成し、スタックトレースを付与します。
func NewInsufficientFoldsError(group string, available, required int) error {
	err := &InsufficientFoldsError{Group: group, Available: available, Required: required}
	return errors.WithStack(err)
}

// DegenerateSampleError はfold間の重要度が分散ゼロかつ平均が正である場合のエラーです。
// この条件でp値を黙って0にすることは許されず、必ず呼び出し元に報告されます。
type DegenerateSampleError struct {
	Group string
	Mean  float64
	Folds int
}

func (e *DegenerateSampleError) Error() string {
	return fmt.Sprintf("varimp: group %q importance sample is degenerate: zero variance with positive mean %g across %d folds", e.Group, e.Mean, e.Folds)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DegenerateSampleError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("group", e.Group).
		Float64("mean", e.Mean).
		Int("folds", e.Folds).
		Str("type", "DegenerateSampleError")
}

// NewDegenerateSampleError は新しいDegenerateSampleErrorを作成し、スタックトレースを付与します。
func NewDegenerateSampleError(group string, mean float64, folds int) error {
	err := &DegenerateSampleError{Group: group, Mean: mean, Folds: folds}
	return errors.WithStack(err)
}

// NotFittedError はモデルが未学習の状態で `Predict` や `Importances` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("varimp: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("varimp: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("varimp: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
