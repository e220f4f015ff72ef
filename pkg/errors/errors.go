// Package errors は gdregression の各パッケージが返すエラー型をまとめる。
//
// 型付きエラーはすべて cockroachdb/errors でスタックトレースを記録し、
// zerolog.LogObjectMarshaler を実装するので pkg/log からは構造化フィールドとして出力される。
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// 全メッセージの先頭に付く接頭辞
const prefix = "gdregression: "

// 行列の軸。特徴量が行、サンプルが列
const (
	AxisFeatures = 0
	AxisSamples  = 1
)

// 共通の番兵エラー
var (
	// ErrEmptyData は行または列が 0 の行列を受け取ったことを表す
	ErrEmptyData = errors.New("empty data")

	// ErrZeroVariance は目的変数がすべて同じ値で、分散が 0 であることを表す
	ErrZeroVariance = errors.New("target has zero variance")
)

// stacked は呼び出し元の位置でスタックトレースを付ける
func stacked(err error) error {
	return errors.WithStackDepth(err, 1)
}

// NotFittedError は Fit 前に学習結果を使おうとした
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s%s: %s() called before Fit()", prefix, e.ModelName, e.Method)
}

func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("type", "NotFittedError").
		Str("model_name", e.ModelName).
		Str("method", e.Method)
}

// NewNotFittedError は modelName の method が未学習で呼ばれたことを表すエラーを返す
func NewNotFittedError(modelName, method string) error {
	return stacked(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError は行列の形が合わない
//
// Axis は AxisFeatures（行数の不一致）か AxisSamples（列数の不一致）
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

func (e *DimensionError) axisName() string {
	if e.Axis == AxisFeatures {
		return "features"
	}
	return "samples"
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s%s: %s mismatch (axis %d): expected %d, got %d",
		prefix, e.Op, e.axisName(), e.Axis, e.Expected, e.Got)
}

func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("type", "DimensionError").
		Str("operation", e.Op).
		Str("axis_name", e.axisName()).
		Int("axis", e.Axis).
		Int("expected", e.Expected).
		Int("got", e.Got)
}

// NewDimensionError は op で axis 方向の大きさが expected でなく got だったことを表す
func NewDimensionError(op string, expected, got, axis int) error {
	return stacked(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValidationError は設定値やオプションが許される範囲にない
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%sinvalid %s=%v: %s", prefix, e.ParamName, e.Value, e.Reason)
}

func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("type", "ValidationError").
		Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value)
}

// NewValidationError は param の値 value が reason により不正であることを表す
func NewValidationError(param, reason string, value interface{}) error {
	return stacked(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError は入力データそのものが不正（数値でない CSV セル、行ベクトルでない y など）
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s%s: %s", prefix, e.Op, e.Message)
}

func (e *ValueError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("type", "ValueError").
		Str("operation", e.Op).
		Str("message", e.Message)
}

func NewValueError(op, message string) error {
	return stacked(&ValueError{Op: op, Message: message})
}

// ModelError は op の失敗を種類 Kind で分類し、原因 Err を保持する
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s%s: %s", prefix, e.Op, e.Kind)
	}
	return fmt.Sprintf("%s%s: %s: %v", prefix, e.Op, e.Kind, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

func NewModelError(op, kind string, err error) error {
	return stacked(&ModelError{Op: op, Kind: kind, Err: err})
}

// cockroachdb/errors の関数をそのまま公開し、呼び出し側の import を一つにする
var (
	Is    = errors.Is
	As    = errors.As
	Wrap  = errors.Wrap
	Wrapf = errors.Wrapf
)
