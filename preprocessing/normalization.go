package preprocessing

import (
	"fmt"
	"math"
	"strings"

	"github.com/YuminosukeSato/gdregression/core/model"
	"github.com/YuminosukeSato/gdregression/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Spread は平均を引いた後に割る散らばりの尺度
type Spread int

const (
	// SpreadRange は (最大値 − 最小値) で割る
	SpreadRange Spread = iota
	// SpreadStd は母標準偏差で割る
	SpreadStd
)

// String は尺度の名前を返す
func (s Spread) String() string {
	switch s {
	case SpreadRange:
		return "range"
	case SpreadStd:
		return "std"
	default:
		return fmt.Sprintf("Spread(%d)", int(s))
	}
}

// ParseSpread は "range" または "std" を Spread に変換する
func ParseSpread(s string) (Spread, error) {
	switch strings.ToLower(s) {
	case "range", "":
		return SpreadRange, nil
	case "std":
		return SpreadStd, nil
	default:
		return SpreadRange, errors.NewValidationError("spread", "must be \"range\" or \"std\"", s)
	}
}

// ゼロとみなす散らばりの閾値
const minSpread = 1e-8

// MeanNormalizer は平均正規化を行う変換器
//
// 行列の各行を1つの特徴量とみなし、行ごとに
//
//	x' = (x − mean) / spread
//
// を計算する。散らばりがほぼ0の行は spread = 1 として扱う。
type MeanNormalizer struct {
	model.BaseEstimator

	// Mean は各特徴量（行）の平均値
	Mean []float64

	// Scale は各特徴量（行）の散らばり
	Scale []float64

	// NFeatures は特徴量の数
	NFeatures int

	// Spread は使用する散らばりの尺度
	Spread Spread
}

// NewMeanNormalizer は新しいMeanNormalizerを作成する
//
// 使用例:
//
//	norm := preprocessing.NewMeanNormalizer(preprocessing.SpreadRange)
//	XNorm, err := norm.FitTransform(X)
func NewMeanNormalizer(spread Spread) *MeanNormalizer {
	return &MeanNormalizer{Spread: spread}
}

// Fit は各行の平均と散らばりを計算する
func (n *MeanNormalizer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MeanNormalizer.Fit", "empty data", errors.ErrEmptyData)
	}

	switch n.Spread {
	case SpreadRange, SpreadStd:
	default:
		return errors.NewValidationError("spread", "unknown spread", n.Spread)
	}

	n.NFeatures = r
	n.Mean = make([]float64, r)
	n.Scale = make([]float64, r)

	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, X)

		var spread float64
		if n.Spread == SpreadStd {
			n.Mean[i], spread = stat.PopMeanStdDev(row, nil)
		} else {
			n.Mean[i] = stat.Mean(row, nil)
			spread = floats.Max(row) - floats.Min(row)
		}

		// 定数特徴量の場合はゼロ除算を避ける
		if math.Abs(spread) < minSpread {
			spread = 1.0
		}
		n.Scale[i] = spread
	}

	n.SetFitted()
	return nil
}

// Transform は学習済みの統計量で正規化した新しい行列を返す
func (n *MeanNormalizer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !n.IsFitted() {
		return nil, errors.NewNotFittedError("MeanNormalizer", "Transform")
	}

	r, c := X.Dims()
	if r != n.NFeatures {
		return nil, errors.NewDimensionError("MeanNormalizer.Transform", n.NFeatures, r, 0)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return (v - n.Mean[i]) / n.Scale[i]
	}, X)

	return result, nil
}

// FitTransform は統計量を学習し、同じデータを変換する
func (n *MeanNormalizer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := n.Fit(X); err != nil {
		return nil, err
	}
	return n.Transform(X)
}

// InverseTransform は正規化されたデータを元のスケールに戻す
func (n *MeanNormalizer) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !n.IsFitted() {
		return nil, errors.NewNotFittedError("MeanNormalizer", "InverseTransform")
	}

	r, c := X.Dims()
	if r != n.NFeatures {
		return nil, errors.NewDimensionError("MeanNormalizer.InverseTransform", n.NFeatures, r, 0)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return v*n.Scale[i] + n.Mean[i]
	}, X)

	return result, nil
}

// GetParams は変換器のパラメータを取得する
func (n *MeanNormalizer) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"spread": n.Spread.String(),
	}
}

// String は変換器の文字列表現を返す
func (n *MeanNormalizer) String() string {
	if !n.IsFitted() {
		return fmt.Sprintf("MeanNormalizer(spread=%s)", n.Spread)
	}
	return fmt.Sprintf("MeanNormalizer(spread=%s, n_features=%d)", n.Spread, n.NFeatures)
}

// NormalizedDataset は X と y をそれぞれ独立に正規化した結果
type NormalizedDataset struct {
	X mat.Matrix
	Y mat.Matrix

	// 予測値を元のスケールに戻すために学習済みの変換器を保持する
	XNormalizer *MeanNormalizer
	YNormalizer *MeanNormalizer
}

// MeanNormalization は X (n × m) と y (1 × m) を独立に平均正規化する
// 入力は変更しない
func MeanNormalization(X, y mat.Matrix, spread Spread) (*NormalizedDataset, error) {
	xNorm := NewMeanNormalizer(spread)
	XN, err := xNorm.FitTransform(X)
	if err != nil {
		return nil, errors.Wrap(err, "normalize X")
	}

	yNorm := NewMeanNormalizer(spread)
	YN, err := yNorm.FitTransform(y)
	if err != nil {
		return nil, errors.Wrap(err, "normalize y")
	}

	return &NormalizedDataset{
		X:           XN,
		Y:           YN,
		XNormalizer: xNorm,
		YNormalizer: yNorm,
	}, nil
}

// AddOnes は先頭に 1 の行（切片用）を追加した (n+1 × m) の新しい行列を返す
// theta の先頭要素が切片になる
func AddOnes(X mat.Matrix) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r+1, c, nil)
	for j := 0; j < c; j++ {
		out.Set(0, j, 1.0)
	}
	out.Slice(1, r+1, 0, c).(*mat.Dense).Copy(X)
	return out
}

// PredictNormalized は正規化したデータで学習したモデルで、元のスケールの値を予測する
//
// xTest (n × m') を X の統計量で正規化し、切片行を追加して予測した後、
// 予測値を y の統計量で元のスケールに戻す。
func PredictNormalized(p model.Predictor, xTest mat.Matrix, xNorm, yNorm *MeanNormalizer) (mat.Matrix, error) {
	if xNorm == nil || yNorm == nil {
		return nil, errors.NewValueError("PredictNormalized", "normalizers must not be nil")
	}

	xt, err := xNorm.Transform(xTest)
	if err != nil {
		return nil, err
	}

	pred, err := p.Predict(AddOnes(xt))
	if err != nil {
		return nil, err
	}

	return yNorm.InverseTransform(pred)
}
