package metrics

import (
	"math"

	"github.com/YuminosukeSato/gdregression/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// checkPair は2つのベクトルの長さを検証する
func checkPair(op string, yTrue, yPred mat.Vector) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 1)
	}
	return n, nil
}

// RowVector は (1 × m) の行列を長さ m のベクトルとして返す
func RowVector(op string, m mat.Matrix) (mat.Vector, error) {
	r, c := m.Dims()
	if r != 1 {
		return nil, errors.NewValueError(op, "must be a row vector (1×m matrix)")
	}
	if d, ok := m.(*mat.Dense); ok {
		return d.RowView(0), nil
	}
	v := mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		v.SetVec(j, m.At(0, j))
	}
	return v, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// HalfMSE は勾配降下法のコスト ‖yPred − y‖² / 2m を計算する
func HalfMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return mse / 2, nil
}

// MSERow は行ベクトル形式 (1 × m) の入力に対してMSEを計算する
func MSERow(yTrue, yPred mat.Matrix) (float64, error) {
	t, err := RowVector("MSERow", yTrue)
	if err != nil {
		return 0, err
	}
	p, err := RowVector("MSERow", yPred)
	if err != nil {
		return 0, err
	}
	return MSE(t, p)
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}

	return sum / float64(n), nil
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	values := make([]float64, n)
	for i := range values {
		values[i] = yTrue.AtVec(i)
	}
	yMean := stat.Mean(values, nil)

	// 全変動（TSS）と残差変動（RSS）
	var tss, rss float64
	for i := 0; i < n; i++ {
		yPredVal := yPred.AtVec(i)
		tss += (values[i] - yMean) * (values[i] - yMean)
		rss += (values[i] - yPredVal) * (values[i] - yPredVal)
	}

	// 全変動が0の場合（すべてのyTrueが同じ値）
	if tss == 0 {
		return 0, errors.NewModelError("R2Score", "total sum of squares is zero", errors.ErrZeroVariance)
	}

	return 1 - rss/tss, nil
}
