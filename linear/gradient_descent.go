package linear

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/YuminosukeSato/gdregression/core/model"
	"github.com/YuminosukeSato/gdregression/metrics"
	"github.com/YuminosukeSato/gdregression/pkg/errors"
	"github.com/YuminosukeSato/gdregression/pkg/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// theta の初期値はこの範囲の一様分布から独立に引く
const (
	thetaInitMin = -10.0
	thetaInitMax = 10.0
)

// GDRegressor はバッチ勾配降下法で学習する線形回帰モデル
//
// 行列の向き:
//   - X: (n × m) 特徴量が行、サンプルが列。切片用の 1 の行は呼び出し側で追加する
//   - y: (1 × m) の行ベクトル
//   - theta: (n × 1) の列ベクトル
//
// 予測は yPred = thetaᵀ · X。
//
// コスト履歴は Fit を呼ぶたびに追記される（リセットされない）。
// 同じインスタンスで Fit を2回呼ぶと履歴は 2 × epochs 件になる。
// 明示的に消す場合は ResetCosts を使う。
type GDRegressor struct {
	model.BaseEstimator

	// ハイパーパラメータ
	alpha  float64 // 学習率
	epochs int     // エポック数（早期終了なし）

	// 学習パラメータ
	theta *mat.VecDense
	costs []float64

	// 初期化と進捗表示
	src              rand.Source
	seed             uint64
	seeded           bool
	logger           log.Logger
	progressInterval int
}

// NewGDRegressor は新しいGDRegressorを作成する
//
// alpha と epochs は検証しない。妥当な値を渡すのは呼び出し側の責任。
//
// 使用例:
//
//	reg := linear.NewGDRegressor(0.001, 50000, linear.WithSeed(0))
//	err := reg.Fit(XWithOnes, y)
func NewGDRegressor(alpha float64, epochs int, opts ...GDOption) *GDRegressor {
	r := &GDRegressor{
		alpha:  alpha,
		epochs: epochs,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.GetLogger()
	}
	r.logger = r.logger.With(log.ModelNameKey, "GDRegressor", log.ComponentKey, "linear")
	return r
}

// Fit はバッチ勾配降下法でモデルを学習させる
//
// 毎エポック:
//
//	yPred = thetaᵀX
//	cost  = ‖yPred − y‖² / 2m
//	grad  = (alpha / m) · X · (yPred − y)ᵀ
//	theta = theta − grad
//
// X と y のサンプル数が一致しない場合は学習を始める前に DimensionError を返す。
func (r *GDRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "GDRegressor.Fit")

	// 入力の検証
	n, m := X.Dims()
	ry, my := y.Dims()

	if n == 0 || m == 0 || ry == 0 || my == 0 {
		return errors.NewModelError("GDRegressor.Fit", "empty data", errors.ErrEmptyData)
	}

	if ry != 1 {
		return errors.NewValueError("GDRegressor.Fit",
			fmt.Sprintf("y must be a row vector (1×m), got %d×%d", ry, my))
	}

	if my != m {
		return errors.NewDimensionError("GDRegressor.Fit", m, my, 1)
	}

	logger := r.logger.With(log.OperationKey, log.OperationFit)
	startFields := []any{
		log.SamplesKey, m,
		log.FeaturesKey, n,
		log.LearningRateKey, r.alpha,
		log.EpochsKey, r.epochs,
	}
	if r.seeded {
		startFields = append(startFields, log.RandomSeedKey, r.seed)
	}
	logger.Info("Training started", startFields...)

	start := time.Now()
	theta := r.initTheta(n)

	interval := r.progressInterval
	if interval <= 0 {
		interval = max(r.epochs/10, 1)
	}
	debug := logger.Enabled(context.Background(), log.LevelDebug)

	yTrue, err := metrics.RowVector("GDRegressor.Fit", y)
	if err != nil {
		return err
	}

	fm := float64(m)
	var (
		yPred mat.Dense // (1 × m)
		resid mat.Dense // (1 × m)
		grad  mat.Dense // (n × 1)
		cost  float64
	)

	for epoch := 0; epoch < r.epochs; epoch++ {
		// 予測
		yPred.Mul(theta.T(), X)

		// コスト: 残差の二乗和を 2m で割る
		if cost, err = metrics.HalfMSE(yTrue, yPred.RowView(0)); err != nil {
			return err
		}

		// 勾配 (n × 1)
		resid.Sub(&yPred, y)
		grad.Mul(X, resid.T())
		grad.Scale(r.alpha/fm, &grad)

		// 更新則
		theta.SubVec(theta, grad.ColView(0))

		r.costs = append(r.costs, cost)

		if debug && (epoch+1)%interval == 0 {
			logger.Debug("Epoch finished", log.EpochKey, epoch+1, log.CostKey, cost)
		}
	}

	r.theta = theta
	r.SetFitted()

	logger.Info("Training finished",
		log.ThetaKey, vecData(theta),
		log.CostKey, cost,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return nil
}

// initTheta は theta (n × 1) を [-10, 10] の一様分布で初期化する
func (r *GDRegressor) initTheta(n int) *mat.VecDense {
	dist := distuv.Uniform{Min: thetaInitMin, Max: thetaInitMax, Src: r.src}
	theta := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		theta.SetVec(i, dist.Rand())
	}
	return theta
}

// Predict は thetaᵀX を (1 × m') の行ベクトルとして返す
func (r *GDRegressor) Predict(X mat.Matrix) (pred mat.Matrix, err error) {
	defer errors.Recover(&err, "GDRegressor.Predict")

	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("GDRegressor", "Predict")
	}

	rows, _ := X.Dims()
	if rows != r.theta.Len() {
		return nil, errors.NewDimensionError("GDRegressor.Predict", r.theta.Len(), rows, 0)
	}

	var out mat.Dense
	out.Mul(r.theta.T(), X)
	return &out, nil
}

// Score はモデルの決定係数（R²）を計算する
func (r *GDRegressor) Score(X, y mat.Matrix) (float64, error) {
	if !r.IsFitted() {
		return 0, errors.NewNotFittedError("GDRegressor", "Score")
	}

	yPred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}

	yTrue, err := metrics.RowVector("GDRegressor.Score", y)
	if err != nil {
		return 0, err
	}
	predVec, err := metrics.RowVector("GDRegressor.Score", yPred)
	if err != nil {
		return 0, err
	}

	return metrics.R2Score(yTrue, predVec)
}

// Theta は学習された theta のコピーを返す。未学習の場合は nil
func (r *GDRegressor) Theta() *mat.VecDense {
	if r.theta == nil {
		return nil
	}
	return mat.VecDenseCopyOf(r.theta)
}

// Costs はエポックごとのコスト履歴のコピーを返す
func (r *GDRegressor) Costs() []float64 {
	out := make([]float64, len(r.costs))
	copy(out, r.costs)
	return out
}

// ResetCosts はコスト履歴を空にする。theta は変更しない
func (r *GDRegressor) ResetCosts() {
	r.costs = nil
}

// Alpha は学習率を返す
func (r *GDRegressor) Alpha() float64 {
	return r.alpha
}

// Epochs はエポック数を返す
func (r *GDRegressor) Epochs() int {
	return r.epochs
}

// GetParams はハイパーパラメータを取得する
func (r *GDRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha":  r.alpha,
		"epochs": r.epochs,
	}
}

// String はモデルの文字列表現を返す
func (r *GDRegressor) String() string {
	if !r.IsFitted() {
		return fmt.Sprintf("GDRegressor(alpha=%g, epochs=%d)", r.alpha, r.epochs)
	}
	return fmt.Sprintf("GDRegressor(alpha=%g, epochs=%d, theta=%v)", r.alpha, r.epochs, vecData(r.theta))
}

func vecData(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
