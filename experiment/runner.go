// Package experiment drives end-to-end training runs: load a CSV dataset,
// fit a GDRegressor on raw and on mean-normalized features, predict a
// configured example and write the diagnostic plots.
package experiment

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/YuminosukeSato/gdregression/config"
	"github.com/YuminosukeSato/gdregression/dataset"
	"github.com/YuminosukeSato/gdregression/linear"
	"github.com/YuminosukeSato/gdregression/metrics"
	"github.com/YuminosukeSato/gdregression/pkg/errors"
	"github.com/YuminosukeSato/gdregression/pkg/log"
	"github.com/YuminosukeSato/gdregression/plotting"
	"github.com/YuminosukeSato/gdregression/preprocessing"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// Experiment names.
const (
	Raw        = "raw"
	Normalized = "normalized"
)

// Report summarizes one experiment.
type Report struct {
	RunID      string
	Name       string
	Normalized bool

	Theta     []float64
	FinalCost float64
	Epochs    int

	// Example is the input that was predicted, Predictions the output in
	// the original target scale.
	Example     []float64
	Predictions []float64

	// Fit quality on the training data, in the original target scale.
	// R2 is NaN when the target is constant.
	RMSE float64
	R2   float64

	// Empty when plotting is disabled.
	ResultPlot string
	CostPlot   string

	Duration time.Duration
}

// Runner runs experiments described by a config.Config.
type Runner struct {
	cfg    config.Config
	logger log.Logger
}

// NewRunner creates a Runner. A nil logger uses the global one.
func NewRunner(cfg config.Config, logger log.Logger) *Runner {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Runner{
		cfg:    cfg,
		logger: logger.With(log.ComponentKey, "experiment"),
	}
}

// Run loads the dataset and runs the raw experiment followed by the
// normalized one. Both regressors draw their initial theta from one random
// stream seeded once with the configured seed.
//
// ctx is checked before each experiment; a fit that has started runs to
// completion.
func (r *Runner) Run(ctx context.Context) ([]Report, error) {
	ds, err := r.load()
	if err != nil {
		return nil, err
	}

	src := rand.NewPCG(r.cfg.Training.Seed, r.cfg.Training.Seed)
	runID := uuid.NewString()

	reports := make([]Report, 0, 2)
	for _, normalized := range []bool{false, true} {
		if err := ctx.Err(); err != nil {
			return reports, errors.Wrap(err, "experiment cancelled")
		}
		rep, err := r.run(runID, ds, normalized, src)
		if err != nil {
			return reports, err
		}
		reports = append(reports, *rep)
	}
	return reports, nil
}

// RunOne loads the dataset and runs a single experiment with a freshly
// seeded random source.
func (r *Runner) RunOne(ctx context.Context, normalized bool) (*Report, error) {
	ds, err := r.load()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "experiment cancelled")
	}
	src := rand.NewPCG(r.cfg.Training.Seed, r.cfg.Training.Seed)
	return r.run(uuid.NewString(), ds, normalized, src)
}

func (r *Runner) load() (*dataset.Dataset, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	ds, err := dataset.ReadCSV(r.cfg.Dataset.Path, dataset.WithTargetColumn(r.cfg.Dataset.TargetColumn))
	if err != nil {
		return nil, err
	}

	r.logger.Info("Dataset loaded",
		log.DatasetPathKey, r.cfg.Dataset.Path,
		log.SamplesKey, ds.Samples(),
		log.FeaturesKey, ds.Features(),
	)
	return ds, nil
}

func (r *Runner) run(runID string, ds *dataset.Dataset, normalized bool, src rand.Source) (*Report, error) {
	name := Raw
	if normalized {
		name = Normalized
	}
	logger := r.logger.With(
		log.RunIDKey, runID,
		log.ExperimentKey, name,
		log.RandomSeedKey, r.cfg.Training.Seed,
	)
	start := time.Now()

	example, err := exampleMatrix(r.cfg.Example, ds.Features())
	if err != nil {
		return nil, err
	}

	// Training data in the space the regressor sees.
	X, Y := mat.Matrix(ds.X), mat.Matrix(ds.Y)
	var norm *preprocessing.NormalizedDataset
	if normalized {
		spread, err := preprocessing.ParseSpread(r.cfg.Normalize.Spread)
		if err != nil {
			return nil, err
		}
		norm, err = preprocessing.MeanNormalization(ds.X, ds.Y, spread)
		if err != nil {
			return nil, err
		}
		X, Y = norm.X, norm.Y
	}

	reg := linear.NewGDRegressor(r.cfg.Training.Alpha, r.cfg.Training.Epochs,
		linear.WithRandSource(src),
		linear.WithLogger(logger),
		linear.WithProgressInterval(r.cfg.Training.ProgressInterval),
	)
	if err := reg.Fit(preprocessing.AddOnes(X), Y); err != nil {
		return nil, errors.Wrapf(err, "%s experiment", name)
	}

	// Predictions in the original target scale.
	predict := func(x mat.Matrix) (mat.Matrix, error) {
		if normalized {
			return preprocessing.PredictNormalized(reg, x, norm.XNormalizer, norm.YNormalizer)
		}
		return reg.Predict(preprocessing.AddOnes(x))
	}

	pred, err := predict(example)
	if err != nil {
		return nil, errors.Wrapf(err, "%s experiment: predict example", name)
	}
	trainPred, err := predict(ds.X)
	if err != nil {
		return nil, errors.Wrapf(err, "%s experiment: predict training data", name)
	}

	yTrue, err := metrics.RowVector("experiment", ds.Y)
	if err != nil {
		return nil, err
	}
	yPred, err := metrics.RowVector("experiment", trainPred)
	if err != nil {
		return nil, err
	}
	rmse, err := metrics.RMSE(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	// R² is undefined for a constant target; the fit itself is still valid.
	r2, err := metrics.R2Score(yTrue, yPred)
	switch {
	case errors.Is(err, errors.ErrZeroVariance):
		logger.Warn("R2 undefined for constant target", err)
		r2 = math.NaN()
	case err != nil:
		return nil, err
	}

	costs := reg.Costs()
	rep := &Report{
		RunID:       runID,
		Name:        name,
		Normalized:  normalized,
		Theta:       reg.Theta().RawVector().Data,
		FinalCost:   costs[len(costs)-1],
		Epochs:      reg.Epochs(),
		Example:     append([]float64(nil), r.cfg.Example...),
		Predictions: mat.Row(nil, 0, pred),
		RMSE:        rmse,
		R2:          r2,
	}

	if r.cfg.Output.Plots {
		rep.ResultPlot = filepath.Join(r.cfg.Output.Dir, fmt.Sprintf("%s_fit.%s", name, r.cfg.Output.Format))
		title := fmt.Sprintf("Linear regression (%s)", name)
		if err := plotting.Result(X, Y, reg, title, rep.ResultPlot); err != nil {
			return nil, err
		}
		logger.Info("Plot written", log.PlotPathKey, rep.ResultPlot)

		rep.CostPlot = filepath.Join(r.cfg.Output.Dir, fmt.Sprintf("%s_cost.%s", name, r.cfg.Output.Format))
		title = fmt.Sprintf("Cost per epoch (%s)", name)
		if err := plotting.Costs(costs, title, rep.CostPlot); err != nil {
			return nil, err
		}
		logger.Info("Plot written", log.PlotPathKey, rep.CostPlot)
	}

	rep.Duration = time.Since(start)
	logger.Info("Experiment finished",
		log.ThetaKey, rep.Theta,
		log.CostKey, rep.FinalCost,
		log.PredictionKey, rep.Predictions,
		log.RMSEKey, rep.RMSE,
		log.R2ScoreKey, rep.R2,
		log.DurationMsKey, rep.Duration.Milliseconds(),
	)
	return rep, nil
}

// exampleMatrix lays the flat example values out as (features × k).
func exampleMatrix(values []float64, features int) (*mat.Dense, error) {
	if len(values) == 0 || len(values)%features != 0 {
		return nil, errors.NewValueError("experiment",
			fmt.Sprintf("example has %d value(s), not a multiple of %d feature(s)", len(values), features))
	}
	data := append([]float64(nil), values...)
	return mat.NewDense(features, len(values)/features, data), nil
}
