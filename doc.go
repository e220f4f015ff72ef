// Package gdregression implements linear regression trained with batch
// gradient descent, together with the small toolkit needed to run it end to
// end: CSV loading, mean normalization, metrics, plots and a CLI.
//
// # Matrix orientation
//
// Every matrix is feature-major: X is (features × samples) with one sample
// per column, y is a (1 × samples) row, and theta is a column vector.
// preprocessing.AddOnes prepends the bias row of ones, so theta[0] is the
// intercept.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/gdregression/linear"
//	    "github.com/YuminosukeSato/gdregression/preprocessing"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    // y = 2x + 3
//	    X := mat.NewDense(1, 3, []float64{0, 1, 2})
//	    y := mat.NewDense(1, 3, []float64{3, 5, 7})
//
//	    model := linear.NewGDRegressor(0.1, 2000, linear.WithSeed(0))
//	    if err := model.Fit(preprocessing.AddOnes(X), y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pred, err := model.Predict(preprocessing.AddOnes(mat.NewDense(1, 2, []float64{5, 6})))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(pred))
//	}
//
// # Packages
//
//   - linear: GDRegressor, the batch gradient-descent regressor
//   - preprocessing: MeanNormalizer, AddOnes and PredictNormalized
//   - dataset: numeric CSV loading into feature-major matrices
//   - metrics: MSE, RMSE, MAE and R²
//   - plotting: fitted-line and cost-per-epoch charts (gonum/plot)
//   - experiment: the raw vs. normalized training driver
//   - config: YAML, environment and flag configuration
//   - core/model: estimator interfaces and base state
//   - pkg/errors, pkg/log: error types and structured logging
//
// The gdregress command (cmd/gdregress) runs both experiments from the
// command line:
//
//	gdregress run --dataset data/example.csv --out plots
package gdregression
