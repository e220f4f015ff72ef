// Package log defines standard attribute keys for training and prediction logs.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so that records from the regressor, the preprocessing
// helpers and the experiment driver can be filtered consistently.
package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model, e.g. "GDRegressor".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging.
	// Examples: "linear", "preprocessing", "experiment"
	ComponentKey = "ml.component"

	// ExperimentKey names a driver experiment, e.g. "raw" or "normalized".
	ExperimentKey = "ml.experiment"

	// RunIDKey ties together the experiments of one driver invocation.
	RunIDKey = "ml.run_id"
)

// Data Shape
// Features are rows and samples are columns throughout this module.
const (
	// SamplesKey indicates the number of samples (columns of X).
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (rows of X), bias included.
	FeaturesKey = "data.features"

	// DatasetPathKey records where a dataset was read from.
	DatasetPathKey = "data.path"
)

// Training progress and results
const (
	// EpochKey records the current epoch number during training.
	EpochKey = "training.epoch"

	// CostKey records the cost ‖yPred − y‖² / 2m at an epoch.
	CostKey = "training.cost"

	// ThetaKey records the parameter vector.
	ThetaKey = "training.theta"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// RMSEKey records the root mean squared error of a fitted model.
	RMSEKey = "metrics.rmse"

	// R2ScoreKey records R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"
)

// Hyperparameters
const (
	// LearningRateKey records alpha.
	LearningRateKey = "hyperparams.learning_rate"

	// EpochsKey records the configured number of epochs.
	EpochsKey = "hyperparams.epochs"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Output
const (
	// PlotPathKey records where a plot was written.
	PlotPathKey = "output.plot_path"

	// PredictionKey records a single prediction value.
	PredictionKey = "preds.value"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"
)
