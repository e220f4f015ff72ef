package linear

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/gdregression/pkg/log"
)

// GDOption is a function that configures GDRegressor
type GDOption func(*GDRegressor)

// WithSeed seeds the source used to draw the initial theta.
// Two regressors built with the same seed start from the same theta.
func WithSeed(seed uint64) GDOption {
	return func(r *GDRegressor) {
		r.src = rand.NewPCG(seed, seed)
		r.seed = seed
		r.seeded = true
	}
}

// WithRandSource sets the source used to draw the initial theta.
// Sharing one source between regressors continues a single random stream.
func WithRandSource(src rand.Source) GDOption {
	return func(r *GDRegressor) {
		r.src = src
	}
}

// WithLogger sets the logger used for training progress
func WithLogger(logger log.Logger) GDOption {
	return func(r *GDRegressor) {
		r.logger = logger
	}
}

// WithProgressInterval logs the cost every n epochs at debug level.
// n <= 0 picks a tenth of the epochs.
func WithProgressInterval(n int) GDOption {
	return func(r *GDRegressor) {
		r.progressInterval = n
	}
}
