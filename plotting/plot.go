// Package plotting renders the two diagnostic charts of a training run with
// gonum/plot: the fitted line over the data and the cost-vs-epoch curve.
//
// The output format follows the file extension of path (.png, .svg, .pdf, ...).
package plotting

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/gdregression/core/model"
	"github.com/YuminosukeSato/gdregression/pkg/errors"
	"github.com/YuminosukeSato/gdregression/preprocessing"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Size of the saved charts.
var (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// linePoints is the number of points used to draw the fitted line.
const linePoints = 100

// Result plots the first feature of X (features × samples, no bias row)
// against y and overlays the line predicted by p over the feature's range.
// The bias row is added before calling p.Predict.
func Result(X, y mat.Matrix, p model.Predictor, title, path string) error {
	n, m := X.Dims()
	ry, my := y.Dims()
	if n == 0 || m == 0 {
		return errors.NewModelError("plotting.Result", "empty data", errors.ErrEmptyData)
	}
	if ry != 1 {
		return errors.NewValueError("plotting.Result",
			fmt.Sprintf("y must be a row vector (1×m), got %d×%d", ry, my))
	}
	if my != m {
		return errors.NewDimensionError("plotting.Result", m, my, errors.AxisSamples)
	}

	pts := make(plotter.XYs, m)
	xs := make([]float64, m)
	for j := 0; j < m; j++ {
		xs[j] = X.At(0, j)
		pts[j].X = xs[j]
		pts[j].Y = y.At(0, j)
	}

	// Other features are held at their mean along the line.
	means := make([]float64, n)
	row := make([]float64, m)
	for i := 0; i < n; i++ {
		mat.Row(row, i, X)
		means[i] = floats.Sum(row) / float64(m)
	}

	grid := make([]float64, linePoints)
	floats.Span(grid, floats.Min(xs), floats.Max(xs))
	XLine := mat.NewDense(n, linePoints, nil)
	for j, x := range grid {
		XLine.Set(0, j, x)
		for i := 1; i < n; i++ {
			XLine.Set(i, j, means[i])
		}
	}

	pred, err := p.Predict(preprocessing.AddOnes(XLine))
	if err != nil {
		return errors.Wrap(err, "predict fitted line")
	}
	line := make(plotter.XYs, linePoints)
	for j, x := range grid {
		line[j].X = x
		line[j].Y = pred.At(0, j)
	}

	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "x"
	pl.Y.Label.Text = "y"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "scatter data")
	}
	scatter.GlyphStyle.Color = color.RGBA{B: 200, A: 255}

	fitted, err := plotter.NewLine(line)
	if err != nil {
		return errors.Wrap(err, "fitted line")
	}
	fitted.LineStyle.Color = color.RGBA{R: 220, A: 255}
	fitted.LineStyle.Width = vg.Points(2)

	pl.Add(scatter, fitted)
	pl.Legend.Add("data", scatter)
	pl.Legend.Add("fit", fitted)

	return save(pl, path)
}

// Costs plots the cost history, one point per epoch.
func Costs(costs []float64, title, path string) error {
	if len(costs) == 0 {
		return errors.NewModelError("plotting.Costs", "empty cost history", errors.ErrEmptyData)
	}

	pts := make(plotter.XYs, len(costs))
	for i, c := range costs {
		pts[i].X = float64(i + 1)
		pts[i].Y = c
	}

	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "epoch"
	pl.Y.Label.Text = "cost"

	l, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "cost line")
	}
	pl.Add(l, plotter.NewGrid())

	return save(pl, path)
}

func save(pl *plot.Plot, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create plot directory %s", dir)
		}
	}
	// vg backends panic on some inputs; report those as errors
	err := errors.SafeExecute("plotting.save", func() error {
		return pl.Save(Width, Height, path)
	})
	if err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
