// Package dataset loads numeric CSV files into the feature-major matrices
// used by the regressor: X is (features × samples) and Y is (1 × samples).
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/gdregression/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Dataset is a loaded CSV file.
type Dataset struct {
	// X holds one feature per row and one sample per column.
	X *mat.Dense
	// Y is the target as a row vector.
	Y *mat.Dense

	FeatureNames []string
	TargetName   string
}

// Samples returns the number of samples (columns of X).
func (d *Dataset) Samples() int {
	_, c := d.X.Dims()
	return c
}

// Features returns the number of features (rows of X).
func (d *Dataset) Features() int {
	r, _ := d.X.Dims()
	return r
}

type readOptions struct {
	target int
	header *bool
	comma  rune
}

// ReadOption configures Read and ReadCSV.
type ReadOption func(*readOptions)

// WithTargetColumn selects the target column. Negative values count from the
// end, so -1 (the default) is the last column.
func WithTargetColumn(i int) ReadOption {
	return func(o *readOptions) {
		o.target = i
	}
}

// WithHeader forces header handling instead of auto-detection.
func WithHeader(present bool) ReadOption {
	return func(o *readOptions) {
		o.header = &present
	}
}

// WithComma sets the field delimiter.
func WithComma(r rune) ReadOption {
	return func(o *readOptions) {
		o.comma = r
	}
}

// ReadCSV reads the CSV file at path.
func ReadCSV(path string, opts ...ReadOption) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()

	ds, err := Read(f, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "read dataset %s", path)
	}
	return ds, nil
}

// Read parses numeric CSV data from r.
//
// When no header option is given, the first record is treated as a header if
// any of its cells fails to parse as a number. Every other cell must be
// numeric and every record must have the same number of fields.
func Read(r io.Reader, opts ...ReadOption) (*Dataset, error) {
	o := readOptions{target: -1, comma: ','}
	for _, opt := range opts {
		opt(&o)
	}

	cr := csv.NewReader(r)
	cr.Comma = o.comma
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.NewModelError("dataset.Read", "malformed csv", err)
	}
	if len(records) == 0 {
		return nil, errors.NewModelError("dataset.Read", "empty data", errors.ErrEmptyData)
	}

	cols := len(records[0])
	if cols < 2 {
		return nil, errors.NewValueError("dataset.Read",
			fmt.Sprintf("need at least one feature and one target column, got %d column(s)", cols))
	}

	target := o.target
	if target < 0 {
		target += cols
	}
	if target < 0 || target >= cols {
		return nil, errors.NewValidationError("target_column", "out of range", o.target)
	}

	header := o.header != nil && *o.header
	if o.header == nil {
		header = !isNumericRecord(records[0])
	}

	names := make([]string, cols)
	if header {
		for j, h := range records[0] {
			names[j] = strings.TrimSpace(h)
		}
		records = records[1:]
	} else {
		for j := range names {
			names[j] = fmt.Sprintf("x%d", j)
		}
		names[target] = "y"
	}

	m := len(records)
	if m == 0 {
		return nil, errors.NewModelError("dataset.Read", "no samples after header", errors.ErrEmptyData)
	}

	n := cols - 1
	X := mat.NewDense(n, m, nil)
	Y := mat.NewDense(1, m, nil)

	for j, rec := range records {
		row := 0
		for c, cell := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, errors.NewValueError("dataset.Read",
					fmt.Sprintf("sample %d, column %d: %q is not a number", j+1, c+1, cell))
			}
			if c == target {
				Y.Set(0, j, v)
				continue
			}
			X.Set(row, j, v)
			row++
		}
	}

	featureNames := make([]string, 0, n)
	for c, name := range names {
		if c != target {
			featureNames = append(featureNames, name)
		}
	}

	return &Dataset{
		X:            X,
		Y:            Y,
		FeatureNames: featureNames,
		TargetName:   names[target],
	}, nil
}

func isNumericRecord(rec []string) bool {
	for _, cell := range rec {
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
			return false
		}
	}
	return true
}
