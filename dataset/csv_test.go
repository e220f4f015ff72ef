package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YuminosukeSato/gdregression/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		opts         []ReadOption
		wantX        *mat.Dense
		wantY        *mat.Dense
		wantFeatures []string
		wantTarget   string
	}{
		{
			name:         "header auto-detected, target last",
			input:        "temp,depth,y\n1,10,3\n2,20,5\n3,30,7\n",
			wantX:        mat.NewDense(2, 3, []float64{1, 2, 3, 10, 20, 30}),
			wantY:        mat.NewDense(1, 3, []float64{3, 5, 7}),
			wantFeatures: []string{"temp", "depth"},
			wantTarget:   "y",
		},
		{
			name:         "no header",
			input:        "0,3\n1,5\n2,7\n",
			wantX:        mat.NewDense(1, 3, []float64{0, 1, 2}),
			wantY:        mat.NewDense(1, 3, []float64{3, 5, 7}),
			wantFeatures: []string{"x0"},
			wantTarget:   "y",
		},
		{
			name:         "target column first",
			input:        "y,x\n3,0\n5,1\n",
			opts:         []ReadOption{WithTargetColumn(0)},
			wantX:        mat.NewDense(1, 2, []float64{0, 1}),
			wantY:        mat.NewDense(1, 2, []float64{3, 5}),
			wantFeatures: []string{"x"},
			wantTarget:   "y",
		},
		{
			name:         "semicolon delimiter with spaces and comments",
			input:        "# generated\n0; 3\n1; 5\n",
			opts:         []ReadOption{WithComma(';')},
			wantX:        mat.NewDense(1, 2, []float64{0, 1}),
			wantY:        mat.NewDense(1, 2, []float64{3, 5}),
			wantFeatures: []string{"x0"},
			wantTarget:   "y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Read(strings.NewReader(tt.input), tt.opts...)
			require.NoError(t, err)

			assert.True(t, mat.Equal(ds.X, tt.wantX), "X = %v", mat.Formatted(ds.X))
			assert.True(t, mat.Equal(ds.Y, tt.wantY), "Y = %v", mat.Formatted(ds.Y))
			assert.Equal(t, tt.wantFeatures, ds.FeatureNames)
			assert.Equal(t, tt.wantTarget, ds.TargetName)
			assert.Equal(t, tt.wantX.RawMatrix().Cols, ds.Samples())
			assert.Equal(t, tt.wantX.RawMatrix().Rows, ds.Features())
		})
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []ReadOption
		check func(t *testing.T, err error)
	}{
		{
			name:  "empty input",
			input: "",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, errors.ErrEmptyData))
			},
		},
		{
			name:  "header only",
			input: "x,y\n",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, errors.ErrEmptyData))
			},
		},
		{
			name:  "single column",
			input: "1\n2\n",
			check: func(t *testing.T, err error) {
				var valErr *errors.ValueError
				assert.True(t, errors.As(err, &valErr))
			},
		},
		{
			name:  "non numeric cell",
			input: "x,y\n1,2\n3,abc\n",
			check: func(t *testing.T, err error) {
				var valErr *errors.ValueError
				require.True(t, errors.As(err, &valErr))
				assert.Contains(t, valErr.Message, "sample 2, column 2")
			},
		},
		{
			name:  "ragged rows",
			input: "1,2\n3,4,5\n",
			check: func(t *testing.T, err error) {
				var modelErr *errors.ModelError
				assert.True(t, errors.As(err, &modelErr))
			},
		},
		{
			name:  "target out of range",
			input: "1,2\n3,4\n",
			opts:  []ReadOption{WithTargetColumn(5)},
			check: func(t *testing.T, err error) {
				var vErr *errors.ValidationError
				assert.True(t, errors.As(err, &vErr))
			},
		},
		{
			name:  "forced header on numeric data drops first row",
			input: "1,2\n",
			opts:  []ReadOption{WithHeader(true)},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, errors.ErrEmptyData))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.opts...)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n0,3\n1,5\n2,7\n"), 0o644))

	ds, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Samples())
	assert.Equal(t, 1, ds.Features())

	_, err = ReadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestReadCSV_ExampleData(t *testing.T) {
	ds, err := ReadCSV(filepath.Join("..", "data", "example.csv"))
	require.NoError(t, err)

	assert.Equal(t, 1, ds.Features())
	assert.Equal(t, 24, ds.Samples())
	assert.Equal(t, []string{"x"}, ds.FeatureNames)
}
