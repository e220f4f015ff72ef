package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	gderrors "github.com/YuminosukeSato/gdregression/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologLogger_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("hidden", "k", 1)
	logger.Info("training started", OperationKey, OperationFit, SamplesKey, 3)
	logger.Warn("careful", "theta", []float64{1, 2})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "training started", lines[0]["message"])
	assert.Equal(t, "fit", lines[0][OperationKey])
	assert.Equal(t, 3.0, lines[0][SamplesKey])

	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, []interface{}{1.0, 2.0}, lines[1]["theta"])
}

func TestZerologLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug).With(ModelNameKey, "GDRegressor")

	logger.Debug("epoch", EpochKey, 10)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "GDRegressor", lines[0][ModelNameKey])
	assert.Equal(t, 10.0, lines[0][EpochKey])
}

func TestZerologLogger_ErrorWithTypedError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	err := gderrors.NewDimensionError("GDRegressor.Fit", 3, 5, 1)
	logger.Error("fit failed", err, OperationKey, OperationFit)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "error", lines[0]["level"])
	assert.Contains(t, lines[0]["error"], "samples mismatch")

	detail, ok := lines[0][ErrDetailAttrKey].(map[string]interface{})
	require.True(t, ok, "expected structured error detail")
	assert.Equal(t, "DimensionError", detail["type"])
	assert.Equal(t, 3.0, detail["expected"])
}

func TestZerologLogger_Enabled(t *testing.T) {
	logger := NewZerologLogger(&bytes.Buffer{}, LevelWarn)
	ctx := context.Background()

	assert.False(t, logger.Enabled(ctx, LevelDebug))
	assert.False(t, logger.Enabled(ctx, LevelInfo))
	assert.True(t, logger.Enabled(ctx, LevelWarn))
	assert.True(t, logger.Enabled(ctx, LevelError))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	require.NoError(t, SetupLogger("debug", "console"))
	assert.True(t, GetLogger().Enabled(context.Background(), LevelDebug))

	assert.Error(t, SetupLogger("debug", "xml"))
	assert.Error(t, SetupLogger("loud", "json"))
}

func TestTestLogger(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelInfo)

	testLogger.Debug("debug message")
	testLogger.Info("info message", "number", 42)
	testLogger.With(ComponentKey, "linear").Warn("warning message")
	testLogger.Error("error message", fmt.Errorf("boom"), "code", "X")

	assert.NotContains(t, buffer.String(), "debug message")
	assert.True(t, testLogger.ContainsMessage("info message"))
	assert.True(t, testLogger.ContainsField("number", 42.0))
	assert.True(t, testLogger.ContainsField(ComponentKey, "linear"))
	assert.True(t, testLogger.ContainsField("error", "boom"))
	assert.True(t, testLogger.ContainsField("code", "X"))

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	testLogger.Clear()
	assert.Empty(t, buffer.String())
}

func TestNonFiniteFloats(t *testing.T) {
	var buf bytes.Buffer
	NewZerologLogger(&buf, LevelInfo).Info("r2", R2ScoreKey, math.NaN())
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "NaN", lines[0][R2ScoreKey])

	testLogger, _ := NewTestLogger(LevelInfo)
	testLogger.Info("r2", R2ScoreKey, math.NaN(), CostKey, math.Inf(1))
	assert.True(t, testLogger.ContainsField(R2ScoreKey, "NaN"))
	assert.True(t, testLogger.ContainsField(CostKey, "+Inf"))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}
