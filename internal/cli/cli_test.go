package cli

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jcrpanta/density-areas/area"
	"github.com/jcrpanta/density-areas/internal/config"
	"github.com/jcrpanta/density-areas/internal/logger"
	"github.com/jcrpanta/density-areas/quadrature"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")
	t.Cleanup(logger.Discard)

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// --- bracket ---

func TestBracket_ExactText(t *testing.T) {
	out, _, err := run(t, "bracket", "--manifold", "sphere", "--f", "theta", "--h", "phi")
	require.NoError(t, err)
	require.Equal(t, "1\n", out)
}

func TestBracket_JSON(t *testing.T) {
	out, _, err := run(t, "bracket", "-m", "torus", "--f", "theta1", "--h", "theta2", "--numerical", "-o", "json")
	require.NoError(t, err)

	var got bracketOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "torus", got.Manifold)
	require.Equal(t, "numerical", got.Mode)
	require.NotNil(t, got.Value)
	require.InDelta(t, 1, *got.Value, 1e-10)
	require.NotNil(t, got.AbsErr)
	_, err = uuid.Parse(got.RequestID)
	require.NoError(t, err)
}

func TestBracket_ParamsAndLaTeX(t *testing.T) {
	out, _, err := run(t, "bracket", "--tau", "k", "--f", "x1", "--h", "x2", "-o", "latex")
	require.NoError(t, err)
	require.Equal(t, "k\n", out)

	out, _, err = run(t, "bracket", "--tau", "k", "--f", "x1", "--h", "x2", "--param", "k=2")
	require.NoError(t, err)
	require.Equal(t, "2\n", out)

	_, _, err = run(t, "bracket", "--tau", "k", "--f", "x1", "--h", "x2", "--param", "k")
	require.ErrorContains(t, err, "expected name=value")

	_, _, err = run(t, "bracket", "--f", "x1", "--h", "x2", "--numerical", "-o", "latex")
	require.ErrorContains(t, err, "exact mode")
}

func TestBracket_Errors(t *testing.T) {
	_, _, err := run(t, "bracket", "--f", "x1")
	require.Error(t, err)

	_, _, err = run(t, "bracket", "-m", "klein", "--f", "x1", "--h", "x2")
	require.ErrorContains(t, err, "klein")

	_, _, err = run(t, "bracket", "--f", "x1 +", "--h", "x2")
	require.Error(t, err)
}

func TestBracket_LimitFlagAndDebugLog(t *testing.T) {
	_, logs, err := run(t, "--debug", "bracket", "--tau", "sin(200*x1)", "--f", "x1", "--h", "x2", "--numerical", "--limit", "1")
	require.ErrorIs(t, err, quadrature.ErrNotConverged)
	require.Contains(t, logs, "bracket.start")
	require.Contains(t, logs, "bracket.failed")
	require.Contains(t, logs, "request_id")
}

func TestBracket_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quadrature:\n  limit: 1\nlog:\n  format: text\n"), 0o644))

	_, logs, err := run(t, "--config", path, "bracket", "--tau", "sin(200*x1)", "--f", "x1", "--h", "x2", "--numerical")
	require.ErrorIs(t, err, quadrature.ErrNotConverged)
	require.Contains(t, logs, "msg=bracket.failed")

	_, _, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "bracket", "--f", "x1", "--h", "x2")
	require.ErrorIs(t, err, os.ErrNotExist)
}

// --- area ---

func TestArea_UnitField(t *testing.T) {
	out, logs, err := run(t, "area", "--field", "1/pi^3", "--i1", "0,pi", "--i2", "0, 2*pi", "-o", "json")
	require.NoError(t, err)

	var got areaOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.InDelta(t, 1, got.Value, 1e-9)
	require.InDelta(t, math.Pi, got.I1.Hi, 1e-15)
	require.InDelta(t, 2*math.Pi, got.I2.Hi, 1e-15)
	require.Equal(t, "1/pi^3", got.Field)
	require.Contains(t, logs, "area.done")
}

func TestArea_PlaceholderText(t *testing.T) {
	out, _, err := run(t, "area", "--i1", "0.5,2", "--i2", "1,4")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(out, "\n"))
	require.Contains(t, out, "±")
}

func TestArea_Errors(t *testing.T) {
	_, _, err := run(t, "area", "--i1", "0", "--i2", "1,4")
	require.ErrorContains(t, err, "--i1")

	_, _, err = run(t, "area", "--i1", "0,x", "--i2", "1,4")
	require.ErrorContains(t, err, "not a number")

	_, _, err = run(t, "area", "--field", "k*theta", "--i1", "0,1", "--i2", "1,4")
	require.Error(t, err)

	_, _, err = run(t, "area", "--i1", "0,1", "--i2", "1,4", "--param", "k=2")
	require.ErrorIs(t, err, area.ErrInvalidParam)
	require.ErrorContains(t, err, "--field")

	_, _, err = run(t, "area", "--i1", "0,1", "--i2", "1,4", "-o", "yaml")
	require.ErrorContains(t, err, "unsupported output")
}

// --- helpers ---

func TestParseParams(t *testing.T) {
	got, err := parseParams([]string{"k=2.5", " a = -1 "})
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"k": 2.5, "a": -1}, got)

	got, err = parseParams(nil)
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = parseParams([]string{"=1"})
	require.Error(t, err)
	_, err = parseParams([]string{"k=abc"})
	require.Error(t, err)
}

func TestParseInterval(t *testing.T) {
	iv, err := parseInterval("-1, pi/2")
	require.NoError(t, err)
	require.Equal(t, -1.0, iv.Lo)
	require.InDelta(t, math.Pi/2, iv.Hi, 1e-15)

	_, err = parseInterval("1,2,3")
	require.Error(t, err)
}
