package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCalibrationIsValid(t *testing.T) {
	require.NoError(t, DefaultCalibration().Validate())
}

func TestLoadCalibration(t *testing.T) {
	t.Run("partial override keeps defaults", func(t *testing.T) {
		path := writeCalibration(t, "flame_extreme_m: 4.0\nspotting_coeff_km: 0.1\n")

		cal, err := LoadCalibration(path)

		require.NoError(t, err)
		assert.Equal(t, 4.0, cal.FlameExtremeM)
		assert.Equal(t, 0.1, cal.SpottingCoeffKm)
		// Untouched fields keep their defaults.
		assert.Equal(t, DefaultCalibration().HeatYieldKJKg, cal.HeatYieldKJKg)
		assert.Equal(t, DefaultCalibration().FlameModerateM, cal.FlameModerateM)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCalibration(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read calibration")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeCalibration(t, "flame_extreme_m: [not a number\n")
		_, err := LoadCalibration(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse calibration")
	})

	t.Run("invalid override rejected", func(t *testing.T) {
		// Breakpoints out of order.
		path := writeCalibration(t, "flame_extreme_m: 1.0\n")
		_, err := LoadCalibration(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "breakpoints")
	})
}

func TestValidateConstraints(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Calibration)
	}{
		{"negative fuel gain", func(c *Calibration) { c.FuelLoadNDVIGain = -1 }},
		{"convex flame curve", func(c *Calibration) { c.FlameLengthExp = 1.5 }},
		{"zero heat yield", func(c *Calibration) { c.HeatYieldKJKg = 0 }},
		{"crown weights off unit sum", func(c *Calibration) { c.CrownWindWeight = 0.9 }},
		{"threat weights off unit sum", func(c *Calibration) { c.ThreatSeverityWeight = 0.9 }},
		{"crown breakpoints unordered", func(c *Calibration) { c.CrownHighScore = 10 }},
		{"zero burn window", func(c *Calibration) { c.BurnWindowAreaKm2 = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := DefaultCalibration()
			tt.mutate(&cal)
			assert.Error(t, cal.Validate())
		})
	}
}

func writeCalibration(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calibration.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
