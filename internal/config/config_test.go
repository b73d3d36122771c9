package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"POS_API_URL", "HTTP_PORT", "RECEIPT_TARGET", "THERMAL_WIDTH", "LOGIN_RATE_PER_MIN", "PHARMACY_NAME"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	assert.Equal(t, "http://127.0.0.1:5000", cfg.APIBaseURL)
	assert.Equal(t, "5000", cfg.HTTPPort)
	assert.Equal(t, "window", cfg.ReceiptTarget)
	assert.Equal(t, 32, cfg.ThermalWidth)
	assert.Equal(t, 20, cfg.LoginRatePerMin)
	assert.Equal(t, "Pharmacy Management System", cfg.PharmacyName)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("POS_API_URL", "http://pos.local:8080")
	t.Setenv("RECEIPT_TARGET", "thermal")
	t.Setenv("THERMAL_ADDRESS", "10.0.0.9:9100")
	t.Setenv("THERMAL_WIDTH", "48")
	cfg := Load()
	assert.Equal(t, "http://pos.local:8080", cfg.APIBaseURL)
	assert.Equal(t, "thermal", cfg.ReceiptTarget)
	assert.Equal(t, "10.0.0.9:9100", cfg.ThermalAddress)
	assert.Equal(t, 48, cfg.ThermalWidth)
}

func TestLoadFallsBackOnInvalidNumbers(t *testing.T) {
	t.Setenv("HTTP_PORT", "http")
	t.Setenv("THERMAL_WIDTH", "-3")
	cfg := Load()
	assert.Equal(t, "5000", cfg.HTTPPort)
	assert.Equal(t, 32, cfg.ThermalWidth)
}
