package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds application configuration values for both the terminal POS
// and the sandbox backend.
type Config struct {
	APIBaseURL string

	Secret          string
	DatabaseDSN     string
	HTTPPort        string
	SeedCSV         string
	AdminUsername   string
	AdminPassword   string
	LoginRatePerMin int

	PharmacyName    string
	PharmacyAddress string
	PharmacyPhone   string

	ReceiptTarget  string
	ReceiptDir     string
	BrowserBin     string
	ThermalAddress string
	ThermalWidth   int
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	cfg := Config{
		APIBaseURL:      getenv("POS_API_URL", "http://127.0.0.1:5000"),
		Secret:          getenv("SECRET", "dev_secret"),
		DatabaseDSN:     getenv("DATABASE_DSN", "pharmacy.db"),
		HTTPPort:        getenv("HTTP_PORT", "5000"),
		SeedCSV:         getenv("SEED_CSV", "assets/medicines.csv"),
		AdminUsername:   getenv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getenv("ADMIN_PASSWORD", "admin123"),
		PharmacyName:    getenv("PHARMACY_NAME", "Pharmacy Management System"),
		PharmacyAddress: os.Getenv("PHARMACY_ADDRESS"),
		PharmacyPhone:   os.Getenv("PHARMACY_PHONE"),
		ReceiptTarget:   getenv("RECEIPT_TARGET", "window"),
		ReceiptDir:      getenv("RECEIPT_DIR", "receipts"),
		BrowserBin:      os.Getenv("BROWSER_BIN"),
		ThermalAddress:  os.Getenv("THERMAL_ADDRESS"),
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 5000", cfg.HTTPPort)
		cfg.HTTPPort = "5000"
	}

	cfg.ThermalWidth = getenvInt("THERMAL_WIDTH", 32)
	cfg.LoginRatePerMin = getenvInt("LOGIN_RATE_PER_MIN", 20)

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("invalid %s value %q, defaulting to %d", key, raw, fallback)
		return fallback
	}
	return n
}
