package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Paths     PathsConfig
	OCR       OCRConfig
	Dashboard DashboardConfig
	Audit     AuditConfig
}

// PathsConfig holds the intake/outcome filesystem locations.
type PathsConfig struct {
	IntakeDir  string // new documents awaiting processing
	OutcomeDir string // parent for terminal buckets
	ScratchDir string // working/download scratch area
}

// OCRConfig holds OCR-related configuration.
type OCRConfig struct {
	Tesseract     string
	Pdftotext     string
	Pdftoppm      string
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
}

// DashboardConfig holds dashboard-client configuration.
type DashboardConfig struct {
	FixturePath  string // replay client records file (dry runs)
	SearchLimit  int
	CallTimeout  time.Duration
	LoginTimeout time.Duration // long: may wait on interactive OTP entry
	MaxRetries   int
}

// AuditConfig holds audit-store configuration.
type AuditConfig struct {
	DBPath string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			IntakeDir:  getEnv("INTAKE_DIR", "./ndnc/review_pending"),
			OutcomeDir: getEnv("OUTCOME_DIR", "./ndnc"),
			ScratchDir: getEnv("SCRATCH_DIR", "./ndnc/downloads"),
		},
		OCR: OCRConfig{
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
		},
		Dashboard: DashboardConfig{
			FixturePath:  getEnv("DASHBOARD_FIXTURE", ""),
			SearchLimit:  getEnvAsInt("DASHBOARD_SEARCH_LIMIT", 50),
			CallTimeout:  getEnvAsDuration("DASHBOARD_CALL_TIMEOUT", 30*time.Second),
			LoginTimeout: getEnvAsDuration("DASHBOARD_LOGIN_TIMEOUT", 5*time.Minute),
			MaxRetries:   getEnvAsInt("DASHBOARD_MAX_RETRIES", 3),
		},
		Audit: AuditConfig{
			DBPath: getEnv("AUDIT_DB", "./ndnc/audit.db"),
		},
	}
}

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	if c.Paths.IntakeDir == "" {
		return NewAppError("CONFIG_ERROR", "INTAKE_DIR is required", ErrInvalidInput)
	}
	if c.Paths.OutcomeDir == "" {
		return NewAppError("CONFIG_ERROR", "OUTCOME_DIR is required", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
