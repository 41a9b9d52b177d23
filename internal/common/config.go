package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Tools ToolsConfig
	OCR   OCRConfig
}

// ToolsConfig holds the external tool binaries the pipeline shells out to.
// Any of them may be absent on the host; the corresponding stage is then
// skipped rather than failing the document.
type ToolsConfig struct {
	Pdftotext string
	Pdftoppm  string
	Tesseract string
	Rotator   string // "magick" or "convert"

	Timeout   time.Duration // per subprocess invocation
	MaxOutput int64         // stdout/stderr cap per invocation, bytes
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Languages string // tesseract -l value
	DPI       int    // rasterization DPI for scanned PDFs
	TempDir   string // base dir for raster artifacts; "" = os.TempDir
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Tools: ToolsConfig{
			Pdftotext: getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:  getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract: getEnv("TESSERACT_BIN", "tesseract"),
			Rotator:   getEnv("ROTATOR_BIN", "magick"),
			Timeout:   getEnvAsDuration("TOOL_TIMEOUT", 45*time.Second),
			MaxOutput: getEnvAsInt64("TOOL_MAX_OUTPUT", 10<<20),
		},
		OCR: OCRConfig{
			Languages: getEnv("OCR_LANGUAGES", "fra+eng"),
			DPI:       getEnvAsInt("OCR_DPI", 300),
			TempDir:   getEnv("OCR_TEMP_DIR", ""),
		},
	}
}

// Helper functions for environment variable parsing
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
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

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Tools.Timeout <= 0 {
		return NewAppError("CONFIG_ERROR", "TOOL_TIMEOUT must be positive", ErrInvalidInput)
	}
	if c.Tools.MaxOutput <= 0 {
		return NewAppError("CONFIG_ERROR", "TOOL_MAX_OUTPUT must be positive", ErrInvalidInput)
	}
	if c.OCR.DPI < 72 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be at least 72", ErrInvalidInput)
	}
	return nil
}
