package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	History   HistoryConfig
	Database  DatabaseConfig
	Server    ServerConfig
	OCR       OCRConfig
	Pipeline  PipelineConfig
	Catalogue CatalogueConfig
}

// HistoryConfig selects and locates the history store
type HistoryConfig struct {
	Backend             string // csv | sqlite | postgres
	Path                string // csv file or sqlite database
	SimilarityThreshold float64
}

// DatabaseConfig holds database-related configuration for the postgres backend
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr  string
	WatchDir  string
	ExportDir string
}

// OCRConfig holds text-extraction configuration
type OCRConfig struct {
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
}

// PipelineConfig holds batch processing configuration
type PipelineConfig struct {
	Workers    int
	JobTimeout time.Duration
}

// CatalogueConfig points at an optional task catalogue file
type CatalogueConfig struct {
	Path string
}

const (
	BackendCSV      = "csv"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		History: HistoryConfig{
			Backend:             getEnv("HISTORY_BACKEND", BackendCSV),
			Path:                getEnv("HISTORY_PATH", "berichte_historie.csv"),
			SimilarityThreshold: getEnvAsFloat64("HISTORY_SIMILARITY_THRESHOLD", 0.7),
		},
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			GRPCAddr:  getEnv("GRPC_ADDR", ":8080"),
			WatchDir:  getEnv("WATCH_DIR", ""),
			ExportDir: getEnv("EXPORT_DIR", "./exports"),
		},
		OCR: OCRConfig{
			TesseractLang: getEnv("TESSERACT_LANG", "deu"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
		},
		Pipeline: PipelineConfig{
			Workers:    getEnvAsInt("PIPELINE_WORKERS", 4),
			JobTimeout: getEnvAsDuration("PIPELINE_JOB_TIMEOUT", 3*time.Minute),
		},
		Catalogue: CatalogueConfig{
			Path: getEnv("CATALOGUE_PATH", ""),
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

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
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

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.History.Backend {
	case BackendCSV, BackendSQLite:
		if c.History.Path == "" {
			return NewAppError("CONFIG_ERROR", "HISTORY_PATH is required for the "+c.History.Backend+" backend", ErrInvalidInput)
		}
	case BackendPostgres:
		if c.Database.DSN == "" {
			return NewAppError("CONFIG_ERROR", "DB_URL is required for the postgres backend", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "HISTORY_BACKEND must be one of csv, sqlite, postgres", ErrInvalidInput)
	}
	if c.History.SimilarityThreshold <= 0 || c.History.SimilarityThreshold > 1 {
		return NewAppError("CONFIG_ERROR", "HISTORY_SIMILARITY_THRESHOLD must be in (0,1]", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	if c.Pipeline.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "PIPELINE_WORKERS must be at least 1", ErrInvalidInput)
	}
	return nil
}
