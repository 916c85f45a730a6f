// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config is everything the binaries need to wire themselves up.
type Config struct {
	// Port is the HTTP listen port for the API server.
	Port string

	// ProjectID and DatasetID locate the BigQuery record store. An empty
	// ProjectID selects the in-memory record store instead.
	ProjectID string
	DatasetID string

	// PlanBucket is the GCS bucket for archiving uploaded budget plans.
	// Empty disables archiving.
	PlanBucket string

	// GeminiAPIKey and GeminiModel configure the plan-feedback advisor. An
	// empty key leaves the advisor unconfigured (callers get a distinct
	// configuration error, not a generic failure).
	GeminiAPIKey string
	GeminiModel  string

	// SeedDemoData seeds new principals with demo records when running on
	// the in-memory store.
	SeedDemoData bool
}

// Load reads configuration from the environment. A missing .env file is not
// an error; explicit environment variables always win because godotenv does
// not overwrite existing values.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:         getenv("PORT", "8080"),
		ProjectID:    os.Getenv("GCP_PROJECT_ID"),
		DatasetID:    getenv("BQ_DATASET", "budgetbuddy"),
		PlanBucket:   os.Getenv("PLAN_BUCKET"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),
		SeedDemoData: os.Getenv("SEED_DEMO_DATA") == "true",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
