// Package config resolves run-time defaults for the CLI from .env files
// and environment variables, the same dual-source layering the teacher's
// internal/config/config.go uses for its Jira binding: a binary-relative
// .env first, a working-directory .env second, individual environment
// variables as the final override.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the values resolved from .env files and environment
// variables. The CLI reads only MetricsAddr, as the fallback for
// `run --metrics-addr`. Nthread, Seed, Verbosity and the directories are
// resolved but not applied: a run takes its thread count and seed from the
// model file or the run flags, the logger computes its own log directory,
// and genfixture writes to its --out flag.
type AppConfig struct {
	Nthread     int
	Seed        int64
	Verbosity   int
	DataPath    string
	LogDir      string
	CacheDir    string
	MetricsAddr string
}

// Load loads configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for
	// a binary invoked from an arbitrary working directory).
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development).
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	cacheDir := filepath.Join(dataPath, "cache")

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", cacheDir).Msg("Failed to create cache directory")
	}

	nthread, _ := strconv.Atoi(getEnv("METASIM_NTHREAD", "1"))
	if nthread <= 0 {
		nthread = 1
	}
	seed, _ := strconv.ParseInt(getEnv("METASIM_SEED", "1"), 10, 64)
	verbosity, _ := strconv.Atoi(getEnv("METASIM_VERBOSITY", "0"))

	cfg := &AppConfig{
		Nthread:     nthread,
		Seed:        seed,
		Verbosity:   verbosity,
		DataPath:    dataPath,
		LogDir:      logDir,
		CacheDir:    cacheDir,
		MetricsAddr: getEnv("METASIM_METRICS_ADDR", ""),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
