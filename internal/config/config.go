package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"sprintlens/internal/azdo"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	AzDO        azdo.Config
	DataPath    string
	CacheDir    string
	SprintsFile string
	HTTPAddr    string
	Offline     bool
	Catalog     *Catalog
}

// Load loads the configuration from .env files, environment variables and the sprint catalog.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exeDir := ExeDir()
	if exeDir != "" {
		envPath := filepath.Join(exeDir, ".env")
		if loadDotEnv(envPath) {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if !loadDotEnv(".env") {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	return FromEnv(exeDir)
}

// FromEnv builds the configuration from the current environment. baseDir is the
// fallback data directory when DATA_PATH is unset.
func FromEnv(baseDir string) (*AppConfig, error) {
	dataPath := DataPath(baseDir)
	cacheDir := CacheDir(dataPath)

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", cacheDir).Msg("Failed to create cache directory")
	}

	delayMs, err := strconv.Atoi(getEnv("AZDO_REQUEST_DELAY_MS", "250"))
	if err != nil || delayMs < 0 {
		log.Warn().Str("value", os.Getenv("AZDO_REQUEST_DELAY_MS")).Msg("Invalid AZDO_REQUEST_DELAY_MS, using 250")
		delayMs = 250
	}

	sprintsFile := getEnv("SPRINTS_FILE", filepath.Join(dataPath, "sprints.yaml"))
	catalog, err := LoadCatalog(sprintsFile)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", sprintsFile).Int("sprints", len(catalog.Sprints)).Msg("Sprint catalog loaded")

	cfg := &AppConfig{
		AzDO: azdo.Config{
			BaseURL:      getEnv("AZDO_BASE_URL", azdo.DefaultBaseURL),
			Organization: getEnv("AZDO_ORGANIZATION", ""),
			Project:      getEnv("AZDO_PROJECT", ""),
			Team:         getEnv("AZDO_TEAM", ""),
			PAT:          getEnv("AZDO_PAT", ""),
			RequestDelay: time.Duration(delayMs) * time.Millisecond,
		},
		DataPath:    dataPath,
		CacheDir:    cacheDir,
		SprintsFile: sprintsFile,
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		Offline:     getEnvBool("SPRINTLENS_OFFLINE", false),
		Catalog:     catalog,
	}

	return cfg, nil
}

// DataPath resolves DATA_PATH, falling back to baseDir and then the working directory.
func DataPath(baseDir string) string {
	if dataPath := os.Getenv("DATA_PATH"); dataPath != "" {
		return dataPath
	}
	if baseDir != "" {
		return baseDir
	}
	return "."
}

// CacheDir is where sprint snapshots live under a data path.
func CacheDir(dataPath string) string {
	return filepath.Join(dataPath, "cache")
}

// ExeDir returns the directory of the running binary, or "" when it cannot be resolved.
func ExeDir() string {
	exePath, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exePath)
}

// loadDotEnv loads path into the environment without overriding variables that are already set.
func loadDotEnv(path string) bool {
	return godotenv.Load(path) == nil
}

// HasCredentials reports whether a live Azure DevOps fetch can be attempted.
func (c *AppConfig) HasCredentials() bool {
	return c.AzDO.Organization != "" && c.AzDO.Project != "" && c.AzDO.PAT != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
