package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnsureUserConfig makes sure a config file exists in the data dir,
// writing the defaults on first start, and returns its path.
func EnsureUserConfig(dataDir string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	b, err := yaml.Marshal(Default())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(userPath, b, 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}

// LoadDotenv pulls a .env file from the data dir into the environment.
// A missing file is fine.
func LoadDotenv(dataDir string) {
	_ = godotenv.Load(filepath.Join(dataDir, ".env"))
}

// ApplyEnv overlays a handful of environment overrides onto cfg.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("JOBSEARCH_ADDR"); v != "" {
		cfg.App.Addr = v
	}
	if v := os.Getenv("JOBSEARCH_DATA_DIR"); v != "" {
		cfg.App.DataDir = v
	}
	if v := os.Getenv("JOBSEARCH_HEADFUL"); v == "1" || v == "true" {
		cfg.Browser.Headless = false
	}
}
