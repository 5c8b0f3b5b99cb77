package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// UserError marks a configuration mistake the operator can fix themselves.
// The process exits with code 1 for these, 2 for everything else.
type UserError struct {
	msg string
}

func (e *UserError) Error() string { return e.msg }

func userErrf(format string, args ...any) error {
	return &UserError{msg: fmt.Sprintf(format, args...)}
}

// Config is the fully validated run configuration.
type Config struct {
	DataDir          string
	ClientID         string
	Password         string
	CloudURL         string
	LastDaysInterval int
	Debug            bool
}

// parameters mirrors the "parameters" object of {data}/config.json. The
// platform passes the OAuth secret under "#password" (encrypted at rest,
// decrypted before the component runs).
type parameters struct {
	ClientID         string `json:"client_id"`
	Password         string `json:"#password"`
	CloudURL         string `json:"cloud_url"`
	LastDaysInterval *int   `json:"last_days_interval"`
	Debug            bool   `json:"debug"`
}

type configFile struct {
	Parameters parameters `json:"parameters"`
}

// Load reads and validates {dataDir}/config.json. An empty dataDir falls
// back to KBC_DATADIR, then /data. A .env file in the working directory is
// loaded first so local runs can point KBC_DATADIR at a fixture tree.
func Load(dataDir string) (Config, error) {
	_ = godotenv.Load()

	if dataDir == "" {
		dataDir = os.Getenv("KBC_DATADIR")
	}
	if dataDir == "" {
		dataDir = "/data"
	}

	path := filepath.Join(dataDir, "config.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, userErrf("read configuration %s: %v", path, err)
	}

	var cf configFile
	if err := json.Unmarshal(raw, &cf); err != nil {
		return Config{}, userErrf("parse configuration %s: %v", path, err)
	}
	p := cf.Parameters

	if p.ClientID == "" {
		return Config{}, userErrf("missing required parameter %q", "client_id")
	}
	if p.Password == "" {
		return Config{}, userErrf("missing required parameter %q", "#password")
	}
	if p.CloudURL == "" {
		return Config{}, userErrf("missing required parameter %q", "cloud_url")
	}

	days := 1
	if p.LastDaysInterval != nil {
		if *p.LastDaysInterval < 1 {
			return Config{}, userErrf("last_days_interval must be >= 1, got %d", *p.LastDaysInterval)
		}
		days = *p.LastDaysInterval
	}

	return Config{
		DataDir:          dataDir,
		ClientID:         p.ClientID,
		Password:         p.Password,
		CloudURL:         p.CloudURL,
		LastDaysInterval: days,
		Debug:            p.Debug,
	}, nil
}

// OutTablesDir is where the run's CSV tables and manifests land.
func (c Config) OutTablesDir() string {
	return filepath.Join(c.DataDir, "out", "tables")
}
