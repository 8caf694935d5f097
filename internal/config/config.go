package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config carries everything the client injects into the sync controller:
// the daemon endpoint and every timer window. Nothing here is ambient; the
// controller receives the values explicitly at construction.
type Config struct {
	Endpoint         string
	RefreshMS        int // initial poll interval, clamped to [50,1000] downstream
	DebounceMS       int // resize settling window
	ErrorTTLMS       int // error display lifetime
	RequestTimeoutMS int
}

const (
	defaultConfigPath = "~/.config/lifeboard/config.toml"
	defaultEndpoint   = "127.0.0.1:8391"

	defaultRefreshMS        = 200
	defaultDebounceMS       = 500
	defaultErrorTTLMS       = 5000
	defaultRequestTimeoutMS = 5000
)

// Load locates and parses the lifeboard config, falling back to defaults
// when the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Endpoint         string `toml:"endpoint"`
		RefreshMS        int    `toml:"refresh_ms"`
		DebounceMS       int    `toml:"debounce_ms"`
		ErrorTTLMS       int    `toml:"error_ttl_ms"`
		RequestTimeoutMS int    `toml:"request_timeout_ms"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if endpoint := strings.TrimSpace(raw.Endpoint); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if raw.RefreshMS > 0 {
		cfg.RefreshMS = raw.RefreshMS
	}
	if raw.DebounceMS > 0 {
		cfg.DebounceMS = raw.DebounceMS
	}
	if raw.ErrorTTLMS > 0 {
		cfg.ErrorTTLMS = raw.ErrorTTLMS
	}
	if raw.RequestTimeoutMS > 0 {
		cfg.RequestTimeoutMS = raw.RequestTimeoutMS
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Endpoint:         defaultEndpoint,
		RefreshMS:        defaultRefreshMS,
		DebounceMS:       defaultDebounceMS,
		ErrorTTLMS:       defaultErrorTTLMS,
		RequestTimeoutMS: defaultRequestTimeoutMS,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
