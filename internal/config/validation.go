package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scan-io-git/issue-tracker/internal/cache"
	"github.com/scan-io-git/issue-tracker/internal/store"
	"github.com/scan-io-git/issue-tracker/pkg/shared/files"
)

const maxCapacity = 100000

// ValidateConfig checks the configuration, applies environment overrides and
// fills in defaults.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateTrackerConfig(cfg); err != nil {
		return fmt.Errorf("YAML global config: tracker directive is invalid: %w", err)
	}
	if err := ValidateStoreConfig(cfg); err != nil {
		return fmt.Errorf("YAML global config: store directive is invalid: %w", err)
	}
	return nil
}

// ValidateTrackerConfig checks the cache settings and resolves the home folder.
func ValidateTrackerConfig(cfg *Config) error {
	if err := updateHome(cfg); err != nil {
		return fmt.Errorf("failed to update home folder: %w", err)
	}

	cfg.Tracker.Cache = strings.ToLower(SetThen(cfg.Tracker.Cache, cache.KindPersistent))
	switch cfg.Tracker.Cache {
	case cache.KindPersistent, cache.KindMemory:
	default:
		return fmt.Errorf("cache must be %q or %q, got %q", cache.KindPersistent, cache.KindMemory, cfg.Tracker.Cache)
	}

	cfg.Tracker.Capacity = SetThen(cfg.Tracker.Capacity, cache.DefaultCapacity)
	if cfg.Tracker.Capacity < 1 || cfg.Tracker.Capacity > maxCapacity {
		return fmt.Errorf("capacity must be between 1 and %d: %d", maxCapacity, cfg.Tracker.Capacity)
	}
	return nil
}

// ValidateStoreConfig checks the durable store settings.
func ValidateStoreConfig(cfg *Config) error {
	if driver := os.Getenv("SCANIO_TRACKER_STORE_DRIVER"); driver != "" {
		cfg.Store.Driver = driver
	}
	cfg.Store.Driver = strings.ToLower(SetThen(cfg.Store.Driver, store.DriverFile))
	switch cfg.Store.Driver {
	case store.DriverFile, store.DriverSQLite:
	default:
		return fmt.Errorf("driver must be %q or %q, got %q", store.DriverFile, store.DriverSQLite, cfg.Store.Driver)
	}

	cfg.Store.Path = SetThen(cfg.Store.Path, GetTrackerHome(cfg))
	expanded, err := files.ExpandPath(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to expand store path %q: %w", cfg.Store.Path, err)
	}
	cfg.Store.Path = expanded
	return nil
}

// updateHome sets the home folder from SCANIO_TRACKER_HOME, the config file
// or ~/.scanio/tracker, in this order.
func updateHome(cfg *Config) error {
	if home := os.Getenv("SCANIO_TRACKER_HOME"); home != "" {
		cfg.Tracker.HomeFolder = home
	} else if cfg.Tracker.HomeFolder == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("unable to get user home folder: %w", err)
		}
		cfg.Tracker.HomeFolder = filepath.Join(userHome, ".scanio", "tracker")
	}

	expanded, err := files.ExpandPath(cfg.Tracker.HomeFolder)
	if err != nil {
		return fmt.Errorf("failed to expand home path %q: %w", cfg.Tracker.HomeFolder, err)
	}
	cfg.Tracker.HomeFolder = expanded
	return nil
}
