// Package store persists tracked issue sets outside of the process so they
// survive cache eviction and restarts.
package store

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/issue-tracker/pkg/shared/files"
	"github.com/scan-io-git/issue-tracker/pkg/tracking"
)

// ErrNotFound is returned by Read when nothing was saved under the key.
var ErrNotFound = errors.New("no tracked issues stored for key")

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Store is a durable key to trackables mapping.
// ClientObject is process local state and is not persisted.
type Store interface {
	Save(key string, trackables []*tracking.Trackable) error
	Read(key string) ([]*tracking.Trackable, error)
	Contains(key string) bool
	Clear() error
	Close() error
}

// Lister is implemented by stores able to enumerate their keys.
type Lister interface {
	Keys() ([]string, error)
}

// Open creates the store selected by driver rooted at dir.
func Open(driver, dir string, logger hclog.Logger) (Store, error) {
	dir, err := files.ExpandPath(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand store path %q: %w", dir, err)
	}
	if err := files.CreateFolderIfNotExists(dir); err != nil {
		return nil, err
	}

	switch driver {
	case DriverFile, "":
		return NewFileStore(dir, logger)
	case DriverSQLite:
		return NewSQLiteStore(dir, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
