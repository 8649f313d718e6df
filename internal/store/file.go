package store

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/zstd"
	"github.com/natefinch/atomic"
	"golang.org/x/crypto/blake2b"

	"github.com/scan-io-git/issue-tracker/pkg/tracking"
)

const fileStoreExt = ".json.zst"

// FileStore keeps one zstd compressed JSON document per key in a directory.
// File names are derived from a digest of the key so any repository path is
// a valid key.
type FileStore struct {
	dir     string
	logger  hclog.Logger
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewFileStore creates a store writing into dir, which must exist.
func NewFileStore(dir string, logger hclog.Logger) (*FileStore, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &FileStore{
		dir:     dir,
		logger:  logger,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

func (s *FileStore) pathFor(key string) string {
	sum := blake2b.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+fileStoreExt)
}

// Save replaces the document of key.
func (s *FileStore) Save(key string, trackables []*tracking.Trackable) error {
	data, err := encode(key, trackables)
	if err != nil {
		return fmt.Errorf("failed to encode tracked issues of %q: %w", key, err)
	}
	compressed := s.encoder.EncodeAll(data, make([]byte, 0, len(data)/2))

	path := s.pathFor(key)
	if err := atomic.WriteFile(path, bytes.NewReader(compressed)); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	s.logger.Trace("tracked issues saved", "key", key, "count", len(trackables), "path", path)
	return nil
}

// Read loads the document of key, ErrNotFound when it was never saved.
func (s *FileStore) Read(key string) ([]*tracking.Trackable, error) {
	path := s.pathFor(key)
	compressed, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	data, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %q: %w", path, err)
	}
	storedKey, trackables, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	if storedKey != key {
		return nil, fmt.Errorf("%q holds issues of %q, not %q", path, storedKey, key)
	}
	return trackables, nil
}

// Contains reports whether a document exists for key.
func (s *FileStore) Contains(key string) bool {
	_, err := os.Stat(s.pathFor(key))
	return err == nil
}

// Clear removes every document of the store, leaving other files alone.
func (s *FileStore) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to list %q: %w", s.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileStoreExt) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %q: %w", entry.Name(), err)
		}
	}
	s.logger.Debug("file store cleared", "dir", s.dir)
	return nil
}

// Keys lists the keys of every readable document in lexical order.
func (s *FileStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", s.dir, err)
	}
	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileStoreExt) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		compressed, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", path, err)
		}
		data, err := s.decoder.DecodeAll(compressed, nil)
		if err != nil {
			s.logger.Warn("skipping unreadable document", "path", path, "error", err)
			continue
		}
		key, _, err := decode(data)
		if err != nil {
			s.logger.Warn("skipping unreadable document", "path", path, "error", err)
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close releases the codec resources.
func (s *FileStore) Close() error {
	s.decoder.Close()
	return s.encoder.Close()
}
