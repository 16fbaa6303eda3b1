package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Storer is a read-only keyed collection of validated specs.
type Storer[T ValidatingSpec] interface {
	Get(string) (T, bool)
	GetAll() map[string]T
}

// FileStore loads every .json, .yaml and .yml asset under a directory.
type FileStore[T ValidatingSpec] struct {
	path    string
	records map[string]T

	mu sync.RWMutex
}

func NewFileStore[T ValidatingSpec](path string) (*FileStore[T], error) {
	s := &FileStore[T]{
		path:    path,
		records: map[string]T{},
	}

	err := s.load()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore[T]) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = map[string]T{}

	err := filepath.WalkDir(s.path, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		decode := decoderFor(path)
		if decode == nil {
			return nil
		}

		asset, err := s.loadAsset(path, decode)
		if err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Base(path), err)
		}

		err = asset.Validate()
		if err != nil {
			return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
		}

		// Error if the key is already in use
		_, ok := s.records[asset.Id()]
		if ok {
			return fmt.Errorf("duplicate key detected: %s", asset.Id())
		}

		s.records[asset.Id()] = asset.Spec
		return nil
	})
	if err != nil {
		return err
	}

	slog.Debug("loaded assets", "path", s.path, "count", len(s.records))
	return nil
}

func (s *FileStore[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.records[id]
	return val, ok
}

func (s *FileStore[T]) GetAll() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vals := make(map[string]T, len(s.records))
	for id, v := range s.records {
		vals[id] = v
	}

	return vals
}

type decodeFunc func([]byte, any) error

func decoderFor(path string) decodeFunc {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Unmarshal
	case ".yaml", ".yml":
		return yaml.Unmarshal
	default:
		return nil
	}
}

func (s *FileStore[T]) loadAsset(path string, decode decodeFunc) (*Asset[T], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	// Ignoring close error - file is read-only, error is not actionable
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	asset := &Asset[T]{}
	err = decode(data, asset)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}

	return asset, nil
}

// MemoryStore holds specs built in code.
type MemoryStore[T ValidatingSpec] struct {
	records map[string]T
}

// NewMemoryStore validates every record the same way a file asset is validated.
func NewMemoryStore[T ValidatingSpec](records map[string]T) (*MemoryStore[T], error) {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s := &MemoryStore[T]{records: make(map[string]T, len(records))}
	for _, id := range ids {
		asset := &Asset[T]{Version: 1, Identifier: Identifier(id), Spec: records[id]}
		if err := asset.Validate(); err != nil {
			return nil, fmt.Errorf("validating %s: %w", id, err)
		}
		s.records[id] = records[id]
	}

	return s, nil
}

func (s *MemoryStore[T]) Get(id string) (T, bool) {
	val, ok := s.records[id]
	return val, ok
}

func (s *MemoryStore[T]) GetAll() map[string]T {
	vals := make(map[string]T, len(s.records))
	for id, v := range s.records {
		vals[id] = v
	}
	return vals
}
