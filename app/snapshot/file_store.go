package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/lysyi3m/prodwatch/app/prod"
)

// FileStore keeps one JSON file per prod id under a cache directory.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Prepare creates the cache directory, wiping it first when clear is set.
func (s *FileStore) Prepare(clear bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return PrepareDir(s.dir, clear)
}

// PrepareDir makes sure dir exists. With clear set any previous content,
// snapshot files and databases alike, is deleted first.
func PrepareDir(dir string, clear bool) error {
	if clear {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to delete cache directory %s: %w", dir, err)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	return nil
}

func (s *FileStore) Path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Load(id string) (*prod.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var resp prod.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", s.Path(id), err)
	}

	return &resp, nil
}

// Save replaces the snapshot atomically through a temp file and rename.
func (s *FileStore) Save(id string, resp *prod.Response) error {
	data, err := resp.Payload()
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.Path(id)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}

// IDs lists the prod ids that currently have a snapshot.
func (s *FileStore) IDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	ids := make([]string, 0, len(files))
	for _, file := range files {
		ids = append(ids, strings.TrimSuffix(filepath.Base(file), ".json"))
	}
	sort.Strings(ids)

	return ids, nil
}

func (s *FileStore) Close() error {
	return nil
}
