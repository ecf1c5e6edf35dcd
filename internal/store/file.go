package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SchemaVersion is the current state file schema version.
const SchemaVersion = 1

// stateFile is the on-disk JSON document.
type stateFile struct {
	SchemaVersion int               `json:"schema_version"`
	Revision      string            `json:"revision,omitempty"`   // ULID, changes on every write
	UpdatedAt     int64             `json:"updated_at,omitempty"` // Unix timestamp of last write
	Entries       map[string]string `json:"entries"`
}

// FileKV implements KV as a single JSON file written atomically.
// A missing or corrupt file reads as empty.
type FileKV struct {
	mu     sync.RWMutex
	path   string
	logger *slog.Logger
	closed bool
}

// NewFileKV creates a FileKV backed by path, creating its directory if needed.
func NewFileKV(path string, logger *slog.Logger) (*FileKV, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return &FileKV{path: path, logger: logger}, nil
}

// Path returns the state file path.
func (f *FileKV) Path() string {
	return f.path
}

// Get returns the value for key.
func (f *FileKV) Get(key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return "", false, ErrClosed
	}

	state, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := state.Entries[key]
	return v, ok, nil
}

// Set stores value under key.
func (f *FileKV) Set(key, value string) error {
	return f.SetMany(map[string]string{key: value})
}

// SetMany stores all entries in a single write.
func (f *FileKV) SetMany(entries map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	state, err := f.load()
	if err != nil {
		return err
	}
	for k, v := range entries {
		state.Entries[k] = v
	}
	return f.save(state)
}

// Clear removes all stored values.
func (f *FileKV) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	return f.save(&stateFile{Entries: make(map[string]string)})
}

// Close marks the store closed. Later calls return ErrClosed.
func (f *FileKV) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Info describes the state file metadata.
type Info struct {
	Revision  string
	UpdatedAt time.Time
}

// Info returns the revision and last write time of the state file.
// Both are zero if the file has never been written.
func (f *FileKV) Info() (Info, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return Info{}, ErrClosed
	}

	state, err := f.load()
	if err != nil {
		return Info{}, err
	}

	info := Info{Revision: state.Revision}
	if state.UpdatedAt > 0 {
		info.UpdatedAt = time.Unix(state.UpdatedAt, 0)
	}
	return info, nil
}

// load reads the state file. Callers must hold the lock.
func (f *FileKV) load() (*stateFile, error) {
	empty := &stateFile{SchemaVersion: SchemaVersion, Entries: make(map[string]string)}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return empty, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		f.logger.Warn("state file is corrupt, treating as empty", "path", f.path, "error", err)
		return empty, nil
	}

	if state.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("unsupported schema version %d (max: %d)",
			state.SchemaVersion, SchemaVersion)
	}
	if state.Entries == nil {
		state.Entries = make(map[string]string)
	}
	return &state, nil
}

// save writes state atomically via a temp file. Callers must hold the lock.
func (f *FileKV) save(state *stateFile) error {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to generate revision: %w", err)
	}

	state.SchemaVersion = SchemaVersion
	state.Revision = id.String()
	state.UpdatedAt = now.Unix()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	// A unique temp file per write keeps concurrent processes from sharing one.
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
