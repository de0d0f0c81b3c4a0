package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/boshu2/daysince/internal/incident"
)

const (
	// DefaultHistoryFile is the history file name used when none is configured.
	DefaultHistoryFile = "last_incident.json"

	// fileMode keeps the history readable by CI jobs that commit it.
	fileMode = 0o644
)

var _ Store = (*FileStorage)(nil)

// FileStorage implements Store on a local JSON file.
type FileStorage struct {
	// Path is the history file location.
	Path string

	mu sync.Mutex
}

// FileStorageOption configures a FileStorage instance.
type FileStorageOption func(*FileStorage)

// WithPath sets the history file path.
func WithPath(path string) FileStorageOption {
	return func(fs *FileStorage) {
		if path != "" {
			fs.Path = path
		}
	}
}

// NewFileStorage creates a file-backed store.
func NewFileStorage(opts ...FileStorageOption) *FileStorage {
	fs := &FileStorage{
		Path: DefaultHistoryFile,
	}

	for _, opt := range opts {
		opt(fs)
	}

	return fs
}

// Location returns the history file path.
func (fs *FileStorage) Location() string { return fs.Path }

// Exists reports whether the history file is present.
func (fs *FileStorage) Exists() bool {
	_, err := os.Stat(fs.Path)
	return err == nil
}

// Load reads and validates the history file. A missing file is an empty
// history unless RequireSeed is given.
func (fs *FileStorage) Load(opts ...LoadOption) (incident.History, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.Path)
	if errors.Is(err, os.ErrNotExist) {
		return emptyOrRequired(fs.Path, o)
	}
	if err != nil {
		return incident.History{}, fmt.Errorf("read %s: %w", fs.Path, err)
	}

	records, err := decodeDocument(data)
	if err != nil {
		return incident.History{}, fmt.Errorf("%w: %s: %v", ErrCorruptHistory, fs.Path, err)
	}
	if len(records) == 0 {
		return emptyOrRequired(fs.Path, o)
	}

	return incident.NewHistory(records...), nil
}

// Save writes the whole history to a temp file and renames it over the
// original, so a crash never leaves a truncated history behind.
func (fs *FileStorage) Save(h incident.History) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.atomicWrite(fs.Path, func(w io.Writer) error {
		return encodeDocument(w, h)
	})
}

func emptyOrRequired(path string, o loadOptions) (incident.History, error) {
	if o.requireSeed {
		return incident.History{}, fmt.Errorf("%w: %s has no incidents (run 'daysince init' to seed it)", ErrEmptyButRequired, path)
	}
	return incident.History{}, nil
}

// decodeDocument parses the history document record by record so that errors
// name the offending entry.
func decodeDocument(data []byte) ([]incident.Record, error) {
	var raw struct {
		Incidents []json.RawMessage `json:"incidents"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	records := make([]incident.Record, 0, len(raw.Incidents))
	for i, msg := range raw.Incidents {
		var r incident.Record
		if err := json.Unmarshal(msg, &r); err != nil {
			return nil, fmt.Errorf("incident #%d: %v", i+1, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// encodeDocument writes the history as indented JSON with a trailing newline.
func encodeDocument(w io.Writer, h incident.History) error {
	doc := Document{Incidents: h.Records()}
	if doc.Incidents == nil {
		doc.Incidents = []incident.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // keep & in postmortem URLs readable
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// atomicWrite writes to a temp file and renames atomically.
func (fs *FileStorage) atomicWrite(path string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// Create temp file in same directory for atomic rename
	tmpFile, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath) //nolint:errcheck // cleanup in error path
		}
	}()

	if err := writeFunc(tmpFile); err != nil {
		_ = tmpFile.Close() //nolint:errcheck // cleanup in error path
		return fmt.Errorf("write content: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close() //nolint:errcheck // cleanup in error path
		return fmt.Errorf("sync file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, fs.targetMode(path)); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename to final: %w", err)
	}

	success = true
	return nil
}

// targetMode keeps the permissions of an existing history file.
func (fs *FileStorage) targetMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return fileMode
}
