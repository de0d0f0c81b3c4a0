package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boshu2/daysince/internal/incident"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewFileStorage_DefaultPath(t *testing.T) {
	fs := NewFileStorage()
	if fs.Path != DefaultHistoryFile {
		t.Errorf("Path = %q, want %q", fs.Path, DefaultHistoryFile)
	}
	fs = NewFileStorage(WithPath(""))
	if fs.Path != DefaultHistoryFile {
		t.Errorf("empty WithPath should keep default, got %q", fs.Path)
	}
}

func TestFileStorage_LoadMissingFile(t *testing.T) {
	fs := NewFileStorage(WithPath(filepath.Join(t.TempDir(), "missing.json")))

	h, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !h.Empty() {
		t.Errorf("expected empty history, got %d records", h.Len())
	}
	if fs.Exists() {
		t.Error("Exists() = true for missing file")
	}
	if fs.Location() != fs.Path {
		t.Errorf("Location() = %q, want %q", fs.Location(), fs.Path)
	}
}

func TestFileStorage_LoadRequireSeed(t *testing.T) {
	dir := t.TempDir()

	missing := NewFileStorage(WithPath(filepath.Join(dir, "missing.json")))
	if _, err := missing.Load(RequireSeed()); !errors.Is(err, ErrEmptyButRequired) {
		t.Errorf("missing file: expected ErrEmptyButRequired, got %v", err)
	}

	emptyPath := filepath.Join(dir, "empty.json")
	writeFile(t, emptyPath, `{"incidents": []}`)
	empty := NewFileStorage(WithPath(emptyPath))
	if _, err := empty.Load(RequireSeed()); !errors.Is(err, ErrEmptyButRequired) {
		t.Errorf("empty list: expected ErrEmptyButRequired, got %v", err)
	}
	if h, err := empty.Load(); err != nil || !h.Empty() {
		t.Errorf("empty list without RequireSeed: h=%d err=%v", h.Len(), err)
	}
}

func TestFileStorage_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"malformed json", `{"incidents": [`, ""},
		{"unparsable date", `{"incidents": [{"date": "2025-02-30", "description": "x"}]}`, "incident #1"},
		{"missing date", `{"incidents": [{"date": "2025-01-01"}, {"description": "x"}]}`, "incident #2"},
		{"wrong type", `{"incidents": {"date": "2025-01-01"}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "last_incident.json")
			writeFile(t, path, tt.content)

			_, err := NewFileStorage(WithPath(path)).Load()
			if !errors.Is(err, ErrCorruptHistory) {
				t.Fatalf("expected ErrCorruptHistory, got %v", err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestFileStorage_LoadSortsByDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_incident.json")
	writeFile(t, path, `{"incidents": [
		{"date": "2025-06-25", "description": "later"},
		{"date": "2025-05-14", "description": "earlier", "postmortem_link": "https://pm"}
	]}`)

	h, err := NewFileStorage(WithPath(path)).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if h.At(0).Description != "earlier" {
		t.Errorf("first record = %q, want earlier", h.At(0).Description)
	}
	if h.At(0).PostmortemURL != "https://pm" {
		t.Errorf("legacy postmortem_link not mapped: %+v", h.At(0))
	}
}

func TestFileStorage_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_incident.json")
	original := `{
  "incidents": [
    {
      "date": "2025-05-14",
      "description": "Start of tracking"
    },
    {
      "id": "7f1c2a9e-0000-4000-8000-000000000000",
      "date": "2025-06-25",
      "description": "Checkout errors",
      "severity": "Sev2",
      "postmortem_url": "https://wiki.example.com/pm?id=1&v=2"
    }
  ]
}
`
	writeFile(t, path, original)

	fs := NewFileStorage(WithPath(path))
	h, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := fs.Save(h); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Errorf("round trip changed file:\n got: %s\nwant: %s", data, original)
	}
}

func TestFileStorage_SaveOmitsEmptyOptionals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_incident.json")
	writeFile(t, path, `{"incidents": [
  {"date": "2025-05-14", "description": "Start of tracking", "severity": "", "postmortem_link": ""}
]}`)

	fs := NewFileStorage(WithPath(path))
	h, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := fs.Save(h); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	want := `{
  "incidents": [
    {
      "date": "2025-05-14",
      "description": "Start of tracking"
    }
  ]
}
`
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != want {
		t.Errorf("empty optional keys should be dropped on save:\n got: %s\nwant: %s", data, want)
	}
}

func TestFileStorage_SaveEmptyHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "last_incident.json")
	fs := NewFileStorage(WithPath(path))

	if err := fs.Save(incident.History{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"incidents": []`) {
		t.Errorf("empty history should persist an empty list, got %s", data)
	}
}

func TestFileStorage_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStorage(WithPath(filepath.Join(dir, "last_incident.json")))

	h := incident.NewHistory(incident.Record{Date: incident.MustParseDate("2025-01-01"), Description: "seed"})
	if err := fs.Save(h); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	files, _ := filepath.Glob(filepath.Join(dir, ".tmp-*"))
	if len(files) > 0 {
		t.Errorf("Temp files left behind: %v", files)
	}

	info, err := os.Stat(fs.Path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != fileMode {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), os.FileMode(fileMode))
	}
}

func TestFileStorage_SaveFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "last_incident.json")
	original := `{"incidents": [{"date": "2025-01-01", "description": "seed"}]}`
	writeFile(t, path, original)

	fs := NewFileStorage(WithPath(path))
	err := fs.atomicWrite(path, func(w io.Writer) error {
		if _, err := w.Write([]byte(`{"incidents": [`)); err != nil {
			return err
		}
		return errors.New("disk full")
	})
	if err == nil {
		t.Fatal("expected error from failing writer")
	}

	data, _ := os.ReadFile(path)
	if string(data) != original {
		t.Errorf("original file modified after failed write: %s", data)
	}
	files, _ := filepath.Glob(filepath.Join(dir, ".tmp-*"))
	if len(files) > 0 {
		t.Errorf("Temp files left behind: %v", files)
	}
}
