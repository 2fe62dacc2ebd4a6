package cache

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
	"time"

	"github.com/ccowmu/minutes/internal/model"
)

func TestWriteReadDocuments(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache"))

	raws := []model.RawDocument{
		{Slug: "2024-03-05", Title: "Budget | Vote", Content: "line one\nline two", Date: "2024-03-05", URL: "/minutes/2024-03-05/"},
		{ID: "7", Title: "Positional", Year: "2023"},
	}

	if err := c.WriteDocuments(raws); err != nil {
		t.Fatalf("WriteDocuments() error = %v", err)
	}
	if !c.Exists() {
		t.Fatal("Exists() = false after write")
	}

	got, err := c.ReadDocuments()
	if err != nil {
		t.Fatalf("ReadDocuments() error = %v", err)
	}
	if !reflect.DeepEqual(got, raws) {
		t.Errorf("ReadDocuments() = %+v, want %+v", got, raws)
	}

	n, err := c.Stats()
	if err != nil || n != 2 {
		t.Errorf("Stats() = %d, %v; want 2, nil", n, err)
	}

	// No temporary files are left behind
	entries, err := os.ReadDir(c.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("cache dir has %d entries, want 1", len(entries))
	}
}

func TestWriteDocuments_Replaces(t *testing.T) {
	c := New(t.TempDir())

	_ = c.WriteDocuments([]model.RawDocument{{Slug: "a"}, {Slug: "b"}})
	if err := c.WriteDocuments([]model.RawDocument{{Slug: "c"}}); err != nil {
		t.Fatalf("WriteDocuments() error = %v", err)
	}

	got, _ := c.ReadDocuments()
	if len(got) != 1 || got[0].Slug != "c" {
		t.Errorf("ReadDocuments() = %+v", got)
	}
}

func TestReadDocuments_NotCached(t *testing.T) {
	c := New(t.TempDir())

	if c.Exists() {
		t.Error("Exists() = true for empty cache")
	}
	if _, err := c.ReadDocuments(); !errors.Is(err, ErrNotCached) {
		t.Errorf("ReadDocuments() error = %v, want ErrNotCached", err)
	}
	if _, err := c.Stats(); !errors.Is(err, ErrNotCached) {
		t.Errorf("Stats() error = %v, want ErrNotCached", err)
	}
}

func TestReadDocuments_Corrupt(t *testing.T) {
	c := New(t.TempDir())
	if err := os.WriteFile(c.DocumentsPath(), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := c.ReadDocuments()
	if err == nil || errors.Is(err, ErrNotCached) {
		t.Errorf("ReadDocuments() error = %v, want a parse error", err)
	}
}

func TestSaveLoadLastFetchTime(t *testing.T) {
	c := New(t.TempDir())

	loaded, err := c.LoadLastFetchTime()
	if err != nil {
		t.Fatalf("LoadLastFetchTime() before save error = %v", err)
	}
	if !loaded.IsZero() {
		t.Errorf("first fetch should return zero time, got %v", loaded)
	}

	testTime := time.Now().UTC().Truncate(time.Second)
	if err := c.SaveLastFetchTime(testTime); err != nil {
		t.Fatalf("SaveLastFetchTime() error = %v", err)
	}

	loaded, err = c.LoadLastFetchTime()
	if err != nil {
		t.Fatalf("LoadLastFetchTime() error = %v", err)
	}
	if !loaded.Equal(testTime) {
		t.Errorf("loaded time = %v, want %v", loaded, testTime)
	}
}

func TestLoadLastFetchTime_Invalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, lastFetchFileName), []byte("yesterday"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(dir).LoadLastFetchTime(); err == nil {
		t.Error("LoadLastFetchTime() should fail on garbage")
	}
}

func TestSaveLoadSource(t *testing.T) {
	c := New(t.TempDir())

	if got, err := c.LoadSource(); err != nil || got != "" {
		t.Errorf("LoadSource() = %q, %v; want empty", got, err)
	}

	if err := c.SaveSource("https://cclub.example.org/index.json"); err != nil {
		t.Fatalf("SaveSource() error = %v", err)
	}
	if got, _ := c.LoadSource(); got != "https://cclub.example.org/index.json" {
		t.Errorf("LoadSource() = %q", got)
	}
}

func TestWriteDocuments_ReadOnlyDir(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission checks are not enforced here")
	}

	dir := t.TempDir()
	if err := os.Chmod(dir, 0555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

	if err := New(dir).WriteDocuments(nil); err == nil {
		t.Error("WriteDocuments() should fail in a read-only directory")
	}
}
