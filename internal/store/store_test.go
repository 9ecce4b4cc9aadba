package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/licensegate/licensegate/internal/cerr"
	"github.com/licensegate/licensegate/internal/models"
)

func TestScanRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.json")
	m := NewManager()

	scan := &Scan{
		ID:      "scan-1",
		Project: "demo",
		Dependencies: []models.Dependency{
			{ID: "npm:left-pad", Name: "left-pad", Version: "1.3.0", DeclaredLicenses: []string{"WTFPL"}},
		},
	}

	if err := m.SaveScan(scan, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !m.Exists(path) {
		t.Fatal("Exists should report the written file")
	}

	loaded, err := m.LoadScan(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Schema != SchemaVersion {
		t.Errorf("schema = %d, want %d", loaded.Schema, SchemaVersion)
	}
	if len(loaded.Dependencies) != 1 || loaded.Dependencies[0].ID != "npm:left-pad" {
		t.Errorf("dependencies = %+v", loaded.Dependencies)
	}
}

func TestLoadScanMissing(t *testing.T) {
	m := NewManager()
	_, err := m.LoadScan(filepath.Join(t.TempDir(), "nope.json"))
	if !cerr.IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestLoadScanSchemaChecks(t *testing.T) {
	dir := t.TempDir()
	m := NewManager()

	// pre-schema file counts as version 1
	legacy := filepath.Join(dir, "legacy.json")
	if err := os.WriteFile(legacy, []byte(`{"id":"old","dependencies":[]}`), 0644); err != nil {
		t.Fatal(err)
	}
	scan, err := m.LoadScan(legacy)
	if err != nil {
		t.Fatalf("load legacy: %v", err)
	}
	if scan.Schema != 1 {
		t.Errorf("legacy schema = %d, want 1", scan.Schema)
	}

	// future schema is refused
	future := filepath.Join(dir, "future.json")
	if err := os.WriteFile(future, []byte(`{"schema":99,"id":"new"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := m.LoadScan(future); !cerr.IsValidation(err) {
		t.Errorf("future schema: err = %v, want ValidationError", err)
	}
}

func TestLoadScanBadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager().LoadScan(path); err == nil {
		t.Fatal("malformed JSON must fail")
	}
}
