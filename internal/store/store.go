// Package store reads and writes the JSON artifacts the workflow moves
// between runs: scan inputs and curation session files.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/licensegate/licensegate/internal/cerr"
	"github.com/licensegate/licensegate/internal/models"
)

// SchemaVersion of the files this build writes
const SchemaVersion = 1

// Scan is the on-disk shape of a dependency scan
type Scan struct {
	Schema       int                 `json:"schema"`
	ID           string              `json:"id"`
	Project      string              `json:"project,omitempty"`
	CreatedAt    time.Time           `json:"createdAt,omitzero"`
	Dependencies []models.Dependency `json:"dependencies"`
}

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadScan from a JSON file
func (m *Manager) LoadScan(path string) (*Scan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cerr.NotFound("scan file", path)
		}
		return nil, fmt.Errorf("failed to read scan: %w", err)
	}

	var scan Scan
	if err := json.Unmarshal(data, &scan); err != nil {
		return nil, fmt.Errorf("failed to parse scan: %w", err)
	}

	// Files written before the schema field count as version 1
	if scan.Schema == 0 {
		scan.Schema = 1
	}
	if scan.Schema > SchemaVersion {
		return nil, cerr.Validationf("scan %s uses schema %d, this build reads up to %d", path, scan.Schema, SchemaVersion)
	}

	return &scan, nil
}

// SaveScan as indented JSON
func (m *Manager) SaveScan(scan *Scan, path string) error {
	scan.Schema = SchemaVersion
	return writeJSON(scan, path)
}

// LoadSession rehydrates a persisted session envelope. The caller wires
// it back into a live aggregate.
func (m *Manager) LoadSession(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cerr.NotFound("session file", path)
		}
		return fmt.Errorf("failed to read session: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse session: %w", err)
	}
	return nil
}

// SaveSession as indented JSON
func (m *Manager) SaveSession(session any, path string) error {
	return writeJSON(session, path)
}

func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
