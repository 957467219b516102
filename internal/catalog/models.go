// Package catalog persists source assets, their cut catalogs, and the clip
// pool, and imports externally produced catalog documents from disk.
package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Asset is one source video known to the agent. Cut data and pool clips
// reference assets by id.
type Asset struct {
	ID              string    `json:"id"`
	DisplayName     string    `json:"display_name"`
	Path            string    `json:"path,omitempty"`
	FPS             float64   `json:"fps"`
	DurationSeconds float64   `json:"duration_seconds"`
	CutCount        int       `json:"cut_count"`
	CreatedAt       time.Time `json:"created_at"`
}

const (
	JobTypeImport = "import"

	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Job tracks one catalog import run.
type Job struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Path      string    `json:"path,omitempty"`
	Progress  int       `json:"progress"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConfigEntry is one key/value row of agent state (auth token, device id).
type ConfigEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

const (
	cutsSuffix = ".cuts.json"
	poolSuffix = ".pool.json"
)

func NewID() string {
	return uuid.NewString()
}

// IsCutsDocument reports whether the filename carries a cut catalog.
func IsCutsDocument(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), cutsSuffix)
}

// IsPoolDocument reports whether the filename carries a clip pool catalog.
func IsPoolDocument(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), poolSuffix)
}
