// Package export renders a generated plan into edit decision lists the
// rendering collaborator consumes.
package export

import "github.com/beatcut/beatcut-agent/internal/schedule"

type ExportRequest struct {
	ProjectName string           `json:"project_name"`
	Format      string           `json:"format"`
	FrameRate   float64          `json:"frame_rate"`
	OutputDir   string           `json:"output_dir"`
	Entries     []schedule.Entry `json:"entries"`
}

// ResolvedEntry is a plan entry whose asset has been resolved to a media file
// on disk.
type ResolvedEntry struct {
	ClipName  string
	MediaPath string
	Entry     schedule.Entry
}

type ExportResponse struct {
	Status          string   `json:"status"`
	Format          string   `json:"format"`
	OutputPath      string   `json:"output_path"`
	EntryCount      int      `json:"entry_count"`
	UnresolvedIDs   []string `json:"unresolved_ids"`
	DegradedEntries int      `json:"degraded_entries"`
}
