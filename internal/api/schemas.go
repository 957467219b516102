package api

import (
	"time"

	"github.com/beatcut/beatcut-agent/internal/catalog"
	"github.com/beatcut/beatcut-agent/internal/pool"
	"github.com/beatcut/beatcut-agent/internal/schedule"
	"github.com/beatcut/beatcut-agent/internal/timeline"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeS  int64  `json:"uptime_s"`
	DeviceID string `json:"device_id"`
}

type StatusResponse struct {
	State       string       `json:"state"`
	LastError   string       `json:"last_error,omitempty"`
	AssetsCount int          `json:"assets_count"`
	ClipsCount  int          `json:"clips_count"`
	JobsRunning int          `json:"jobs_running"`
	ActiveJob   *JobResponse `json:"active_job,omitempty"`
	TargetFPS   float64      `json:"target_fps"`
}

type ImportRequest struct {
	Path string `json:"path"`
}

type ImportResponse struct {
	JobID string `json:"job_id"`
}

type AssetResponse struct {
	ID              string  `json:"id"`
	DisplayName     string  `json:"display_name"`
	Path            string  `json:"path,omitempty"`
	FPS             float64 `json:"fps"`
	DurationSeconds float64 `json:"duration_seconds"`
	CutCount        int     `json:"cut_count"`
	CreatedAt       string  `json:"created_at"`
}

type AssetsResponse struct {
	Assets []AssetResponse `json:"assets"`
}

type CutsResponse struct {
	AssetID string    `json:"asset_id"`
	Cuts    []float64 `json:"cuts"`
}

type PoolResponse struct {
	Clips []pool.Clip `json:"clips"`
	Count int         `json:"count"`
}

type JobResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Path      string `json:"path,omitempty"`
	Progress  int    `json:"progress"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type JobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

// PlanRequest asks for one scheduling run. Mode is explicit, never inferred:
// "relaxed" runs the multi-pass ledger scheduler, "unique" the assign-once
// scheduler.
type PlanRequest struct {
	Grid timeline.Grid `json:"grid"`
	Seed schedule.Seed `json:"seed"`
	Mode string        `json:"mode"`

	// Optional overrides of the agent's scheduling profile.
	EnforceUnique  *bool    `json:"enforce_unique,omitempty"`
	CutBuffer      *float64 `json:"cut_buffer_seconds,omitempty"`
	PreferEarliest *bool    `json:"prefer_earliest,omitempty"`
	FrameBuffer    *int     `json:"frame_buffer,omitempty"`
}

type PlanResponse struct {
	RunID         string           `json:"run_id"`
	Seed          schedule.Seed    `json:"seed"`
	Mode          string           `json:"mode"`
	TargetFPS     float64          `json:"target_fps"`
	TotalFrames   int              `json:"total_frames"`
	SegmentCount  int              `json:"segment_count"`
	DegradedCount int              `json:"degraded_count"`
	Entries       []schedule.Entry `json:"entries"`
}

func AssetToResponse(a *catalog.Asset) AssetResponse {
	return AssetResponse{
		ID:              a.ID,
		DisplayName:     a.DisplayName,
		Path:            a.Path,
		FPS:             a.FPS,
		DurationSeconds: a.DurationSeconds,
		CutCount:        a.CutCount,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
	}
}

func JobToResponse(j *catalog.Job) JobResponse {
	return JobResponse{
		ID:        j.ID,
		Type:      j.Type,
		Status:    j.Status,
		Path:      j.Path,
		Progress:  j.Progress,
		Error:     j.Error,
		CreatedAt: j.CreatedAt.Format(time.RFC3339),
		UpdatedAt: j.UpdatedAt.Format(time.RFC3339),
	}
}
