package schedule

import (
	"fmt"

	"github.com/beatcut/beatcut-agent/internal/timeline"
)

// AssetRef identifies the source window an entry plays.
type AssetRef struct {
	AssetID string  `json:"asset_id"`
	ClipID  string  `json:"clip_id,omitempty"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Entry is one renderer-facing plan row: a segment merged with its
// assignment.
type Entry struct {
	Index             int           `json:"index"`
	StartFrame        int           `json:"start_frame"`
	EndFrame          int           `json:"end_frame"`
	FrameCount        int           `json:"frame_count"`
	StartSeconds      float64       `json:"start_seconds"`
	EndSeconds        float64       `json:"end_seconds"`
	DurationSeconds   float64       `json:"duration_seconds"`
	Kind              timeline.Kind `json:"kind"`
	Asset             AssetRef      `json:"asset"`
	CutFreeVerified   bool          `json:"cut_free_verified"`
	ForcedReuse       bool          `json:"forced_reuse"`
	Degraded          bool          `json:"degraded,omitempty"`
	SelectionPass     Pass          `json:"selection_pass"`
	MinSourceDuration float64       `json:"min_source_duration"`
}

// BuildPlan merges segments with their assignments into the ordered entry
// list handed to the rendering collaborator.
func BuildPlan(segments []timeline.Segment, assignments []Assignment) ([]Entry, error) {
	if len(segments) != len(assignments) {
		return nil, fmt.Errorf("plan mismatch: %d segments, %d assignments", len(segments), len(assignments))
	}

	entries := make([]Entry, len(segments))
	for i, seg := range segments {
		a := assignments[i]
		if a.SegmentIndex != seg.Index {
			return nil, fmt.Errorf("plan mismatch: assignment %d targets segment %d", i, a.SegmentIndex)
		}
		entries[i] = Entry{
			Index:             seg.Index,
			StartFrame:        seg.StartFrame,
			EndFrame:          seg.EndFrame,
			FrameCount:        seg.FrameCount,
			StartSeconds:      seg.StartSeconds,
			EndSeconds:        seg.EndSeconds,
			DurationSeconds:   seg.DurationSeconds,
			Kind:              seg.Kind,
			MinSourceDuration: seg.MinSourceDuration,
			Asset: AssetRef{
				AssetID: a.AssetID,
				ClipID:  a.ClipID,
				Start:   a.SourceStart,
				End:     a.SourceEnd,
			},
			CutFreeVerified: a.CutFreeVerified,
			ForcedReuse:     a.ForcedReuse,
			Degraded:        a.Degraded,
			SelectionPass:   a.SelectionPass,
		}
	}
	return entries, nil
}
