// Package cuts answers "does this source window contain an internal scene
// cut" against precomputed per-asset cut catalogs, and proposes cut-free
// alternative windows when one does.
package cuts

import (
	"encoding/json"
	"math"
	"sort"
)

// Mark is a single scene-change timestamp. Catalog producers emit either a
// bare number of seconds or a richer object; both decode into a Mark.
type Mark struct {
	RawSeconds   float64 `json:"raw_seconds"`
	FrameSeconds float64 `json:"frame_seconds"`
	FrameIndex   int     `json:"frame_index"`
}

func (m *Mark) UnmarshalJSON(data []byte) error {
	var bare float64
	if err := json.Unmarshal(data, &bare); err == nil {
		*m = Mark{RawSeconds: bare, FrameSeconds: bare, FrameIndex: -1}
		return nil
	}

	type alias Mark
	var a alias
	a.FrameIndex = -1
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = Mark(a)
	return nil
}

// seconds resolves the mark to a timestamp, preferring the frame-exact forms
// and snapping raw seconds to the asset's frame grid when the rate is known.
func (m Mark) seconds(fps float64) float64 {
	if m.FrameSeconds > 0 {
		return m.FrameSeconds
	}
	if m.FrameIndex >= 0 && fps > 0 {
		return float64(m.FrameIndex) / fps
	}
	if fps > 0 {
		return math.Round(m.RawSeconds*fps) / fps
	}
	return m.RawSeconds
}

// Catalog is the externally produced cut list for one source asset.
type Catalog struct {
	AssetID string  `json:"asset_id"`
	FPS     float64 `json:"fps"`
	Cuts    []Mark  `json:"cuts"`
}

// Times normalizes the catalog to an ascending, deduplicated timestamp list.
func (c Catalog) Times() []float64 {
	times := make([]float64, 0, len(c.Cuts))
	for _, m := range c.Cuts {
		t := m.seconds(c.FPS)
		if t < 0 {
			continue
		}
		times = append(times, t)
	}
	sort.Float64s(times)

	dedup := times[:0]
	for i, t := range times {
		if i > 0 && t == times[i-1] {
			continue
		}
		dedup = append(dedup, t)
	}
	return dedup
}
