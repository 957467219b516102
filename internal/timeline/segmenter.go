package timeline

import (
	"errors"
	"fmt"
	"sort"
)

type Kind string

const (
	KindIntro Kind = "intro"
	KindBeat  Kind = "beat"
	KindRapid Kind = "rapid"
)

var (
	ErrEmptyGrid   = errors.New("timing grid has no duration")
	ErrBadGeometry = errors.New("segment geometry invalid")
)

// RapidRange marks a stretch of the timeline that cuts on a fixed sub-beat
// cadence instead of the sparse beat grid.
type RapidRange struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Interval float64 `json:"interval"`
}

// Grid is the timing input produced by the external audio analysis.
type Grid struct {
	DurationSeconds float64      `json:"duration_seconds"`
	TargetFPS       float64      `json:"target_fps"`
	BeatGrid        []float64    `json:"beat_grid"`
	RapidRanges     []RapidRange `json:"rapid_ranges"`
}

// Segment is one frame-quantized slice of the output timeline awaiting a
// source-clip assignment. Segments are contiguous and their frame counts sum
// to the timeline total.
type Segment struct {
	Index             int     `json:"index"`
	StartFrame        int     `json:"start_frame"`
	EndFrame          int     `json:"end_frame"`
	FrameCount        int     `json:"frame_count"`
	StartSeconds      float64 `json:"start_seconds"`
	EndSeconds        float64 `json:"end_seconds"`
	DurationSeconds   float64 `json:"duration_seconds"`
	Kind              Kind    `json:"kind"`
	MinSourceDuration float64 `json:"min_source_duration"`
}

// Segments expands a timing grid into the ordered segment list using
// DefaultFrameBuffer for the minimum source padding.
func Segments(grid Grid) ([]Segment, error) {
	return SegmentsWithBuffer(grid, DefaultFrameBuffer)
}

// SegmentsWithBuffer expands a timing grid into the ordered, contiguous
// segment list. Each change point opens a new segment; N change points yield
// N+1 segments plus the implicit intro unless a point lands on frame 0.
func SegmentsWithBuffer(grid Grid, frameBuffer int) ([]Segment, error) {
	clock, err := NewClock(grid.TargetFPS)
	if err != nil {
		return nil, err
	}
	if grid.DurationSeconds <= 0 {
		return nil, ErrEmptyGrid
	}

	total := clock.ToFrame(grid.DurationSeconds)
	if total <= 0 {
		return nil, ErrEmptyGrid
	}

	// Change-point frames, deduplicated. A frame hit by both a beat and a
	// rapid tick counts once; the rapid kind wins since the denser cadence
	// is what the cut expresses.
	points := make(map[int]Kind)
	for _, b := range grid.BeatGrid {
		f := clock.ToFrame(b)
		if f < 0 || f >= total {
			continue
		}
		points[f] = KindBeat
	}
	for _, rr := range grid.RapidRanges {
		start := clock.ToFrame(rr.Start)
		end := clock.ToFrame(rr.End)
		step := clock.ToFrame(rr.Interval)
		if step < 1 {
			step = 1
		}
		// Integer stepping keeps hundreds of ticks drift-free where
		// repeated float addition would wobble by a frame.
		for f := start; f <= end; f += step {
			if f < 0 || f >= total {
				continue
			}
			points[f] = KindRapid
		}
	}

	frames := make([]int, 0, len(points))
	for f := range points {
		frames = append(frames, f)
	}
	sort.Ints(frames)

	type boundary struct {
		frame int
		kind  Kind
	}
	bounds := make([]boundary, 0, len(frames)+1)
	if len(frames) == 0 || frames[0] != 0 {
		bounds = append(bounds, boundary{frame: 0, kind: KindIntro})
	}
	for _, f := range frames {
		bounds = append(bounds, boundary{frame: f, kind: points[f]})
	}

	segments := make([]Segment, 0, len(bounds))
	for i, b := range bounds {
		end := total
		if i+1 < len(bounds) {
			end = bounds[i+1].frame
		}
		count := end - b.frame
		if count <= 0 {
			// Only possible when a change point coincides with frame 0.
			continue
		}
		segments = append(segments, Segment{
			Index:             len(segments),
			StartFrame:        b.frame,
			EndFrame:          end,
			FrameCount:        count,
			StartSeconds:      clock.ToSeconds(b.frame),
			EndSeconds:        clock.ToSeconds(end),
			DurationSeconds:   clock.ToSeconds(count),
			Kind:              b.kind,
			MinSourceDuration: clock.MinSourceSeconds(count, frameBuffer),
		})
	}

	if err := validate(segments, total); err != nil {
		return nil, err
	}
	return segments, nil
}

// validate enforces the segmenter postcondition. A violation is a bug, never
// something to trim away quietly.
func validate(segments []Segment, totalFrames int) error {
	if len(segments) == 0 {
		return fmt.Errorf("%w: no segments for %d frames", ErrBadGeometry, totalFrames)
	}
	prev := 0
	sum := 0
	for _, s := range segments {
		if s.StartFrame != prev {
			return fmt.Errorf("%w: segment %d starts at frame %d, want %d", ErrBadGeometry, s.Index, s.StartFrame, prev)
		}
		if s.FrameCount <= 0 {
			return fmt.Errorf("%w: segment %d has frame count %d", ErrBadGeometry, s.Index, s.FrameCount)
		}
		prev = s.EndFrame
		sum += s.FrameCount
	}
	if sum != totalFrames {
		return fmt.Errorf("%w: segments cover %d frames, timeline has %d", ErrBadGeometry, sum, totalFrames)
	}
	return nil
}
