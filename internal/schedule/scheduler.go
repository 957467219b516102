package schedule

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"github.com/beatcut/beatcut-agent/internal/cuts"
	"github.com/beatcut/beatcut-agent/internal/pool"
	"github.com/beatcut/beatcut-agent/internal/timeline"
)

// Pass names the relaxation level that produced an assignment.
type Pass string

const (
	PassStrict   Pass = "strict"   // asset unused so far
	PassRelaxed  Pass = "relaxed"  // asset reused, window does not overlap prior commits
	PassFallback Pass = "fallback" // overlap accepted
)

var ErrNoSegments = errors.New("no segments to schedule")

// InsufficientPoolError reports that a uniqueness-enforcing mode ran out of
// usable clips.
type InsufficientPoolError struct {
	Have int
	Need int
}

func (e *InsufficientPoolError) Error() string {
	return fmt.Sprintf("insufficient clip pool: have %d usable clips, need %d", e.Have, e.Need)
}

// Assignment binds one segment to a source window.
type Assignment struct {
	SegmentIndex    int     `json:"segment_index"`
	ClipID          string  `json:"clip_id"`
	AssetID         string  `json:"asset_id"`
	SourceStart     float64 `json:"source_start"`
	SourceEnd       float64 `json:"source_end"`
	CutFreeVerified bool    `json:"cut_free_verified"`
	ForcedReuse     bool    `json:"forced_reuse"`
	Degraded        bool    `json:"degraded,omitempty"`
	SelectionPass   Pass    `json:"selection_pass"`
}

// Options configures one scheduling run.
type Options struct {
	Seed Seed
	// EnforceUnique enables the Strict/Relaxed/Fallback relaxation ladder;
	// without it any qualifying clip is accepted immediately.
	EnforceUnique bool
	// CutBuffer is the clearance, in seconds, kept between a proposed window
	// and a preceding scene cut.
	CutBuffer float64
	// PreferEarliest takes the first qualifying cut-free gap instead of the
	// largest one.
	PreferEarliest bool
}

const DefaultCutBuffer = 0.25

// Scheduler assigns pool clips to segments. The pool and cut index are
// read-only shared state; every run owns a private ledger and generator, so
// parallel runs with independent seeds never interfere.
type Scheduler struct {
	pool   *pool.Pool
	cuts   *cuts.Index
	clock  timeline.Clock
	logger *slog.Logger
}

func New(p *pool.Pool, x *cuts.Index, clock timeline.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{pool: p, cuts: x, clock: clock, logger: logger}
}

// Schedule produces one assignment per segment in timeline order using the
// greedy multi-pass strategy. Earlier segments are never revisited; a segment
// that survives no pass falls back to the longest pool clip and is flagged
// degraded rather than dropped.
func (s *Scheduler) Schedule(segments []timeline.Segment, opts Options) ([]Assignment, error) {
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	if opts.CutBuffer <= 0 {
		opts.CutBuffer = DefaultCutBuffer
	}

	rng := opts.Seed.Rand()
	ledger := NewLedger()
	clipUses := make(map[string]int)
	assignments := make([]Assignment, 0, len(segments))

	for _, seg := range segments {
		required := math.Max(seg.DurationSeconds, seg.MinSourceDuration)
		candidates := s.gatherCandidates(required, rng)

		a, ok := s.assignSegment(seg, required, candidates, opts, ledger, clipUses)
		if !ok {
			a = s.degradedAssignment(seg)
			if s.logger != nil {
				s.logger.Warn("segment assignment degraded to longest clip",
					"segment", seg.Index,
					"required_duration", required,
					"clip_id", a.ClipID,
				)
			}
		}

		ledger.Commit(a.AssetID, s.clock.ToFrame(a.SourceStart), s.clock.ToFrame(a.SourceEnd))
		clipUses[a.ClipID]++
		assignments = append(assignments, a)
	}

	return assignments, nil
}

// gatherCandidates returns qualifying clip indices: the smallest qualifying
// bucket first, then the rest of the pool, each group shuffled independently
// so bucket preference survives the shuffle.
func (s *Scheduler) gatherCandidates(required float64, rng *rand.Rand) []int {
	preferred := s.pool.CandidatesFor(required)
	shuffle(preferred, rng)

	inPreferred := make(map[int]bool, len(preferred))
	for _, i := range preferred {
		inPreferred[i] = true
	}

	var rest []int
	for _, i := range s.pool.AllFor(required) {
		if !inPreferred[i] {
			rest = append(rest, i)
		}
	}
	shuffle(rest, rng)

	return append(preferred, rest...)
}

func shuffle(indices []int, rng *rand.Rand) {
	rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
}

func (s *Scheduler) assignSegment(seg timeline.Segment, required float64, candidates []int, opts Options, ledger *UsageLedger, clipUses map[string]int) (Assignment, bool) {
	passes := []Pass{PassStrict}
	if opts.EnforceUnique {
		passes = []Pass{PassStrict, PassRelaxed, PassFallback}
	}

	for _, pass := range passes {
		for _, idx := range candidates {
			clip := s.pool.Clip(idx)

			window, ok := s.proposeWindow(clip, required, clipUses[clip.ID], opts)
			if !ok {
				continue
			}

			if opts.EnforceUnique && !s.passAccepts(pass, clip.AssetID, window, ledger) {
				continue
			}

			return Assignment{
				SegmentIndex:    seg.Index,
				ClipID:          clip.ID,
				AssetID:         clip.AssetID,
				SourceStart:     window.Start,
				SourceEnd:       window.End,
				CutFreeVerified: s.cuts.Has(clip.AssetID),
				ForcedReuse:     pass == PassFallback,
				SelectionPass:   pass,
			}, true
		}
	}
	return Assignment{}, false
}

func (s *Scheduler) passAccepts(pass Pass, assetID string, w cuts.Window, ledger *UsageLedger) bool {
	switch pass {
	case PassStrict:
		return !ledger.Used(assetID)
	case PassRelaxed:
		return !ledger.Overlaps(assetID, s.clock.ToFrame(w.Start), s.clock.ToFrame(w.End))
	default:
		return true
	}
}

// proposeWindow picks a source window inside the clip. Repeat use walks the
// window forward through the clip's slack so reuse spreads across a long
// source instead of replaying its head. Windows containing a cut are rescued
// through the cut index or the candidate is discarded.
func (s *Scheduler) proposeWindow(clip pool.Clip, required float64, uses int, opts Options) (cuts.Window, bool) {
	if clip.Duration < required {
		return cuts.Window{}, false
	}

	offset := 0.0
	if uses > 0 {
		slack := clip.Duration - required
		if slack > 0 {
			offset = math.Mod(float64(uses)*required, slack)
		}
	}
	start := clip.Start + offset
	window := cuts.Window{Found: true, Start: start, End: start + required}

	if len(s.cuts.CutsInRange(clip.AssetID, window.Start, window.End)) == 0 {
		return window, true
	}

	rescued := s.cuts.FindCutFreeWindow(clip.AssetID, clip.Start, clip.End, required, opts.CutBuffer, opts.PreferEarliest)
	if !rescued.Found {
		return cuts.Window{}, false
	}
	return rescued, true
}

// degradedAssignment is the termination guarantee: the longest clip in the
// pool, untrimmed from its start.
func (s *Scheduler) degradedAssignment(seg timeline.Segment) Assignment {
	clip := s.pool.Clip(s.pool.Longest())
	return Assignment{
		SegmentIndex:  seg.Index,
		ClipID:        clip.ID,
		AssetID:       clip.AssetID,
		SourceStart:   clip.Start,
		SourceEnd:     clip.End,
		ForcedReuse:   true,
		Degraded:      true,
		SelectionPass: PassFallback,
	}
}

// ScheduleUnique is the deterministic no-reuse mode: segments are satisfied
// in descending duration order against a single shuffled pool, each clip used
// at most once. It fails fast with counts when the pool cannot cover the
// segments.
func (s *Scheduler) ScheduleUnique(segments []timeline.Segment, opts Options) ([]Assignment, error) {
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	if opts.CutBuffer <= 0 {
		opts.CutBuffer = DefaultCutBuffer
	}
	if s.pool.Len() < len(segments) {
		return nil, &InsufficientPoolError{Have: s.pool.Len(), Need: len(segments)}
	}

	order := make([]int, len(segments))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return requiredFor(segments[order[a]]) > requiredFor(segments[order[b]])
	})

	shuffled := make([]int, s.pool.Len())
	for i := range shuffled {
		shuffled[i] = i
	}
	shuffle(shuffled, opts.Seed.Rand())

	used := make([]bool, s.pool.Len())
	assignments := make([]Assignment, len(segments))

	for rank, segIdx := range order {
		seg := segments[segIdx]
		required := requiredFor(seg)

		assigned := false
		for _, idx := range shuffled {
			if used[idx] {
				continue
			}
			clip := s.pool.Clip(idx)
			if clip.Duration < required {
				continue
			}
			window, ok := s.proposeWindow(clip, required, 0, opts)
			if !ok {
				continue
			}
			used[idx] = true
			assignments[segIdx] = Assignment{
				SegmentIndex:    seg.Index,
				ClipID:          clip.ID,
				AssetID:         clip.AssetID,
				SourceStart:     window.Start,
				SourceEnd:       window.End,
				CutFreeVerified: s.cuts.Has(clip.AssetID),
				SelectionPass:   PassStrict,
			}
			assigned = true
			break
		}
		if !assigned {
			// Segments are sorted by descending requirement, so every
			// segment up to this rank needs at least this much footage.
			return nil, &InsufficientPoolError{
				Have: len(s.pool.AllFor(required)),
				Need: rank + 1,
			}
		}
	}

	return assignments, nil
}

func requiredFor(seg timeline.Segment) float64 {
	return math.Max(seg.DurationSeconds, seg.MinSourceDuration)
}
