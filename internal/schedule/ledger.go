// Package schedule assigns pool clips to timeline segments under duration,
// cut-avoidance, and reuse constraints, with seed-reproducible randomness.
package schedule

import "sort"

type span struct {
	start, end int
}

// UsageLedger records, per source asset, which frame ranges one scheduling
// run has already committed. Ranges are quantized at the output frame rate so
// the overlap test is exact. A ledger lives for exactly one run.
type UsageLedger struct {
	spans map[string][]span
}

func NewLedger() *UsageLedger {
	return &UsageLedger{spans: make(map[string][]span)}
}

// Used reports whether any window of the asset has been committed.
func (l *UsageLedger) Used(assetID string) bool {
	return len(l.spans[assetID]) > 0
}

// Commits returns the number of windows committed for the asset.
func (l *UsageLedger) Commits(assetID string) int {
	return len(l.spans[assetID])
}

// Overlaps reports whether [startFrame, endFrame) intersects any committed
// range of the asset.
func (l *UsageLedger) Overlaps(assetID string, startFrame, endFrame int) bool {
	for _, s := range l.spans[assetID] {
		if startFrame < s.end && endFrame > s.start {
			return true
		}
	}
	return false
}

// Commit records a window. The per-asset list stays sorted by start frame.
func (l *UsageLedger) Commit(assetID string, startFrame, endFrame int) {
	spans := append(l.spans[assetID], span{start: startFrame, end: endFrame})
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	l.spans[assetID] = spans
}
