package cuts

import (
	"sort"
)

// Window is a proposed cut-free source range.
type Window struct {
	Found bool    `json:"found"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Index holds the sorted cut times for every known asset. It is loaded once
// and read-only afterwards, so concurrent scheduling runs may share it.
type Index struct {
	assets map[string][]float64
}

func NewIndex() *Index {
	return &Index{assets: make(map[string][]float64)}
}

// Load registers one asset's catalog, replacing any previous entry.
func (x *Index) Load(cat Catalog) {
	x.assets[cat.AssetID] = cat.Times()
}

// LoadTimes registers pre-normalized cut times for an asset.
func (x *Index) LoadTimes(assetID string, times []float64) {
	sorted := append([]float64(nil), times...)
	sort.Float64s(sorted)
	x.assets[assetID] = sorted
}

// Has reports whether cut data exists for the asset. A missing asset is not
// an error; callers treat it as cut-free.
func (x *Index) Has(assetID string) bool {
	_, ok := x.assets[assetID]
	return ok
}

func (x *Index) Assets() int {
	return len(x.assets)
}

// CutsInRange returns the asset's cut times inside [start, end] in ascending
// order, in O(log n + k).
func (x *Index) CutsInRange(assetID string, start, end float64) []float64 {
	times := x.assets[assetID]
	lo := sort.SearchFloat64s(times, start)
	hi := sort.SearchFloat64s(times, end)
	for hi < len(times) && times[hi] == end {
		hi++
	}
	if lo >= hi {
		return nil
	}
	return times[lo:hi:hi]
}

// FindCutFreeWindow searches [clipStart, clipEnd] for a window of exactly
// requiredDuration that contains no cut. Windows that do not abut the clip's
// own start keep buffer seconds clear of the preceding cut. With
// preferEarliest the first qualifying gap wins; otherwise the largest one.
func (x *Index) FindCutFreeWindow(assetID string, clipStart, clipEnd, requiredDuration, buffer float64, preferEarliest bool) Window {
	if !x.Has(assetID) {
		return Window{Found: true, Start: clipStart, End: clipStart + requiredDuration}
	}

	var best Window
	var bestGap float64

	for _, gap := range x.gaps(assetID, clipStart, clipEnd) {
		length := gap.end - gap.start
		if length < requiredDuration+buffer {
			continue
		}
		start := gap.start
		if !gap.first {
			start += buffer
		}
		w := Window{Found: true, Start: start, End: start + requiredDuration}
		if preferEarliest {
			return w
		}
		if length > bestGap {
			bestGap = length
			best = w
		}
	}
	return best
}

// FindAllCutFreeWindows tiles every qualifying gap with as many
// non-overlapping requiredDuration windows as fit, for splitting one long
// source into several independent takes.
func (x *Index) FindAllCutFreeWindows(assetID string, clipStart, clipEnd, requiredDuration, buffer float64) []Window {
	if requiredDuration <= 0 {
		return nil
	}
	if !x.Has(assetID) {
		var windows []Window
		for start := clipStart; start+requiredDuration <= clipEnd; start += requiredDuration {
			windows = append(windows, Window{Found: true, Start: start, End: start + requiredDuration})
		}
		return windows
	}

	var windows []Window
	for _, gap := range x.gaps(assetID, clipStart, clipEnd) {
		if gap.end-gap.start < requiredDuration+buffer {
			continue
		}
		start := gap.start
		if !gap.first {
			start += buffer
		}
		for start+requiredDuration <= gap.end {
			windows = append(windows, Window{Found: true, Start: start, End: start + requiredDuration})
			start += requiredDuration
		}
	}
	return windows
}

type gap struct {
	start, end float64
	first      bool
}

// gaps returns the cut-free stretches between consecutive boundary points
// [clipStart, cut1, ..., cutN, clipEnd].
func (x *Index) gaps(assetID string, clipStart, clipEnd float64) []gap {
	if clipEnd <= clipStart {
		return nil
	}
	bounds := []float64{clipStart}
	for _, c := range x.CutsInRange(assetID, clipStart, clipEnd) {
		if c > clipStart && c < clipEnd {
			bounds = append(bounds, c)
		}
	}
	bounds = append(bounds, clipEnd)

	gaps := make([]gap, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		gaps = append(gaps, gap{start: bounds[i], end: bounds[i+1], first: i == 0})
	}
	return gaps
}
