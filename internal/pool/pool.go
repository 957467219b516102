// Package pool holds the read-only catalog of candidate source subclips the
// scheduler draws from.
package pool

import (
	"errors"
	"fmt"
)

var ErrEmptyPool = errors.New("clip pool is empty")

// Bucket is a coarse duration class used to steer candidate lookup toward
// clips with the least wasted slack.
type Bucket string

const (
	BucketMicro  Bucket = "micro"  // under 1s
	BucketShort  Bucket = "short"  // under 3s
	BucketMedium Bucket = "medium" // under 8s
	BucketLong   Bucket = "long"   // 8s and up
)

// bucketOrder lists buckets from shortest to longest; candidate gathering
// walks this order.
var bucketOrder = []Bucket{BucketMicro, BucketShort, BucketMedium, BucketLong}

func BucketFor(duration float64) Bucket {
	switch {
	case duration < 1:
		return BucketMicro
	case duration < 3:
		return BucketShort
	case duration < 8:
		return BucketMedium
	default:
		return BucketLong
	}
}

// Clip is one candidate subclip. Immutable once loaded.
type Clip struct {
	ID       string   `json:"id"`
	AssetID  string   `json:"asset_id"`
	Start    float64  `json:"start"`
	End      float64  `json:"end"`
	Duration float64  `json:"duration"`
	Bucket   Bucket   `json:"duration_bucket,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

func (c Clip) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Document is the wire form of a pool catalog. The bucket map is optional;
// absent or inconsistent entries are derived from clip durations.
type Document struct {
	Clips   []Clip           `json:"clips"`
	Buckets map[string][]int `json:"buckets,omitempty"`
}

// Pool is a read-only clip catalog, safe for concurrent readers.
type Pool struct {
	clips   []Clip
	buckets map[Bucket][]int
}

func New(clips []Clip) (*Pool, error) {
	if len(clips) == 0 {
		return nil, ErrEmptyPool
	}

	p := &Pool{
		clips:   make([]Clip, len(clips)),
		buckets: make(map[Bucket][]int),
	}
	copy(p.clips, clips)

	for i := range p.clips {
		c := &p.clips[i]
		if c.Duration <= 0 {
			c.Duration = c.End - c.Start
		}
		if c.Duration <= 0 {
			return nil, fmt.Errorf("clip %q has non-positive duration", c.ID)
		}
		if c.Bucket == "" {
			c.Bucket = BucketFor(c.Duration)
		}
		p.buckets[c.Bucket] = append(p.buckets[c.Bucket], i)
	}
	return p, nil
}

// FromDocument builds a pool from a loaded catalog document, honoring an
// explicit bucket map when its indices are valid.
func FromDocument(doc Document) (*Pool, error) {
	p, err := New(doc.Clips)
	if err != nil {
		return nil, err
	}
	if len(doc.Buckets) == 0 {
		return p, nil
	}

	buckets := make(map[Bucket][]int)
	for name, indices := range doc.Buckets {
		for _, i := range indices {
			if i < 0 || i >= len(p.clips) {
				return nil, fmt.Errorf("bucket %q references clip index %d out of range", name, i)
			}
			buckets[Bucket(name)] = append(buckets[Bucket(name)], i)
		}
	}
	p.buckets = buckets
	return p, nil
}

func (p *Pool) Len() int {
	return len(p.clips)
}

func (p *Pool) Clip(i int) Clip {
	return p.clips[i]
}

func (p *Pool) Clips() []Clip {
	out := make([]Clip, len(p.clips))
	copy(out, p.clips)
	return out
}

// CandidatesFor returns indices of clips long enough for minDuration,
// preferring the smallest bucket that has any qualifying clip before widening
// to the rest of the pool.
func (p *Pool) CandidatesFor(minDuration float64) []int {
	for _, b := range bucketOrder {
		var qualified []int
		for _, i := range p.buckets[b] {
			if p.clips[i].Duration >= minDuration {
				qualified = append(qualified, i)
			}
		}
		if len(qualified) > 0 {
			return qualified
		}
	}

	// Custom bucket names fall outside the canonical order; scan everything.
	var qualified []int
	for i := range p.clips {
		if p.clips[i].Duration >= minDuration {
			qualified = append(qualified, i)
		}
	}
	return qualified
}

// AllFor returns every clip index long enough for minDuration, regardless of
// bucket.
func (p *Pool) AllFor(minDuration float64) []int {
	var qualified []int
	for i := range p.clips {
		if p.clips[i].Duration >= minDuration {
			qualified = append(qualified, i)
		}
	}
	return qualified
}

// Longest returns the index of the longest clip in the pool.
func (p *Pool) Longest() int {
	best := 0
	for i := range p.clips {
		if p.clips[i].Duration > p.clips[best].Duration {
			best = i
		}
	}
	return best
}
