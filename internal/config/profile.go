package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile carries the default scheduling knobs for plan requests that do not
// override them.
type Profile struct {
	// Mode selects the uniqueness strategy: "relaxed" (multi-pass ledger) or
	// "unique" (assign-once).
	Mode string `yaml:"mode"`
	// EnforceUnique enables the relaxation ladder in relaxed mode.
	EnforceUnique bool `yaml:"enforce_unique"`
	// CutBufferSeconds is the clearance kept after a scene cut when
	// proposing an alternative window.
	CutBufferSeconds float64 `yaml:"cut_buffer_seconds"`
	// PreferEarliest takes the first qualifying cut-free gap instead of the
	// largest one.
	PreferEarliest bool `yaml:"prefer_earliest"`
	// FrameBuffer pads each segment's minimum source duration, in frames.
	FrameBuffer int `yaml:"frame_buffer"`
}

func DefaultProfile() Profile {
	return Profile{
		Mode:             "relaxed",
		EnforceUnique:    true,
		CutBufferSeconds: 0.25,
		FrameBuffer:      2,
	}
}

// LoadProfile reads a YAML profile file, filling unset fields from the
// defaults.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading profile: %w", err)
	}

	p := DefaultProfile()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parsing profile: %w", err)
	}

	if p.Mode != "relaxed" && p.Mode != "unique" {
		return Profile{}, fmt.Errorf("profile mode must be relaxed or unique, got %q", p.Mode)
	}
	if p.CutBufferSeconds < 0 {
		return Profile{}, fmt.Errorf("cut_buffer_seconds must not be negative")
	}
	if p.FrameBuffer < 0 {
		return Profile{}, fmt.Errorf("frame_buffer must not be negative")
	}
	return p, nil
}
