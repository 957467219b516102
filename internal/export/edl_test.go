package export

import (
	"strings"
	"testing"

	"github.com/beatcut/beatcut-agent/internal/schedule"
)

func entry(index, startFrame, endFrame int, srcStart, srcEnd float64, degraded bool) ResolvedEntry {
	return ResolvedEntry{
		ClipName:  "Clip",
		MediaPath: "/media/a.mp4",
		Entry: schedule.Entry{
			Index:      index,
			StartFrame: startFrame,
			EndFrame:   endFrame,
			FrameCount: endFrame - startFrame,
			Asset:      schedule.AssetRef{AssetID: "a", Start: srcStart, End: srcEnd},
			Degraded:   degraded,
		},
	}
}

func TestGenerateEDL_SingleEntry(t *testing.T) {
	edl := GenerateEDL([]ResolvedEntry{entry(0, 0, 60, 3.0, 5.0, false)}, "Project One", 30.0)

	if !strings.Contains(edl, "TITLE: Project One") {
		t.Fatalf("missing title in EDL: %q", edl)
	}
	if !strings.Contains(edl, "FCM: NON-DROP FRAME") {
		t.Fatalf("missing non-drop-frame FCM: %q", edl)
	}
	if !strings.Contains(edl, "001  AX       V     C        00:00:03:00 00:00:05:00 00:00:00:00 00:00:02:00") {
		t.Fatalf("missing event line: %q", edl)
	}
	if !strings.Contains(edl, "* MEDIA PATH:  /media/a.mp4") {
		t.Fatalf("missing media path comment: %q", edl)
	}
}

func TestGenerateEDL_RecordSideFollowsSegmentFrames(t *testing.T) {
	entries := []ResolvedEntry{
		entry(0, 0, 60, 0, 2.0, false),
		entry(1, 60, 150, 10.0, 13.0, false),
	}
	edl := GenerateEDL(entries, "Multi", 30.0)

	if !strings.Contains(edl, "002  AX       V     C        00:00:10:00 00:00:13:00 00:00:02:00 00:00:05:00") {
		t.Fatalf("second event line mismatch: %q", edl)
	}
}

func TestGenerateEDL_DropFrame(t *testing.T) {
	edl := GenerateEDL([]ResolvedEntry{entry(0, 0, 30, 0, 1, false)}, "Drop", 29.97)
	if !strings.Contains(edl, "FCM: DROP FRAME") {
		t.Fatalf("expected drop frame FCM, got: %q", edl)
	}
}

func TestGenerateEDL_FlagsDegradedEntries(t *testing.T) {
	edl := GenerateEDL([]ResolvedEntry{entry(0, 0, 30, 0, 1, true)}, "Degraded", 30.0)
	if !strings.Contains(edl, "* COMMENT:  DEGRADED ASSIGNMENT") {
		t.Fatalf("degraded entry not flagged: %q", edl)
	}
}

func TestFramesToTimecode(t *testing.T) {
	tests := []struct {
		name   string
		frames int
		fps    int
		want   string
	}{
		{"zero", 0, 30, "00:00:00:00"},
		{"one second", 30, 30, "00:00:01:00"},
		{"half second", 15, 30, "00:00:00:15"},
		{"one minute", 1800, 30, "00:01:00:00"},
		{"one hour", 108000, 30, "01:00:00:00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := framesToTimecode(tc.frames, tc.fps); got != tc.want {
				t.Fatalf("framesToTimecode(%d, %d) = %q, want %q", tc.frames, tc.fps, got, tc.want)
			}
		})
	}
}
