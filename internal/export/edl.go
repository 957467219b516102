package export

import (
	"fmt"
	"math"
	"strings"
)

// GenerateEDL renders resolved plan entries as a CMX3600 EDL. Record in/out
// come straight from the segment frames; source in/out are quantized to the
// same output rate so both sides stay frame-exact.
func GenerateEDL(entries []ResolvedEntry, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	for i, re := range entries {
		e := re.Entry
		srcIn := secondsToTimecode(e.Asset.Start, frameRate, fps)
		srcOut := secondsToTimecode(e.Asset.End, frameRate, fps)
		recIn := framesToTimecode(e.StartFrame, fps)
		recOut := framesToTimecode(e.EndFrame, fps)

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", "V", srcIn, srcOut, recIn, recOut),
			fmt.Sprintf("* FROM CLIP NAME:  %s", re.ClipName),
			fmt.Sprintf("* MEDIA PATH:  %s", re.MediaPath),
		)
		if e.Degraded {
			lines = append(lines, "* COMMENT:  DEGRADED ASSIGNMENT")
		}
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func secondsToTimecode(seconds, frameRate float64, fps int) string {
	return framesToTimecode(int(math.Round(seconds*frameRate)), fps)
}

func framesToTimecode(totalFrames, fps int) string {
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
