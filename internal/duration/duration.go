// Package duration converts between ISO 8601 video duration codes and
// display strings.
package duration

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts an ISO 8601 duration code to total seconds.
// Example: "PT4M13S" -> 253 seconds
//
// Each of the H/M/S components is optional; a code that matches none of
// them, or does not match the pattern at all, yields 0 seconds. The API
// reports broken or live entries with odd duration codes, so a malformed
// code is a defined zero-duration fallback rather than an error.
func Parse(code string) int {
	if !strings.HasPrefix(code, "PT") {
		return 0
	}

	rest := strings.TrimPrefix(code, "PT")

	var hours, minutes, seconds int

	if hIdx := strings.Index(rest, "H"); hIdx != -1 {
		h, err := strconv.Atoi(rest[:hIdx])
		if err != nil {
			return 0
		}
		hours = h
		rest = rest[hIdx+1:]
	}

	if mIdx := strings.Index(rest, "M"); mIdx != -1 {
		m, err := strconv.Atoi(rest[:mIdx])
		if err != nil {
			return 0
		}
		minutes = m
		rest = rest[mIdx+1:]
	}

	if sIdx := strings.Index(rest, "S"); sIdx != -1 {
		s, err := strconv.Atoi(rest[:sIdx])
		if err != nil {
			return 0
		}
		seconds = s
	}

	return hours*3600 + minutes*60 + seconds
}

// Format renders total seconds as a display string: "H:MM:SS" when the
// duration is an hour or longer, "M:SS" otherwise. Minutes and seconds are
// zero-padded to two digits, hours are not.
func Format(totalSeconds int) (string, error) {
	if totalSeconds < 0 {
		return "", fmt.Errorf("negative duration: %d", totalSeconds)
	}

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds), nil
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds), nil
}

// Display is the Parse+Format composition used when building catalog
// entries: any code, however malformed, produces a usable display string.
func Display(code string) string {
	s, err := Format(Parse(code))
	if err != nil {
		return "0:00"
	}
	return s
}
