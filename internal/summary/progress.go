package summary

import (
	"fmt"
	"strings"
)

const progressCells = 10

// ProgressBar renders a percentage as a fixed-width unicode bar:
//
//	ProgressBar(30) == "|■■■□□□□□□□| 30%"
//
// One cell fills per full 10%. Percent is not validated here; callers
// are expected to pass 0-100, and out-of-range values produce a bar
// with a different number of filled cells.
func ProgressBar(percent int) string {
	filled := percent / progressCells
	if filled < 0 {
		filled = 0
	}
	empty := progressCells - filled
	if empty < 0 {
		empty = 0
	}
	return fmt.Sprintf("|%s%s| %d%%",
		strings.Repeat("■", filled), strings.Repeat("□", empty), percent)
}
