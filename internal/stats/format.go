package stats

import "fmt"

// NoData is shown in place of a statistic that has no solves behind it.
const NoData = "--:--.--"

// FormatTime renders milliseconds as s.mmm, or m:ss.mmm from one minute up.
func FormatTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60000
	seconds := (ms / 1000) % 60
	millis := ms % 1000
	if minutes > 0 {
		return fmt.Sprintf("%d:%02d.%03d", minutes, seconds, millis)
	}
	return fmt.Sprintf("%d.%03d", seconds, millis)
}

// FormatDifference renders the magnitude of a comparison as s.mmms.
func FormatDifference(ms int64) string {
	if ms < 0 {
		ms = -ms
	}
	return fmt.Sprintf("%d.%03ds", ms/1000, ms%1000)
}

// FormatOptional formats an average or best value, truncating to whole
// milliseconds, or returns NoData.
func FormatOptional(ms float64, ok bool) string {
	if !ok {
		return NoData
	}
	return FormatTime(int64(ms))
}

// FormatSeconds is the chart axis formatter.
func FormatSeconds(ms float64) string {
	return fmt.Sprintf("%.1fs", ms/1000)
}
