package cli

import "fmt"

// FormatDuration renders a millisecond count the way a human reads elapsed
// time: "340ms", "2.6s", "1m12.0s".
func FormatDuration(ms int) string {
	switch {
	case ms < 1000:
		return fmt.Sprintf("%dms", ms)
	case ms < 60_000:
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	default:
		mins := ms / 60_000
		secs := float64(ms%60_000) / 1000
		return fmt.Sprintf("%dm%.1fs", mins, secs)
	}
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(bytes int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}

	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.2f %s", size, units[i])
}
