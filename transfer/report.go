package transfer

import (
	"fmt"
	"time"
)

// Operation names the kind of transfer.
type Operation string

const (
	OpLoad   Operation = "load"
	OpSave   Operation = "save"
	OpAppend Operation = "append"
)

// Report contains timing information for one finished load or save.
type Report struct {
	Operation Operation
	Path      string        // remote path
	Bytes     int64         // bytes moved over the data connection
	Elapsed   time.Duration // wall time including the control round trips
}

// Speed returns the transfer speed in MB/s.
func (r Report) Speed() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Bytes) / r.Elapsed.Seconds() / (1024 * 1024)
}

// SizeMB returns the transferred size in MB.
func (r Report) SizeMB() float64 {
	return float64(r.Bytes) / (1024 * 1024)
}

// String returns a formatted string representation of the report
func (r Report) String() string {
	return fmt.Sprintf("%s %s: %s in %v (%.2f MB/s)",
		r.Operation,
		r.Path,
		FormatSize(r.Bytes),
		r.Elapsed.Round(time.Millisecond),
		r.Speed(),
	)
}

// FormatSize formats a byte count in human-readable form.
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
