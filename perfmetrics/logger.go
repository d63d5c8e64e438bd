package perfmetrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"ftpwriter/transfer"
)

// CsvHeader defines the CSV header for transfer logging
var CsvHeader = []string{"Timestamp", "Client", "Operation", "Path", "Bytes", "FileSizeMB", "TimeSec", "ThroughputMBps"}

// CSVLogger appends one row per finished transfer to a CSV file.
type CSVLogger struct {
	path   string
	client string
	mu     sync.Mutex
	now    func() time.Time
}

// NewCSVLogger creates the parent directory of path if needed.
// An empty client name falls back to "ftpwriter".
func NewCSVLogger(path, client string) (*CSVLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if client == "" {
		client = "ftpwriter"
	}
	return &CSVLogger{path: path, client: client, now: time.Now}, nil
}

// Path returns the CSV file location.
func (l *CSVLogger) Path() string {
	return l.path
}

// Record logs a transfer report.
func (l *CSVLogger) Record(r transfer.Report) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fileExists := true
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		fileExists = false
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", l.path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if !fileExists {
		if err := writer.Write(CsvHeader); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	record := []string{
		l.now().Format(time.RFC3339),
		l.client,
		string(r.Operation),
		r.Path,
		strconv.FormatInt(r.Bytes, 10),
		strconv.FormatFloat(r.SizeMB(), 'f', 2, 64),
		strconv.FormatFloat(r.Elapsed.Seconds(), 'f', 3, 64),
		strconv.FormatFloat(r.Speed(), 'f', 2, 64),
	}
	if err := writer.Write(record); err != nil {
		return fmt.Errorf("failed to write CSV record: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}
