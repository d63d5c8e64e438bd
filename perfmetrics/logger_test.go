package perfmetrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ftpwriter/transfer"
)

func TestCSVLogger_Record(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics", "transfers.csv")

	l, err := NewCSVLogger(path, "")
	require.NoError(t, err)
	assert.Equal(t, path, l.Path())
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	require.NoError(t, l.Record(transfer.Report{
		Operation: transfer.OpSave,
		Path:      "testfile.txt",
		Bytes:     1024 * 1024,
		Elapsed:   time.Second,
	}))
	require.NoError(t, l.Record(transfer.Report{
		Operation: transfer.OpLoad,
		Path:      "file1.txt",
		Bytes:     17,
		Elapsed:   10 * time.Millisecond,
	}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two records")

	assert.Equal(t, CsvHeader, rows[0])
	assert.Equal(t, []string{"2026-01-02T03:04:05Z", "ftpwriter", "save", "testfile.txt", "1048576", "1.00", "1.000", "1.00"}, rows[1])
	assert.Equal(t, "load", rows[2][2])
	assert.Equal(t, "17", rows[2][4])
}

func TestCSVLogger_ClientName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	l, err := NewCSVLogger(path, "nightly-export")
	require.NoError(t, err)

	require.NoError(t, l.Record(transfer.Report{Operation: transfer.OpAppend, Path: "a", Bytes: 1, Elapsed: time.Millisecond}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "nightly-export,append,a,1,")
}
