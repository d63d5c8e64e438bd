package transfer

import (
	"io"
	"sync/atomic"
	"time"
)

// MeterReader wraps an io.Reader and counts the bytes read through it.
type MeterReader struct {
	Reader    io.Reader
	StartTime time.Time
	count     atomic.Int64
}

func NewMeterReader(r io.Reader) *MeterReader {
	return &MeterReader{Reader: r, StartTime: time.Now()}
}

func (m *MeterReader) Read(p []byte) (n int, err error) {
	n, err = m.Reader.Read(p)
	if n > 0 {
		m.count.Add(int64(n))
	}
	return
}

// Transferred returns the bytes read so far.
func (m *MeterReader) Transferred() int64 {
	return m.count.Load()
}

// Report summarises the metered stream as a finished transfer.
func (m *MeterReader) Report(op Operation, path string) Report {
	return Report{
		Operation: op,
		Path:      path,
		Bytes:     m.Transferred(),
		Elapsed:   time.Since(m.StartTime),
	}
}

// MeterWriter wraps an io.Writer and counts the bytes written through it.
type MeterWriter struct {
	Writer    io.Writer
	StartTime time.Time
	count     atomic.Int64
}

func NewMeterWriter(w io.Writer) *MeterWriter {
	return &MeterWriter{Writer: w, StartTime: time.Now()}
}

func (m *MeterWriter) Write(p []byte) (n int, err error) {
	n, err = m.Writer.Write(p)
	if n > 0 {
		m.count.Add(int64(n))
	}
	return
}

func (m *MeterWriter) Transferred() int64 {
	return m.count.Load()
}

func (m *MeterWriter) Report(op Operation, path string) Report {
	return Report{
		Operation: op,
		Path:      path,
		Bytes:     m.Transferred(),
		Elapsed:   time.Since(m.StartTime),
	}
}
