package transfer

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeterReader(t *testing.T) {
	src := strings.Repeat("x", 10_000)
	m := NewMeterReader(strings.NewReader(src))

	var dst bytes.Buffer
	n, err := io.Copy(&dst, m)
	require.NoError(t, err)
	assert.EqualValues(t, len(src), n)
	assert.EqualValues(t, len(src), m.Transferred())
	assert.Equal(t, src, dst.String())

	r := m.Report(OpSave, "upload.bin")
	assert.Equal(t, OpSave, r.Operation)
	assert.Equal(t, "upload.bin", r.Path)
	assert.EqualValues(t, len(src), r.Bytes)
	assert.GreaterOrEqual(t, r.Elapsed, time.Duration(0))
}

func TestMeterWriter(t *testing.T) {
	var dst bytes.Buffer
	m := NewMeterWriter(&dst)

	_, err := io.Copy(m, strings.NewReader("abcdef 1234567890"))
	require.NoError(t, err)
	assert.EqualValues(t, 17, m.Transferred())

	r := m.Report(OpLoad, "file1.txt")
	assert.Equal(t, OpLoad, r.Operation)
	assert.EqualValues(t, 17, r.Bytes)
}

func TestReport(t *testing.T) {
	r := Report{Operation: OpAppend, Path: "log.txt", Bytes: 2 * 1024 * 1024, Elapsed: 2 * time.Second}
	assert.InDelta(t, 1.0, r.Speed(), 0.0001)
	assert.InDelta(t, 2.0, r.SizeMB(), 0.0001)
	assert.Equal(t, "append log.txt: 2.0 MB in 2s (1.00 MB/s)", r.String())

	assert.Zero(t, Report{Bytes: 100}.Speed())
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.size))
	}
}
