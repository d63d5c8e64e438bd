package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
)

// DialogWriter turns the raw FTP control dialog into debug records, one per line.
// PASS arguments are masked.
type DialogWriter struct {
	logger *slog.Logger
	mu     sync.Mutex
	buf    bytes.Buffer
}

func NewDialogWriter(logger *slog.Logger) *DialogWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DialogWriter{logger: logger}
}

func (w *DialogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// incomplete line, keep it for the next write
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		w.logger.Debug("ftp dialog", "line", maskPassword(line))
	}
	return len(p), nil
}

func maskPassword(line string) string {
	if len(line) >= 5 && strings.EqualFold(line[:5], "PASS ") {
		return line[:5] + "********"
	}
	return line
}
