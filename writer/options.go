package writer

import (
	"log/slog"

	"github.com/spf13/afero"
)

// Option represents a functional option for configuring FTPFileWriter.
type Option func(*FTPFileWriter)

// WithLogHandler sets a custom slog handler for the FTPFileWriter instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(w *FTPFileWriter) {
		if handler != nil {
			w.logger = slog.New(handler).WithGroup("writer.FTPFileWriter")
		}
	}
}

// WithLogger sets a logger for the FTPFileWriter instance.
func WithLogger(logger *slog.Logger) Option {
	return func(w *FTPFileWriter) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithLocalFs sets the filesystem SaveFile reads sources from. It takes
// precedence over the LocalRoot property.
func WithLocalFs(fs afero.Fs) Option {
	return func(w *FTPFileWriter) {
		if fs != nil {
			w.localFs = fs
		}
	}
}

// WithRecorder registers a sink for reports of successful transfers.
func WithRecorder(r Recorder) Option {
	return func(w *FTPFileWriter) {
		w.recorder = r
	}
}
