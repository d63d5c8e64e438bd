package ftptest

import (
	"log/slog"

	"github.com/spf13/afero"
)

// Option represents a functional option for configuring Server.
type Option func(*Server, *[]userSpec)

type userSpec struct {
	name, password, homeDir string
}

// WithUser adds an account. homeDir is the initial working directory and is
// created when missing.
func WithUser(name, password, homeDir string) Option {
	return func(_ *Server, users *[]userSpec) {
		*users = append(*users, userSpec{name: name, password: password, homeDir: homeDir})
	}
}

// WithFs sets the filesystem served to clients.
func WithFs(fs afero.Fs) Option {
	return func(s *Server, _ *[]userSpec) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// WithListenAddr sets the control address, 127.0.0.1:0 by default.
func WithListenAddr(addr string) Option {
	return func(s *Server, _ *[]userSpec) {
		s.listenAddr = addr
	}
}

// WithLogger sets a logger for the Server instance.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server, _ *[]userSpec) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLogHandler sets a custom slog handler for the Server instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(s *Server, _ *[]userSpec) {
		if handler != nil {
			s.logger = slog.New(handler).WithGroup("ftptest.Server")
		}
	}
}
