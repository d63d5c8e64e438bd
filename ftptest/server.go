// Package ftptest runs an in-memory FTP server for tests.
//
// The server keeps its files in an afero filesystem (a MemMapFs unless WithFs is
// given) and supports the subset of RFC 959 a client needs to log in, retrieve,
// store and append files over passive data connections.
package ftptest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// Server is an in-memory FTP server.
type Server struct {
	listenAddr string
	fs         afero.Fs
	logger     *slog.Logger
	users      map[string]*UserAccount

	mu       sync.Mutex
	listener net.Listener
	sessions map[*session]struct{}
	commands map[string]int
	logins   int
	wg       sync.WaitGroup
}

// NewServer creates a server. Home directories of configured users are created
// in the filesystem.
func NewServer(opts ...Option) (*Server, error) {
	s := &Server{
		listenAddr: "127.0.0.1:0",
		fs:         afero.NewMemMapFs(),
		logger:     slog.Default().WithGroup("ftptest.Server"),
		users:      make(map[string]*UserAccount),
		sessions:   make(map[*session]struct{}),
		commands:   make(map[string]int),
	}
	var pending []userSpec
	for _, opt := range opts {
		opt(s, &pending)
	}

	for _, u := range pending {
		account, err := newUserAccount(u.name, u.password, u.homeDir)
		if err != nil {
			return nil, err
		}
		s.users[u.name] = account
		if err := s.fs.MkdirAll(account.HomeDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create home directory for user '%s': %w", u.name, err)
		}
	}
	return s, nil
}

// Start listens and serves connections in the background.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.listenAddr, err)
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	s.logger.Debug("listening", "addr", l.Addr().String())
	s.wg.Add(1)
	go s.acceptLoop(l)
	return nil
}

func (s *Server) acceptLoop(l net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := l.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				s.logger.Warn("accept failed", "error", err)
			}
			return
		}

		sess := newSession(s, conn)
		s.mu.Lock()
		s.sessions[sess] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			sess.serve()

			s.mu.Lock()
			delete(s.sessions, sess)
			s.mu.Unlock()
		}()
	}
}

// Stop closes the listener and every open session, then waits for them to finish.
func (s *Server) Stop() error {
	s.mu.Lock()
	var err error
	if s.listener != nil {
		err = s.listener.Close()
		s.listener = nil
	}
	for sess := range s.sessions {
		_ = sess.conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

// Addr returns the control address, or "" when not started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Port returns the control port, or 0 when not started.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return 0
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Fs exposes the server filesystem.
func (s *Server) Fs() afero.Fs {
	return s.fs
}

// AddFile writes a file into the server filesystem, creating parent directories.
func (s *Server) AddFile(name string, contents []byte) error {
	if err := s.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(s.fs, name, contents, 0o644)
}

// ReadFile returns the contents of a file in the server filesystem.
func (s *Server) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(s.fs, name)
}

// Exists reports whether name exists in the server filesystem.
func (s *Server) Exists(name string) bool {
	_, err := s.fs.Stat(name)
	return err == nil || !os.IsNotExist(err)
}

// CommandCount returns how many times cmd was received across all sessions.
func (s *Server) CommandCount(cmd string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commands[strings.ToUpper(cmd)]
}

// Logins returns the number of successful logins.
func (s *Server) Logins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

// Sessions returns the number of connected control sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) countCommand(cmd string) {
	s.mu.Lock()
	s.commands[cmd]++
	s.mu.Unlock()
}

func (s *Server) countLogin() {
	s.mu.Lock()
	s.logins++
	s.mu.Unlock()
}

func (s *Server) lookupUser(name string) (*UserAccount, bool) {
	u, ok := s.users[name]
	return u, ok
}

func copyStream(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, src)
	return err
}
