package ftptest

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"path"
	"strings"
	"sync"
	"time"
)

const dataAcceptTimeout = 10 * time.Second

// session is one control connection.
type session struct {
	server *Server
	conn   net.Conn
	reader *bufio.Reader
	logger *slog.Logger

	pendingUser   string
	account       *UserAccount
	authenticated bool
	currentDir    string

	dataListener net.Listener
	dataConn     net.Conn

	closeOnce sync.Once
}

func newSession(server *Server, conn net.Conn) *session {
	return &session{
		server:     server,
		conn:       conn,
		reader:     bufio.NewReader(conn),
		logger:     server.logger.With("remote", conn.RemoteAddr().String()),
		currentDir: "/",
	}
}

func (s *session) serve() {
	defer s.close()

	handler := NewCommandHandler(s)
	s.SendResponse(220, "ftptest ready")

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		cmd, _ := splitCommand(line)
		if cmd == "" {
			continue
		}

		s.server.countCommand(cmd)
		if cmd == "PASS" {
			s.logger.Debug("command", "cmd", "PASS ********")
		} else {
			s.logger.Debug("command", "cmd", line)
		}

		if cmd == "QUIT" {
			s.SendResponse(221, "Goodbye")
			return
		}
		handler.HandleCommand(line)
	}
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		s.CloseDataConnection()
		_ = s.conn.Close()
	})
}

// SendResponse writes a single-line reply.
func (s *session) SendResponse(code int, message string) {
	if _, err := fmt.Fprintf(s.conn, "%d %s\r\n", code, message); err != nil {
		s.logger.Debug("failed to send response", "code", code, "error", err)
	}
}

// SendMultiline writes a reply spanning several lines. The first line carries the
// code and a dash, the last one the code and a space.
func (s *session) SendMultiline(code int, first string, lines []string, last string) {
	var b strings.Builder
	fmt.Fprintf(&b, "%d-%s\r\n", code, first)
	for _, l := range lines {
		fmt.Fprintf(&b, " %s\r\n", l)
	}
	fmt.Fprintf(&b, "%d %s\r\n", code, last)
	if _, err := s.conn.Write([]byte(b.String())); err != nil {
		s.logger.Debug("failed to send response", "code", code, "error", err)
	}
}

func (s *session) Server() *Server {
	return s.server
}

func (s *session) IsAuthenticated() bool {
	return s.authenticated
}

// Login checks the password of the pending user.
func (s *session) Login(password string) bool {
	account, ok := s.server.lookupUser(s.pendingUser)
	if !ok || !account.Authenticate(password) {
		s.logger.Info("login rejected", "user", s.pendingUser)
		return false
	}
	s.account = account
	s.authenticated = true
	s.currentDir = account.HomeDir
	s.server.countLogin()
	s.logger.Info("login accepted", "user", account.Username)
	return true
}

func (s *session) SetPendingUser(name string) {
	s.pendingUser = name
	s.authenticated = false
	s.account = nil
}

func (s *session) GetCurrentDir() string {
	return s.currentDir
}

func (s *session) SetCurrentDir(dir string) {
	s.currentDir = dir
}

// ResolvePath turns a client path into an absolute, cleaned server path.
// Backslashes are accepted as separators.
func (s *session) ResolvePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if strings.HasPrefix(p, "/") {
		return path.Clean(p)
	}
	return path.Clean(path.Join(s.currentDir, p))
}

// ListenPassive opens a data listener on the control connection's local IP.
func (s *session) ListenPassive() (*net.TCPAddr, error) {
	s.CloseDataConnection()

	host, _, err := net.SplitHostPort(s.conn.LocalAddr().String())
	if err != nil {
		return nil, err
	}
	l, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return nil, err
	}
	s.dataListener = l
	return l.Addr().(*net.TCPAddr), nil
}

// OpenDataConnection accepts the client's passive data connection.
func (s *session) OpenDataConnection() (net.Conn, error) {
	if s.dataListener == nil {
		return nil, errors.New("no passive listener, send PASV or EPSV first")
	}
	if tl, ok := s.dataListener.(*net.TCPListener); ok {
		_ = tl.SetDeadline(time.Now().Add(dataAcceptTimeout))
	}
	conn, err := s.dataListener.Accept()
	_ = s.dataListener.Close()
	s.dataListener = nil
	if err != nil {
		return nil, err
	}
	s.dataConn = conn
	return conn, nil
}

// CloseDataConnection drops the data connection and any pending listener.
func (s *session) CloseDataConnection() {
	if s.dataConn != nil {
		_ = s.dataConn.Close()
		s.dataConn = nil
	}
	if s.dataListener != nil {
		_ = s.dataListener.Close()
		s.dataListener = nil
	}
}

func (s *session) LogPrintf(format string, args ...any) {
	s.logger.Debug(fmt.Sprintf(format, args...))
}

func splitCommand(line string) (cmd, args string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	cmd, args, _ = strings.Cut(line, " ")
	return strings.ToUpper(cmd), strings.TrimSpace(args)
}
