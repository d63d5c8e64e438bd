// Package writer loads and saves files over a single FTP session.
//
// FTPFileWriter is a thin layer over github.com/jlaffaye/ftp: it owns one control
// connection configured from config.FTPProperties, turns library failures into
// wrapped sentinel errors and optionally keeps an idle session alive with NOOPs.
package writer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/spf13/afero"

	"ftpwriter/config"
	"ftpwriter/logging"
	"ftpwriter/transfer"
)

// FileWriter loads and saves files on a remote FTP server.
type FileWriter interface {
	Open(ctx context.Context) error
	Close() error
	IsConnected() bool
	LoadFile(remotePath string, w io.Writer) error
	SaveFile(sourcePath, destPath string, appendMode bool) error
	SaveStream(r io.Reader, destPath string, appendMode bool) error
}

// Recorder receives a report for every successful load or save.
type Recorder interface {
	Record(r transfer.Report) error
}

type dialFunc func(ctx context.Context, addr string, opts ...ftp.DialOption) (*ftp.ServerConn, error)

// FTPFileWriter implements FileWriter on top of one *ftp.ServerConn.
// Calls are serialised; the keep-alive loop shares the same lock.
type FTPFileWriter struct {
	props    config.FTPProperties
	logger   *slog.Logger
	localFs  afero.Fs
	recorder Recorder
	dial     dialFunc

	mu         sync.Mutex
	conn       *ftp.ServerConn
	lastUsed   time.Time
	keepAlive  *keepAlive
	lastReport *transfer.Report
}

var _ FileWriter = (*FTPFileWriter)(nil)

// New creates a writer. No connection is made until Open or Init.
func New(props config.FTPProperties, opts ...Option) *FTPFileWriter {
	w := &FTPFileWriter{
		props:  props,
		logger: slog.Default().WithGroup("writer.FTPFileWriter"),
		dial:   dialFTP,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.localFs == nil {
		w.localFs = localFs(props.LocalRoot)
	}
	return w
}

func dialFTP(ctx context.Context, addr string, opts ...ftp.DialOption) (*ftp.ServerConn, error) {
	opts = append(opts, ftp.DialWithContext(ctx))
	return ftp.Dial(addr, opts...)
}

func localFs(root string) afero.Fs {
	fs := afero.NewOsFs()
	if root == "" {
		return fs
	}
	return afero.NewBasePathFs(fs, root)
}

// Properties returns the properties the writer was created with.
func (w *FTPFileWriter) Properties() config.FTPProperties {
	return w.props
}

// Init opens the connection when the AutoStart property is set.
func (w *FTPFileWriter) Init(ctx context.Context) error {
	if !w.props.AutoStart {
		return nil
	}
	return w.Open(ctx)
}

// Open connects and logs in, replacing any existing session.
func (w *FTPFileWriter) Open(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_ = w.closeLocked()

	if err := w.props.Validate(); err != nil {
		w.logger.Error("Refusing to connect", "error", err)
		return err
	}

	addr := w.props.Address()
	w.logger.Info("Connecting and logging in to FTP server", "addr", addr, "user", w.props.Username)

	conn, err := w.dial(ctx, addr, w.dialOptions()...)
	if err != nil {
		w.logger.Error("Connection failed", "addr", addr, "error", err)
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}

	if err := conn.Login(w.props.Username, w.props.Password); err != nil {
		w.logger.Error("Login failed", "addr", addr, "user", w.props.Username, "error", err)
		if qerr := conn.Quit(); qerr != nil {
			w.logger.Debug("Quit after failed login", "error", qerr)
		}
		return fmt.Errorf("%w: %w", ErrLogin, err)
	}

	w.conn = conn
	w.touch()
	if idle := w.props.KeepAliveInterval(); idle > 0 {
		w.keepAlive = w.startKeepAlive(conn, idle)
	}

	w.logger.Info("Connected to FTP server", "addr", addr)
	return nil
}

func (w *FTPFileWriter) dialOptions() []ftp.DialOption {
	var opts []ftp.DialOption
	if t := w.props.DialTimeout(); t > 0 {
		opts = append(opts, ftp.DialWithTimeout(t))
	}
	if w.props.DisableEPSV {
		opts = append(opts, ftp.DialWithDisabledEPSV(true))
	}
	if w.props.Debug {
		opts = append(opts, ftp.DialWithDebugOutput(logging.NewDialogWriter(w.logger)))
	}
	return opts
}

// Close logs out and drops the session. Closing a closed writer does nothing.
func (w *FTPFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *FTPFileWriter) closeLocked() error {
	if w.conn == nil {
		return nil
	}
	if w.keepAlive != nil {
		w.keepAlive.stop()
		w.keepAlive = nil
	}

	conn := w.conn
	w.conn = nil

	w.logger.Info("Disconnecting from FTP server")
	if err := conn.Quit(); err != nil {
		w.logger.Error("Disconnect failed", "error", err)
		return fmt.Errorf("failed to close ftp connection: %w", err)
	}
	return nil
}

// IsConnected sends a NOOP and reports whether the server answered.
func (w *FTPFileWriter) IsConnected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	connected := false
	if w.conn != nil {
		if err := w.conn.NoOp(); err != nil {
			w.logger.Debug("NOOP failed", "error", err)
		} else {
			connected = true
			w.touch()
		}
	}
	w.logger.Debug("Checking for connection to FTP server", "connected", connected)
	return connected
}

// LoadFile retrieves remotePath and copies its contents into out.
func (w *FTPFileWriter) LoadFile(remotePath string, out io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		w.logger.Error("Cannot retrieve file", "path", remotePath, "error", ErrNotConnected)
		return ErrNotConnected
	}

	w.logger.Debug("Trying to retrieve a file from remote path", "path", remotePath)
	meter := transfer.NewMeterWriter(out)

	resp, err := w.conn.Retr(remotePath)
	w.touch()
	if err != nil {
		w.logger.Error("Retrieve failed", "path", remotePath, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrRetrieve, remotePath, err)
	}

	_, copyErr := io.Copy(meter, resp)
	closeErr := resp.Close()
	w.touch()
	if err := errors.Join(copyErr, closeErr); err != nil {
		w.logger.Error("Retrieve failed", "path", remotePath, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrRetrieve, remotePath, err)
	}

	w.report(meter.Report(transfer.OpLoad, remotePath))
	return nil
}

// SaveFile uploads sourcePath from the local filesystem to destPath.
// With appendMode set the contents are added to the end of an existing file.
func (w *FTPFileWriter) SaveFile(sourcePath, destPath string, appendMode bool) error {
	info, err := w.localFs.Stat(sourcePath)
	if err == nil && info.IsDir() {
		err = fmt.Errorf("%s is a directory", sourcePath)
	}
	if err != nil {
		w.logger.Error("Cannot read source file", "path", sourcePath, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrSourceNotFound, sourcePath, err)
	}

	f, err := w.localFs.Open(sourcePath)
	if err != nil {
		w.logger.Error("Cannot read source file", "path", sourcePath, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrSourceNotFound, sourcePath, err)
	}
	defer f.Close()

	return w.SaveStream(f, destPath, appendMode)
}

// SaveStream uploads the contents of r to destPath.
func (w *FTPFileWriter) SaveStream(r io.Reader, destPath string, appendMode bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		w.logger.Error("Cannot store file", "path", destPath, "error", ErrNotConnected)
		return ErrNotConnected
	}

	meter := transfer.NewMeterReader(r)
	op := transfer.OpSave
	var err error
	if appendMode {
		op = transfer.OpAppend
		w.logger.Debug("Appending to remote file", "path", destPath)
		err = w.conn.Append(destPath, meter)
	} else {
		w.logger.Debug("Storing remote file", "path", destPath)
		err = w.conn.Stor(destPath, meter)
	}
	w.touch()
	if err != nil {
		w.logger.Error("Store failed", "path", destPath, "append", appendMode, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrStore, destPath, err)
	}

	w.report(meter.Report(op, destPath))
	return nil
}

// LastReport returns the report of the most recent successful transfer.
func (w *FTPFileWriter) LastReport() (transfer.Report, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.lastReport == nil {
		return transfer.Report{}, false
	}
	return *w.lastReport, true
}

func (w *FTPFileWriter) report(r transfer.Report) {
	w.lastReport = &r
	w.logger.Debug("Transfer complete",
		"operation", r.Operation,
		"path", r.Path,
		"bytes", r.Bytes,
		"elapsed", r.Elapsed,
	)
	if w.recorder == nil {
		return
	}
	if err := w.recorder.Record(r); err != nil {
		w.logger.Warn("Failed to record transfer", "error", err)
	}
}

// touch marks the session as used; callers hold mu.
func (w *FTPFileWriter) touch() {
	w.lastUsed = time.Now()
}
