package writer

import (
	"sync"
	"time"

	"github.com/jlaffaye/ftp"
)

type keepAlive struct {
	done chan struct{}
	once sync.Once
}

// stop never blocks: the loop may be waiting for the writer lock held by the caller.
func (k *keepAlive) stop() {
	k.once.Do(func() { close(k.done) })
}

func (k *keepAlive) stopped() bool {
	select {
	case <-k.done:
		return true
	default:
		return false
	}
}

// startKeepAlive sends a NOOP on conn whenever the session has been idle for at
// least idle. It checks twice per idle period.
func (w *FTPFileWriter) startKeepAlive(conn *ftp.ServerConn, idle time.Duration) *keepAlive {
	k := &keepAlive{done: make(chan struct{})}

	interval := idle / 2
	if interval <= 0 {
		interval = idle
	}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-k.done:
				return
			case <-ticker.C:
				if !w.keepAliveTick(conn, k, idle) {
					return
				}
			}
		}
	}()
	return k
}

// keepAliveTick returns false once the loop should end.
func (w *FTPFileWriter) keepAliveTick(conn *ftp.ServerConn, k *keepAlive, idle time.Duration) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if k.stopped() || w.conn != conn {
		return false
	}
	if time.Since(w.lastUsed) < idle {
		return true
	}

	w.logger.Debug("Sending keep-alive NOOP")
	if err := conn.NoOp(); err != nil {
		w.logger.Warn("Keep-alive NOOP failed", "error", err)
		return false
	}
	w.touch()
	return true
}
