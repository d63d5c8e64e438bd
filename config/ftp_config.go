package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	DefaultPort           = 21
	DefaultConnectTimeout = 30 // seconds
)

// FTPProperties holds FTP connection credentials and settings.
type FTPProperties struct {
	Server           string `toml:"server"`   // Example: "ftp.gnu.org"
	Username         string `toml:"username"`
	Password         string `toml:"password"`
	Port             int    `toml:"port"`
	KeepAliveTimeout int    `toml:"keep_alive_timeout"` // seconds, 0 disables
	AutoStart        bool   `toml:"auto_start"`

	ConnectTimeout int    `toml:"connect_timeout"` // seconds
	DisableEPSV    bool   `toml:"disable_epsv"`
	LocalRoot      string `toml:"local_root"` // base directory for upload sources
	Debug          bool   `toml:"debug"`      // log the FTP dialog
}

// Default returns properties with the default port and connect timeout set.
func Default() FTPProperties {
	return FTPProperties{
		Port:           DefaultPort,
		ConnectTimeout: DefaultConnectTimeout,
	}
}

// Validate checks the fields needed to reach a server.
func (p FTPProperties) Validate() error {
	if p.Server == "" {
		return fmt.Errorf("%w: server is required", ErrInvalidProperties)
	}
	if p.Port <= 0 || p.Port > 65535 {
		return fmt.Errorf("%w: invalid port %d (must be 1-65535)", ErrInvalidProperties, p.Port)
	}
	if p.KeepAliveTimeout < 0 {
		return fmt.Errorf("%w: keep-alive timeout must not be negative", ErrInvalidProperties)
	}
	if p.ConnectTimeout < 0 {
		return fmt.Errorf("%w: connect timeout must not be negative", ErrInvalidProperties)
	}
	return nil
}

// Address returns the host:port of the control connection.
func (p FTPProperties) Address() string {
	return net.JoinHostPort(p.Server, strconv.Itoa(p.Port))
}

// KeepAliveInterval is the idle time after which a NOOP is sent.
func (p FTPProperties) KeepAliveInterval() time.Duration {
	return time.Duration(p.KeepAliveTimeout) * time.Second
}

// DialTimeout is the connect timeout, zero meaning no timeout.
func (p FTPProperties) DialTimeout() time.Duration {
	return time.Duration(p.ConnectTimeout) * time.Second
}

// Redacted returns a copy safe to print or log.
func (p FTPProperties) Redacted() FTPProperties {
	if p.Password != "" {
		p.Password = "********"
	}
	return p
}

func (p FTPProperties) String() string {
	r := p.Redacted()
	return fmt.Sprintf("ftp://%s@%s (keep-alive %ds, auto-start %t)",
		r.Username, r.Address(), r.KeepAliveTimeout, r.AutoStart)
}
