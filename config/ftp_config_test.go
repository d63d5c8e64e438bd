package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := FTPProperties{Server: "localhost", Port: 2101}

	tests := []struct {
		name    string
		mutate  func(p *FTPProperties)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *FTPProperties) {}},
		{name: "missing server", mutate: func(p *FTPProperties) { p.Server = "" }, wantErr: true},
		{name: "zero port", mutate: func(p *FTPProperties) { p.Port = 0 }, wantErr: true},
		{name: "port too large", mutate: func(p *FTPProperties) { p.Port = 70000 }, wantErr: true},
		{name: "negative keep-alive", mutate: func(p *FTPProperties) { p.KeepAliveTimeout = -1 }, wantErr: true},
		{name: "negative connect timeout", mutate: func(p *FTPProperties) { p.ConnectTimeout = -5 }, wantErr: true},
		{name: "keep-alive set", mutate: func(p *FTPProperties) { p.KeepAliveTimeout = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidProperties)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAddressAndDurations(t *testing.T) {
	p := FTPProperties{Server: "::1", Port: 2101, KeepAliveTimeout: 5, ConnectTimeout: 10}
	assert.Equal(t, "[::1]:2101", p.Address())
	assert.Equal(t, 5*time.Second, p.KeepAliveInterval())
	assert.Equal(t, 10*time.Second, p.DialTimeout())

	p.Server = "localhost"
	assert.Equal(t, "localhost:2101", p.Address())
}

func TestRedacted(t *testing.T) {
	p := FTPProperties{Server: "localhost", Port: 21, Username: "user", Password: "secret"}

	r := p.Redacted()
	assert.Equal(t, "********", r.Password)
	assert.Equal(t, "secret", p.Password, "original must not change")
	assert.NotContains(t, p.String(), "secret")
	assert.Contains(t, p.String(), "user@localhost:21")

	empty := FTPProperties{}.Redacted()
	assert.Empty(t, empty.Password)
}

func TestParse(t *testing.T) {
	t.Run("full table", func(t *testing.T) {
		src := []byte(`
[ftp]
server = "localhost"
username = "user"
password = "password"
port = 2101
keep_alive_timeout = 5
auto_start = true
local_root = "/srv/outbox"
`)
		p, err := Parse(src)
		require.NoError(t, err)
		assert.Equal(t, "localhost", p.Server)
		assert.Equal(t, "user", p.Username)
		assert.Equal(t, "password", p.Password)
		assert.Equal(t, 2101, p.Port)
		assert.Equal(t, 5, p.KeepAliveTimeout)
		assert.True(t, p.AutoStart)
		assert.Equal(t, "/srv/outbox", p.LocalRoot)
		assert.Equal(t, DefaultConnectTimeout, p.ConnectTimeout)
	})

	t.Run("defaults when absent", func(t *testing.T) {
		p, err := Parse([]byte(`[ftp]
server = "ftp.example.com"`))
		require.NoError(t, err)
		assert.Equal(t, DefaultPort, p.Port)
		assert.False(t, p.AutoStart)
		assert.Zero(t, p.KeepAliveTimeout)
	})

	t.Run("empty source", func(t *testing.T) {
		p, err := Parse(nil)
		require.NoError(t, err)
		assert.Equal(t, Default(), p)
	})

	t.Run("invalid toml", func(t *testing.T) {
		_, err := Parse([]byte(`[ftp
server = `))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrParseProperties)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := Parse([]byte("[ftp]\nport = \"twenty-one\"\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrParseProperties)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ftp.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ftp]\nserver = \"localhost\"\nport = 2121\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost", p.Server)
	assert.Equal(t, 2121, p.Port)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadProperties)
}

func TestEncodeIsLoadable(t *testing.T) {
	in := FTPProperties{Server: "localhost", Username: "user", Port: 2101, KeepAliveTimeout: 3, ConnectTimeout: 7}

	data, err := Encode(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[ftp]")

	out, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
