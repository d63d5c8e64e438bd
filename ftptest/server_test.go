package ftptest

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const file1Contents = "abcdef 1234567890"

func startServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(WithUser("user", "password", "/data"))
	require.NoError(t, err)
	require.NoError(t, srv.AddFile("/data/file1.txt", []byte(file1Contents)))
	require.NoError(t, srv.AddFile("/data/run.exe", nil))
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Stop() })
	return srv
}

func dial(t *testing.T, srv *Server, opts ...ftp.DialOption) *ftp.ServerConn {
	t.Helper()
	opts = append(opts, ftp.DialWithTimeout(5*time.Second))
	c, err := ftp.Dial(srv.Addr(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Quit() })
	return c
}

func TestServer_Login(t *testing.T) {
	srv := startServer(t)

	t.Run("correct credentials", func(t *testing.T) {
		c := dial(t, srv)
		require.NoError(t, c.Login("user", "password"))

		dir, err := c.CurrentDir()
		require.NoError(t, err)
		assert.Equal(t, "/data", dir)
	})

	t.Run("wrong password", func(t *testing.T) {
		c := dial(t, srv)
		assert.Error(t, c.Login("user", "wrongpassword"))
	})

	t.Run("unknown user", func(t *testing.T) {
		c := dial(t, srv)
		assert.Error(t, c.Login("nobody", "password"))
	})

	assert.Equal(t, 1, srv.Logins())
	assert.GreaterOrEqual(t, srv.CommandCount("USER"), 3)
}

func TestServer_RequiresLogin(t *testing.T) {
	srv := startServer(t)

	conn, err := net.DialTimeout("tcp", srv.Addr(), 5*time.Second)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(buf[:n]), "220 "))

	_, err = fmt.Fprintf(conn, "RETR file1.txt\r\n")
	require.NoError(t, err)
	n, err = conn.Read(buf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(buf[:n]), "530 "))

	_, err = fmt.Fprintf(conn, "BOGUS\r\n")
	require.NoError(t, err)
	n, err = conn.Read(buf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(buf[:n]), "502 "))
}

func TestServer_Retrieve(t *testing.T) {
	for _, disableEPSV := range []bool{false, true} {
		t.Run(fmt.Sprintf("disableEPSV=%t", disableEPSV), func(t *testing.T) {
			srv := startServer(t)
			c := dial(t, srv, ftp.DialWithDisabledEPSV(disableEPSV))
			require.NoError(t, c.Login("user", "password"))

			r, err := c.Retr("file1.txt")
			require.NoError(t, err)
			data, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, file1Contents, string(data))

			_, err = c.Retr("doesNotExist.txt")
			assert.Error(t, err)

			// the session stays usable after a failed retrieve
			assert.NoError(t, c.NoOp())

			if disableEPSV {
				assert.Zero(t, srv.CommandCount("EPSV"))
				assert.Positive(t, srv.CommandCount("PASV"))
			} else {
				assert.Positive(t, srv.CommandCount("EPSV"))
			}
		})
	}
}

func TestServer_StoreAndAppend(t *testing.T) {
	srv := startServer(t)
	c := dial(t, srv)
	require.NoError(t, c.Login("user", "password"))

	require.NoError(t, c.Stor("testfile.txt", strings.NewReader(file1Contents)))
	data, err := srv.ReadFile("/data/testfile.txt")
	require.NoError(t, err)
	assert.Equal(t, file1Contents, string(data))

	require.NoError(t, c.Append("testfile.txt", strings.NewReader(file1Contents)))
	data, err = srv.ReadFile("/data/testfile.txt")
	require.NoError(t, err)
	assert.Equal(t, file1Contents+file1Contents, string(data))

	// store replaces
	require.NoError(t, c.Stor("testfile.txt", bytes.NewReader([]byte("new"))))
	data, err = srv.ReadFile("/data/testfile.txt")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	// append creates missing files
	require.NoError(t, c.Append("fresh.txt", strings.NewReader("x")))
	assert.True(t, srv.Exists("/data/fresh.txt"))

	size, err := c.FileSize("testfile.txt")
	require.NoError(t, err)
	assert.EqualValues(t, 3, size)
}

func TestServer_StoreIntoMissingDirectory(t *testing.T) {
	srv := startServer(t)
	c := dial(t, srv)
	require.NoError(t, c.Login("user", "password"))

	err := c.Stor("/folder/testfile.txt", strings.NewReader(file1Contents))
	require.Error(t, err)
	assert.False(t, srv.Exists("/folder/testfile.txt"))

	require.NoError(t, c.MakeDir("/folder"))
	require.NoError(t, c.Stor(`\folder\testfile.txt`, strings.NewReader(file1Contents)))
	assert.True(t, srv.Exists("/folder/testfile.txt"))
}

func TestServer_DeleteAndChangeDir(t *testing.T) {
	srv := startServer(t)
	c := dial(t, srv)
	require.NoError(t, c.Login("user", "password"))

	require.NoError(t, c.Delete("run.exe"))
	assert.False(t, srv.Exists("/data/run.exe"))
	assert.Error(t, c.Delete("run.exe"))

	require.NoError(t, c.ChangeDir("/"))
	dir, err := c.CurrentDir()
	require.NoError(t, err)
	assert.Equal(t, "/", dir)
	assert.Error(t, c.ChangeDir("/missing"))

	r, err := c.Retr("data/file1.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, file1Contents, string(data))
}

func TestServer_Stop(t *testing.T) {
	srv, err := NewServer(WithUser("user", "password", "/data"))
	require.NoError(t, err)
	assert.Empty(t, srv.Addr())
	assert.Zero(t, srv.Port())

	require.NoError(t, srv.Start())
	port := srv.Port()
	assert.Positive(t, port)

	c, err := ftp.Dial(srv.Addr(), ftp.DialWithTimeout(5*time.Second))
	require.NoError(t, err)
	require.NoError(t, c.Login("user", "password"))
	assert.Eventually(t, func() bool { return srv.Sessions() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, srv.Stop())
	assert.Zero(t, srv.Sessions())
	assert.Error(t, c.NoOp())

	_, err = net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), time.Second)
	assert.Error(t, err)
}

func TestNewServer_InvalidUser(t *testing.T) {
	_, err := NewServer(WithUser("", "password", "/data"))
	assert.Error(t, err)
}

func TestUserAccount(t *testing.T) {
	u, err := newUserAccount("user", "password", "data")
	require.NoError(t, err)
	assert.Equal(t, "/data", u.HomeDir)
	assert.NotEqual(t, "password", u.PasswordHash)
	assert.True(t, u.Authenticate("password"))
	assert.False(t, u.Authenticate("wrong"))
}
