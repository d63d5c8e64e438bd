package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"ftpwriter/config"
	"ftpwriter/perfmetrics"
	"ftpwriter/terminal"
	"ftpwriter/writer"
)

var getCmd = &cli.Command{
	Name:      "get",
	Usage:     "Download a remote file, to stdout when no local path is given",
	ArgsUsage: "<remote> [local]",
	Action:    getAction,
}

var putCmd = &cli.Command{
	Name:      "put",
	Usage:     "Upload a local file",
	ArgsUsage: "<local> <remote>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "append",
			Aliases: []string{"a"},
			Usage:   "Append to the remote file instead of replacing it",
		},
	},
	Action: putAction,
}

var checkCmd = &cli.Command{
	Name:   "check",
	Usage:  "Connect, log in and verify the session with a NOOP",
	Action: checkAction,
}

var propertiesCmd = &cli.Command{
	Name:    "properties",
	Aliases: []string{"props"},
	Usage:   "Print the effective properties as TOML, password redacted",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		props, err := loadProperties(cmd)
		if err != nil {
			return err
		}
		data, err := config.Encode(props.Redacted())
		if err != nil {
			return fmt.Errorf("failed to encode properties: %w", err)
		}
		_, err = cmd.Root().Writer.Write(data)
		return err
	},
}

var shellCmd = &cli.Command{
	Name:   "shell",
	Usage:  "Start an interactive shell",
	Action: shellAction,
}

var versionCmd = &cli.Command{
	Name:  "version",
	Usage: "Print the version information",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		fmt.Fprintf(cmd.Root().Writer, "ftpwriter version %s\n", cmd.Root().Version)
		return nil
	},
}

// loadProperties starts from the config file, or defaults, and applies the
// flags that were set on the command line or in the environment.
func loadProperties(cmd *cli.Command) (config.FTPProperties, error) {
	props := config.Default()
	if path := cmd.String("config"); path != "" {
		p, err := config.Load(path)
		if err != nil {
			return config.FTPProperties{}, err
		}
		props = p
	}

	if cmd.IsSet("server") {
		props.Server = cmd.String("server")
	}
	if cmd.IsSet("port") {
		props.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("username") {
		props.Username = cmd.String("username")
	}
	if cmd.IsSet("password") {
		props.Password = cmd.String("password")
	}
	if cmd.IsSet("keep-alive") {
		props.KeepAliveTimeout = int(cmd.Int("keep-alive"))
	}
	if cmd.IsSet("debug") {
		props.Debug = cmd.Bool("debug")
	}
	return props, nil
}

// newWriter builds a writer from the command's properties. The password is
// prompted for when a named user has none and stdin is a terminal.
func newWriter(cmd *cli.Command) (*writer.FTPFileWriter, error) {
	props, err := loadProperties(cmd)
	if err != nil {
		return nil, err
	}

	if props.Password == "" && props.Username != "" && props.Username != "anonymous" &&
		term.IsTerminal(int(os.Stdin.Fd())) {
		pw, err := terminal.ReadPassword(os.Stdin, cmd.Root().ErrWriter, fmt.Sprintf("Password for %s: ", props.Username))
		if err != nil {
			return nil, err
		}
		props.Password = pw
	}

	opts := []writer.Option{writer.WithLogger(slog.Default().WithGroup("writer.FTPFileWriter"))}
	if path := cmd.String("metrics-file"); path != "" {
		csv, err := perfmetrics.NewCSVLogger(path, "ftpwriter")
		if err != nil {
			return nil, err
		}
		opts = append(opts, writer.WithRecorder(csv))
	}
	return writer.New(props, opts...), nil
}

// withSession opens a writer, runs fn and closes the writer again.
func withSession(ctx context.Context, cmd *cli.Command, fn func(w *writer.FTPFileWriter) error) error {
	w, err := newWriter(cmd)
	if err != nil {
		return err
	}
	if err := w.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			slog.Warn("Failed to close FTP session", "error", err)
		}
	}()
	return fn(w)
}

func getAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 || cmd.Args().Len() > 2 {
		return fmt.Errorf("usage: get <remote> [local]")
	}
	remote, local := cmd.Args().Get(0), cmd.Args().Get(1)
	out := cmd.Root().Writer

	return withSession(ctx, cmd, func(w *writer.FTPFileWriter) error {
		if local == "" {
			return w.LoadFile(remote, out)
		}

		f, err := os.Create(local)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", local, err)
		}
		loadErr := w.LoadFile(remote, f)
		closeErr := f.Close()
		if loadErr != nil {
			_ = os.Remove(local)
			return loadErr
		}
		if closeErr != nil {
			return fmt.Errorf("failed to write %s: %w", local, closeErr)
		}

		if r, ok := w.LastReport(); ok {
			fmt.Fprintln(out, r)
		}
		return nil
	})
}

func putAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("usage: put [--append] <local> <remote>")
	}
	local, remote := cmd.Args().Get(0), cmd.Args().Get(1)

	return withSession(ctx, cmd, func(w *writer.FTPFileWriter) error {
		if err := w.SaveFile(local, remote, cmd.Bool("append")); err != nil {
			return err
		}
		if r, ok := w.LastReport(); ok {
			fmt.Fprintln(cmd.Root().Writer, r)
		}
		return nil
	})
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer
	return withSession(ctx, cmd, func(w *writer.FTPFileWriter) error {
		if err := terminal.NewTableFormatter(out).FormatProperties(w.Properties()); err != nil {
			return err
		}
		if !w.IsConnected() {
			return fmt.Errorf("%w: no reply to NOOP", writer.ErrNotConnected)
		}
		fmt.Fprintf(out, "Connected to %s\n", w.Properties().Address())
		return nil
	})
}

func shellAction(ctx context.Context, cmd *cli.Command) error {
	w, err := newWriter(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	themes, err := themeManager()
	if err != nil {
		slog.Warn("Using the default theme", "error", err)
	}

	if err := w.Init(ctx); err != nil {
		slog.Warn("Auto start failed, use 'open' to retry", "error", err)
	}

	terminal.NewShell(ctx, w, terminal.WithThemeManager(themes), terminal.WithOutput(cmd.Root().Writer)).Run()
	return nil
}

func themeManager() (*terminal.ThemeManager, error) {
	path, err := terminal.DefaultThemePath()
	if err != nil {
		return nil, err
	}
	return terminal.NewThemeManager(path)
}
