package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"ftpwriter/logging"
)

// Version is set during build using ldflags
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "ftpwriter",
		Version:   Version,
		Usage:     "Load and save files on an FTP server",
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML file with an [ftp] table",
				Sources: cli.EnvVars("FTP_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("FTP_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text or json)",
				Value: "text",
			},
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "FTP server host",
				Sources: cli.EnvVars("FTP_SERVER"),
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "FTP control port",
				Sources: cli.EnvVars("FTP_PORT"),
			},
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Login user",
				Sources: cli.EnvVars("FTP_USERNAME"),
			},
			&cli.StringFlag{
				Name:    "password",
				Usage:   "Login password, prompted for when empty on a terminal",
				Sources: cli.EnvVars("FTP_PASSWORD"),
			},
			&cli.IntFlag{
				Name:    "keep-alive",
				Usage:   "Seconds of idle time before a NOOP is sent, 0 disables",
				Sources: cli.EnvVars("FTP_KEEP_ALIVE_TIMEOUT"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log the FTP dialog (needs --log-level debug)",
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "Append a CSV row per transfer to this file",
				Sources: cli.EnvVars("FTP_METRICS_FILE"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetupLogger(cmd.String("log-level"), cmd.String("log-format"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			getCmd,
			putCmd,
			checkCmd,
			propertiesCmd,
			shellCmd,
			versionCmd,
		},
	}
}
