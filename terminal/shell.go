package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/spf13/afero"

	"ftpwriter/config"
	"ftpwriter/transfer"
	"ftpwriter/writer"
)

// Session is the writer the shell drives.
type Session interface {
	writer.FileWriter
	Properties() config.FTPProperties
	LastReport() (transfer.Report, bool)
}

// Shell is an interactive front end to a Session.
type Shell struct {
	ctx       context.Context
	session   Session
	out       io.Writer
	localFs   afero.Fs
	themes    *ThemeManager
	tables    *TableFormatter
	completer *CommandCompleter

	opened bool
	exited bool
}

// ShellOption configures a Shell.
type ShellOption func(*Shell)

// WithOutput sets where the shell prints, stdout by default.
func WithOutput(w io.Writer) ShellOption {
	return func(s *Shell) {
		if w != nil {
			s.out = w
		}
	}
}

// WithThemeManager sets the colour theme source.
func WithThemeManager(tm *ThemeManager) ShellOption {
	return func(s *Shell) {
		if tm != nil {
			s.themes = tm
		}
	}
}

// WithShellFs sets the local filesystem for downloads and path completion.
// By default it is rooted at the LocalRoot property like the writer's.
func WithShellFs(fs afero.Fs) ShellOption {
	return func(s *Shell) {
		if fs != nil {
			s.localFs = fs
		}
	}
}

// NewShell creates a shell over session.
func NewShell(ctx context.Context, session Session, opts ...ShellOption) *Shell {
	s := &Shell{
		ctx:     ctx,
		session: session,
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.themes == nil {
		s.themes, _ = NewThemeManager("")
	}
	if s.localFs == nil {
		s.localFs = afero.NewOsFs()
		if root := session.Properties().LocalRoot; root != "" {
			s.localFs = afero.NewBasePathFs(s.localFs, root)
		}
	}
	s.tables = NewTableFormatter(s.out)
	s.completer = NewCommandCompleter(s.localFs)
	return s
}

// Completer is the go-prompt completer for the shell commands.
func (s *Shell) Completer(d prompt.Document) []prompt.Suggest {
	return s.completer.Completer(d)
}

// Run reads commands until exit or Ctrl+D.
func (s *Shell) Run() {
	s.themes.GetPromptColor().Fprintln(s.out, "ftpwriter shell")
	s.themes.GetTextColor().Fprintln(s.out, "Type 'help' for available commands")
	s.Execute("status")

	p := prompt.New(
		func(line string) { s.Execute(line) },
		s.Completer,
		prompt.OptionTitle("ftpwriter"),
		prompt.OptionLivePrefix(s.livePrefix),
		prompt.OptionPrefixTextColor(prompt.Green),
		prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
		prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
		prompt.OptionSuggestionBGColor(prompt.DarkGray),
		prompt.OptionCompletionWordSeparator(" "),
		prompt.OptionSetExitCheckerOnInput(func(_ string, breakline bool) bool {
			return breakline && s.exited
		}),
	)
	p.Run()
}

func (s *Shell) livePrefix() (string, bool) {
	if s.opened {
		return "[ftp " + s.session.Properties().Server + "]> ", true
	}
	return "ftpwriter> ", true
}

// Execute runs one command line. It returns false once the shell should exit.
func (s *Shell) Execute(line string) bool {
	args := parseArgs(line)
	if len(args) == 0 {
		return true
	}

	name, args := strings.ToLower(args[0]), args[1:]
	switch name {
	case "exit", "quit", "bye":
		s.closeSession()
		s.exited = true
		return false
	case "open":
		if err := s.session.Open(s.ctx); err != nil {
			s.failure(err)
			return true
		}
		s.opened = true
		s.success("Connected to %s", s.session.Properties().Address())
	case "close":
		s.closeSession()
	case "status":
		s.opened = s.session.IsConnected()
		if s.opened {
			s.success("Connected to %s", s.session.Properties().Address())
		} else {
			s.info("Not connected")
		}
	case "get":
		if !s.requireArgs(args, 1, 2, "get <remote> [local]") {
			return true
		}
		s.get(args)
	case "put", "append":
		if !s.requireArgs(args, 2, 2, name+" <local> <remote>") {
			return true
		}
		if err := s.session.SaveFile(args[0], args[1], name == "append"); err != nil {
			s.failure(err)
			return true
		}
		s.report()
	case "props":
		if err := s.tables.FormatProperties(s.session.Properties()); err != nil {
			s.failure(err)
		}
	case "theme":
		if len(args) == 0 {
			s.info("Current theme: %s (available: %s)", s.themes.GetThemeName(), strings.Join(ThemeNames(), ", "))
			return true
		}
		if err := s.themes.SetTheme(args[0]); err != nil {
			s.failure(err)
			return true
		}
		s.success("Theme set to %s", args[0])
	case "help":
		s.help()
	default:
		s.failure(fmt.Errorf("unknown command: %s (type 'help')", name))
	}
	return true
}

func (s *Shell) get(args []string) {
	remote := args[0]
	if len(args) == 1 {
		if err := s.session.LoadFile(remote, s.out); err != nil {
			s.failure(err)
			return
		}
		fmt.Fprintln(s.out)
		return
	}

	local := args[1]
	f, err := s.localFs.Create(local)
	if err != nil {
		s.failure(err)
		return
	}
	loadErr := s.session.LoadFile(remote, f)
	closeErr := f.Close()
	if loadErr == nil {
		loadErr = closeErr
	}
	if loadErr != nil {
		_ = s.localFs.Remove(local)
		s.failure(loadErr)
		return
	}
	s.completer.ClearCache()
	s.report()
}

func (s *Shell) closeSession() {
	if err := s.session.Close(); err != nil {
		s.failure(err)
	}
	if s.opened {
		s.info("Disconnected")
	}
	s.opened = false
}

func (s *Shell) report() {
	r, ok := s.session.LastReport()
	if !ok {
		return
	}
	if err := s.tables.FormatReport(r); err != nil {
		s.failure(err)
	}
}

func (s *Shell) help() {
	s.themes.GetInfoColor().Fprintln(s.out, "Available commands:")
	for _, c := range shellCommands {
		s.themes.GetTextColor().Fprintf(s.out, "  %-8s %s\n", c.Text, c.Description)
	}
}

func (s *Shell) requireArgs(args []string, lo, hi int, usage string) bool {
	if len(args) < lo || len(args) > hi {
		s.failure(fmt.Errorf("usage: %s", usage))
		return false
	}
	return true
}

func (s *Shell) success(format string, a ...any) {
	s.themes.GetSuccessColor().Fprintf(s.out, format+"\n", a...)
}

func (s *Shell) info(format string, a ...any) {
	s.themes.GetInfoColor().Fprintf(s.out, format+"\n", a...)
}

func (s *Shell) failure(err error) {
	s.themes.GetErrorColor().Fprintf(s.out, "Error: %v\n", err)
}

// parseArgs splits a line on spaces, keeping double-quoted words together.
func parseArgs(line string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case (r == ' ' || r == '\t') && !quoted:
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, current.String())
	}
	return args
}
