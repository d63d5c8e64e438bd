package terminal

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/c-bata/go-prompt"
	"github.com/spf13/afero"
)

var shellCommands = []prompt.Suggest{
	{Text: "open", Description: "Connect and log in to the FTP server"},
	{Text: "close", Description: "Log out and disconnect"},
	{Text: "status", Description: "Check the connection with a NOOP"},
	{Text: "get", Description: "Download a remote file: get <remote> [local]"},
	{Text: "put", Description: "Upload a local file: put <local> <remote>"},
	{Text: "append", Description: "Append a local file: append <local> <remote>"},
	{Text: "props", Description: "Show the connection properties"},
	{Text: "theme", Description: "Change terminal theme: theme <dark|light>"},
	{Text: "help", Description: "Show help information"},
	{Text: "exit", Description: "Disconnect and leave the shell"},
}

// CommandCompleter suggests shell commands and their arguments.
type CommandCompleter struct {
	localFs           afero.Fs
	cacheTimeout      time.Duration
	localFileCache    map[string][]string // names by local directory
	localFileCacheAge map[string]time.Time
}

// NewCommandCompleter completes local paths against localFs.
func NewCommandCompleter(localFs afero.Fs) *CommandCompleter {
	if localFs == nil {
		localFs = afero.NewOsFs()
	}
	return &CommandCompleter{
		localFs:           localFs,
		cacheTimeout:      10 * time.Second,
		localFileCache:    make(map[string][]string),
		localFileCacheAge: make(map[string]time.Time),
	}
}

// Completer returns suggestions for the current input
func (c *CommandCompleter) Completer(d prompt.Document) []prompt.Suggest {
	text := d.TextBeforeCursor()
	words := strings.Fields(text)

	if len(words) == 0 || (len(words) == 1 && !strings.HasSuffix(text, " ")) {
		return c.suggestCommands(words)
	}
	return c.suggestArguments(words, strings.HasSuffix(text, " "))
}

func (c *CommandCompleter) suggestCommands(words []string) []prompt.Suggest {
	if len(words) == 0 {
		return shellCommands
	}
	return prompt.FilterHasPrefix(shellCommands, words[0], true)
}

// suggestArguments completes the argument being typed; newWord means the
// cursor sits after a space and the argument is still empty.
func (c *CommandCompleter) suggestArguments(words []string, newWord bool) []prompt.Suggest {
	cmd := strings.ToLower(words[0])
	argIndex := len(words) - 2
	current := words[len(words)-1]
	if newWord {
		argIndex++
		current = ""
	}

	switch cmd {
	case "put", "append":
		if argIndex == 0 {
			return c.suggestLocalFiles(current)
		}
	case "get":
		if argIndex == 1 {
			return c.suggestLocalFiles(current)
		}
	case "theme":
		if argIndex == 0 {
			var suggestions []prompt.Suggest
			for _, name := range ThemeNames() {
				suggestions = append(suggestions, prompt.Suggest{Text: name, Description: "Theme"})
			}
			return prompt.FilterHasPrefix(suggestions, current, true)
		}
	}
	return nil
}

func (c *CommandCompleter) suggestLocalFiles(prefix string) []prompt.Suggest {
	dir, base := filepath.Split(prefix)
	lookup := dir
	if lookup == "" {
		lookup = "."
	}

	var suggestions []prompt.Suggest
	for _, name := range c.localFiles(lookup) {
		// hidden files only when asked for
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".") {
			continue
		}
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(base)) {
			suggestions = append(suggestions, prompt.Suggest{
				Text:        dir + name,
				Description: "Local file",
			})
		}
	}
	return suggestions
}

func (c *CommandCompleter) localFiles(dir string) []string {
	if files, ok := c.localFileCache[dir]; ok && time.Since(c.localFileCacheAge[dir]) < c.cacheTimeout {
		return files
	}

	entries, err := afero.ReadDir(c.localFs, dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			name += string(filepath.Separator)
		}
		files = append(files, name)
	}
	sort.Strings(files)

	c.localFileCache[dir] = files
	c.localFileCacheAge[dir] = time.Now()
	return files
}

// ClearCache drops cached local listings, e.g. after a download.
func (c *CommandCompleter) ClearCache() {
	c.localFileCache = make(map[string][]string)
	c.localFileCacheAge = make(map[string]time.Time)
}
