package terminal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	gotoml "github.com/pelletier/go-toml/v2"
)

// Theme represents a terminal theme configuration
type Theme struct {
	Name         string `toml:"name"`
	PromptColor  string `toml:"prompt_color"`
	TextColor    string `toml:"text_color"`
	ErrorColor   string `toml:"error_color"`
	SuccessColor string `toml:"success_color"`
	InfoColor    string `toml:"info_color"`
}

var themes = map[string]Theme{
	"dark": {
		Name:         "dark",
		PromptColor:  "green",
		TextColor:    "white",
		ErrorColor:   "red",
		SuccessColor: "green",
		InfoColor:    "cyan",
	},
	"light": {
		Name:         "light",
		PromptColor:  "blue",
		TextColor:    "black",
		ErrorColor:   "red",
		SuccessColor: "green",
		InfoColor:    "blue",
	},
}

// ThemeNames lists the themes SetTheme accepts.
func ThemeNames() []string {
	return []string{"dark", "light"}
}

// ThemeManager keeps the active theme and persists it to a TOML file.
type ThemeManager struct {
	currentTheme Theme
	configPath   string
}

// DefaultThemePath is ~/.ftpwriter/theme.toml.
func DefaultThemePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ftpwriter", "theme.toml"), nil
}

// NewThemeManager loads the theme stored at configPath. A missing file is
// created with the dark theme; an empty path keeps the theme in memory only.
func NewThemeManager(configPath string) (*ThemeManager, error) {
	tm := &ThemeManager{
		currentTheme: themes["dark"],
		configPath:   configPath,
	}
	if configPath == "" {
		return tm, nil
	}

	if err := tm.LoadTheme(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load theme: %w", err)
		}
		if err := tm.SaveTheme(); err != nil {
			return nil, fmt.Errorf("failed to save default theme: %w", err)
		}
	}
	return tm, nil
}

// LoadTheme loads the theme from the config file
func (tm *ThemeManager) LoadTheme() error {
	data, err := os.ReadFile(tm.configPath)
	if err != nil {
		return err
	}

	t := tm.currentTheme
	if err := gotoml.Unmarshal(data, &t); err != nil {
		return err
	}
	tm.currentTheme = t
	return nil
}

// SaveTheme saves the current theme to the config file
func (tm *ThemeManager) SaveTheme() error {
	if tm.configPath == "" {
		return nil
	}
	data, err := gotoml.Marshal(tm.currentTheme)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(tm.configPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(tm.configPath, data, 0o644)
}

// SetTheme switches to a named theme and saves it.
func (tm *ThemeManager) SetTheme(name string) error {
	t, ok := themes[name]
	if !ok {
		return fmt.Errorf("unknown theme: %s", name)
	}
	tm.currentTheme = t
	return tm.SaveTheme()
}

func (tm *ThemeManager) GetPromptColor() *color.Color {
	return getColorFromName(tm.currentTheme.PromptColor)
}

func (tm *ThemeManager) GetTextColor() *color.Color {
	return getColorFromName(tm.currentTheme.TextColor)
}

func (tm *ThemeManager) GetErrorColor() *color.Color {
	return getColorFromName(tm.currentTheme.ErrorColor)
}

func (tm *ThemeManager) GetSuccessColor() *color.Color {
	return getColorFromName(tm.currentTheme.SuccessColor)
}

func (tm *ThemeManager) GetInfoColor() *color.Color {
	return getColorFromName(tm.currentTheme.InfoColor)
}

// GetThemeName returns the name of the current theme
func (tm *ThemeManager) GetThemeName() string {
	return tm.currentTheme.Name
}

func getColorFromName(name string) *color.Color {
	switch name {
	case "black":
		return color.New(color.FgBlack)
	case "red":
		return color.New(color.FgRed)
	case "green":
		return color.New(color.FgGreen)
	case "yellow":
		return color.New(color.FgYellow)
	case "blue":
		return color.New(color.FgBlue)
	case "magenta":
		return color.New(color.FgMagenta)
	case "cyan":
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}
