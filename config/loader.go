package config

import (
	"fmt"
	"os"

	gotoml "github.com/pelletier/go-toml/v2"
)

// file is the on-disk layout; properties live under the [ftp] table.
type file struct {
	FTP FTPProperties `toml:"ftp"`
}

// Load reads a TOML file and returns its [ftp] table on top of Default().
func Load(path string) (FTPProperties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FTPProperties{}, fmt.Errorf("%w: %w", ErrLoadProperties, err)
	}
	return Parse(data)
}

// Parse decodes TOML source. Keys that are absent keep their default value.
func Parse(source []byte) (FTPProperties, error) {
	f := file{FTP: Default()}
	if err := gotoml.Unmarshal(source, &f); err != nil {
		return FTPProperties{}, fmt.Errorf("%w: %w", ErrParseProperties, err)
	}
	return f.FTP, nil
}

// Encode renders properties in the same layout Load accepts.
func Encode(p FTPProperties) ([]byte, error) {
	return gotoml.Marshal(file{FTP: p})
}
