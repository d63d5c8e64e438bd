package config

import "errors"

var (
	ErrInvalidProperties = errors.New("invalid ftp properties")
	ErrLoadProperties    = errors.New("failed to load ftp properties")
	ErrParseProperties   = errors.New("failed to parse ftp properties")
)
