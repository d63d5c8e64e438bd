package writer

import "errors"

var (
	ErrNotConnected   = errors.New("not connected to ftp server")
	ErrConnect        = errors.New("failed to connect to ftp server")
	ErrLogin          = errors.New("failed to login to ftp server")
	ErrRetrieve       = errors.New("failed to retrieve file")
	ErrStore          = errors.New("failed to store file")
	ErrSourceNotFound = errors.New("source file not found")
)
