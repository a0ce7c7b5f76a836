package services

import "errors"

// Analysis service errors
var (
	ErrNoFilesProvided = errors.New("no files provided")
	ErrTooManyFiles    = errors.New("too many files")
)
