package models

import "errors"

var (
	ErrNotFound            = errors.New("file not found")
	ErrMissingFile         = errors.New("no file uploaded")
	ErrInvalidName         = errors.New("invalid file name")
	ErrMalformedRange      = errors.New("malformed range")
	ErrRangeNotSatisfiable = errors.New("requested range not satisfiable")
)
