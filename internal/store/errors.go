package store

import "errors"

var (
	ErrConflict      = errors.New("conflict")
	ErrCorruptRecord = errors.New("corrupt record")
)
