package store

import "errors"

var (
	ErrNotFound  = errors.New("session not found")
	ErrEmptyID   = errors.New("session id is empty")
	ErrStorage   = errors.New("session storage failure")
	ErrNilClient = errors.New("mongo database is nil")
)
