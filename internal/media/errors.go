package media

import "errors"

var (
	ErrInvalidURL       = errors.New("invalid media url")
	ErrUnexpectedStatus = errors.New("unexpected media response status")
	ErrTooLarge         = errors.New("media exceeds size limit")
	ErrEmpty            = errors.New("media is empty")
	ErrFetchFailed      = errors.New("failed to fetch media")
)
