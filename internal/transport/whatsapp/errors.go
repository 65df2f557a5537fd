package whatsapp

import "errors"

var (
	ErrCredentialStore  = errors.New("failed to open credential store")
	ErrConnect          = errors.New("failed to connect")
	ErrNotPaired        = errors.New("device is not paired")
	ErrUpload           = errors.New("failed to upload media")
	ErrInvalidRecipient = errors.New("invalid recipient address")
)
