package core

import "errors"

// Configuration errors, raised synchronously from registration/lookup calls.
var (
	ErrUnknownDevice     = errors.New("core: no such device")
	ErrDuplicateName     = errors.New("core: duplicate device name")
	ErrDuplicateAddress  = errors.New("core: duplicate hardware address")
	ErrNotConfigured     = errors.New("core: machine configuration not yet run")
	ErrAlreadyConfigured = errors.New("core: machine already configured")
)
