package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnknownPersona    = errors.New("unknown persona")
	ErrPremiumLocked     = errors.New("premium persona requires pro plan")
	ErrMissingCredential = errors.New("missing provider credential")
	ErrProviderFailure   = errors.New("provider failure")
)
