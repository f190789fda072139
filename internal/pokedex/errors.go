package pokedex

import "errors"

// Sentinel errors for view operations.
var (
	ErrAlreadyMounted  = errors.New("pokedex: view already mounted")
	ErrNotReady        = errors.New("pokedex: filter panel is not ready")
	ErrUnknownCategory = errors.New("pokedex: unknown category")
)
