package chainstore

import "errors"

// ErrAlreadyExists is returned by Create when a chain already exists
// at the configured path.
var ErrAlreadyExists = errors.New("blockchain already exists")

// ErrNotInitialised is returned by Open when no chain exists yet at
// the configured path.
var ErrNotInitialised = errors.New("no existing blockchain found, create one first")

// ErrNotFound is returned by GetBlock for an unknown hash.
var ErrNotFound = errors.New("block not found")
