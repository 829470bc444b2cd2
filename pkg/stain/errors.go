package stain

import "errors"

// Sentinel errors for registration.
var (
	// ErrSealed indicates Add() was called after Seal().
	ErrSealed = errors.New("collection is sealed")

	// ErrNilEntry indicates Add() was called with a nil entry.
	ErrNilEntry = errors.New("entry cannot be nil")
)
