package dispatch

import "errors"

var (
	// ErrDuplicateRegistration is returned when a pattern already has a handler. Under
	// ConflictReplace the new handler has been installed anyway.
	ErrDuplicateRegistration = errors.New("dispatch.duplicate_registration")

	// ErrNoDefault is returned by New when the default handler is nil.
	ErrNoDefault = errors.New("dispatch.no_default_handler")

	// ErrNilHandler is returned when registering or unregistering a nil handler.
	ErrNilHandler = errors.New("dispatch.nil_handler")

	// ErrUnknownConflictPolicy is returned by ParseConflictPolicy for unknown names.
	ErrUnknownConflictPolicy = errors.New("dispatch.unknown_conflict_policy")
)
