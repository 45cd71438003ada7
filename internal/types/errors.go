package types

import "errors"

// Domain specific errors shared by repositories, services and handlers.
var (
	ErrNotFound          = errors.New("requested item not found")
	ErrConflict          = errors.New("item already exists or conflict")
	ErrUnauthenticated   = errors.New("authentication required or invalid credentials")
	ErrForbidden         = errors.New("action forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrInvalidTransition = errors.New("status transition not allowed")
)
