package shared

import "errors"

// Cross-module sentinels. Repositories translate driver errors into these
// so handlers can map them to HTTP statuses without importing pgx.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCSRFTokenMissing   = errors.New("csrf token missing")
	ErrCSRFTokenMismatch  = errors.New("csrf token mismatch")
)
