package gate

import "errors"

// Sentinel errors returned by authorization checks.
var ErrUnauthorized = errors.New("unauthorized")
