package service

import "errors"

// ErrUnauthenticated means a guest attempted a user-only operation. The
// caller is expected to authenticate and retry the same request.
var ErrUnauthenticated = errors.New("authentication required")
