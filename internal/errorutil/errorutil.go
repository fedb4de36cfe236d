package errorutil

import "errors"

// ErrDataIntegrity is a base error type to use for failures that are due to
// malformed or inconsistent snapshot data.
var ErrDataIntegrity = errors.New("data integrity error")
