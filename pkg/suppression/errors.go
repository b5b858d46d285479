package suppression

import "errors"

// ErrStoreUnavailable wraps storage failures so callers can distinguish a
// broken store from invalid input without inspecting driver errors.
var ErrStoreUnavailable = errors.New("suppression store unavailable")
