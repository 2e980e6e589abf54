package service

import "errors"

// ErrLimitExceeded is returned when a request is larger than the configured
// limits allow. The core never truncates a computation; the service refuses
// it up front instead.
var ErrLimitExceeded = errors.New("request exceeds configured limits")
