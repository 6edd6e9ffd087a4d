package models

import "errors"

// ErrInvalidStatus is returned when a status value is not part of its enum.
var ErrInvalidStatus = errors.New("invalid status")
