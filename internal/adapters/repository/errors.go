package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrDuplicateSession = errors.New("training session already recorded")
	ErrInvalidSession   = errors.New("invalid training session")
)
