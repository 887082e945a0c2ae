package services

import "errors"

// Authentication errors. Storage-level failure kinds (not found, no
// copies, duplicates) are the repositories package sentinels; these
// cover the credential checks that only the service layer performs.
var (
	ErrUserNotFound       = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("invalid password")
)
