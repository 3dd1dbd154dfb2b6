package services

import "errors"

// Sentinel errors shared by the services. Handlers match them with errors.Is
// to pick a status code. Ownership failures on mutation paths are reported as
// ErrNotFound so callers cannot probe for the existence of foreign records.
var (
	ErrNotFound      = errors.New("not found")
	ErrNotAuthorized = errors.New("not authorized")
	ErrQuotaExceeded = errors.New("you have reached the maximum number of requests allowed")
)
