// Package sentinel holds the storage facts that stores report and services
// translate into domain errors. Input validation lives in pkg/domain-errors.
package sentinel

import "errors"

var (
	// ErrNotFound: no record with the requested key.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a unique key, such as an applicant PAN, is already taken.
	ErrConflict = errors.New("conflict")
)
