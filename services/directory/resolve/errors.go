// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolve

import (
	"errors"
	"fmt"
)

// ErrCode classifies resolution failures for callers that map them to
// transport-level responses.
type ErrCode string

const (
	// ErrCodeInvalidInput marks a malformed or too-long identifier,
	// rejected before any I/O.
	ErrCodeInvalidInput ErrCode = "INVALID_INPUT"

	// ErrCodeBackendUnavailable marks a transient storage failure that
	// could not be absorbed by the cascade.
	ErrCodeBackendUnavailable ErrCode = "BACKEND_UNAVAILABLE"

	// ErrCodeInternal marks an unexpected programming error.
	ErrCodeInternal ErrCode = "INTERNAL"
)

// Error is the resolution engine's coded error.
//
// "Not found" is deliberately NOT an Error: an unmatched identifier is a
// normal ResolutionResult with FoundBy == FoundByNone.
type Error struct {
	// Code classifies the failure.
	Code ErrCode

	// Message is a human-readable description.
	Message string

	// Retryable reports whether the caller may retry the same request.
	Retryable bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("resolve: %s: %s", e.Code, e.Message)
}

// NewError creates a coded resolution error.
func NewError(code ErrCode, message string, retryable bool) *Error {
	return &Error{Code: code, Message: message, Retryable: retryable}
}

// IsInvalidInput reports whether err is an input-validation rejection.
func IsInvalidInput(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Code == ErrCodeInvalidInput
}
