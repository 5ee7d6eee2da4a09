// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package discovery

import (
	"errors"
	"fmt"
)

// InvalidInputError reports malformed request arguments (negative limits,
// unknown kinds, out-of-range coordinates). It is returned before any
// scoring runs; missing-but-optional fields never produce it.
type InvalidInputError struct {
	// Field is the offending argument name.
	Field string

	// Reason describes the constraint that was violated.
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// CandidateRetrievalError reports a failure of the upstream search/index or
// geolocation collaborator. It is always propagated to the caller, never
// swallowed into an empty result, so the UI can distinguish "nothing found"
// from "couldn't search right now".
type CandidateRetrievalError struct {
	// Op names the retrieval operation that failed (e.g. "fetch candidates").
	Op string

	// Err is the underlying collaborator error.
	Err error
}

func (e *CandidateRetrievalError) Error() string {
	return fmt.Sprintf("candidate retrieval: %s: %v", e.Op, e.Err)
}

func (e *CandidateRetrievalError) Unwrap() error {
	return e.Err
}

// IsInvalidInput reports whether err is (or wraps) an InvalidInputError.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}

// IsRetrievalError reports whether err is (or wraps) a CandidateRetrievalError.
func IsRetrievalError(err error) bool {
	var re *CandidateRetrievalError
	return errors.As(err, &re)
}
