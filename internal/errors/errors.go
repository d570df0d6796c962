// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors defines sentinel errors for consistent error handling across the application.
// Callers use errors.Is to decide whether a failure aborts the run or is absorbed by a loop.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidConfig indicates a missing or malformed API key, app URL or flag value.
	// Fatal at startup.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnexpectedResponse indicates the build API returned a body of the wrong shape,
	// such as an object where a list of builds was expected. Fatal.
	ErrUnexpectedResponse = errors.New("unexpected api response")

	// ErrNoBuilds indicates the branch has no builds to seek from. Fatal.
	ErrNoBuilds = errors.New("branch has no builds")

	// ErrAuthExpired indicates the API rejected the token with HTTP 401.
	// Fatal, never retried: the token has to be replaced externally.
	ErrAuthExpired = errors.New("auth header has expired")

	// ErrTransient indicates a single request failed in a way the loops recover from.
	ErrTransient = errors.New("transient request failure")
)

// ShapeError carries the offending response body of an ErrUnexpectedResponse
// so that it can be shown to the operator.
type ShapeError struct {
	Operation string
	Body      string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unable to %s: \n%s", e.Operation, e.Body)
}

// Unwrap makes errors.Is(err, ErrUnexpectedResponse) hold for every ShapeError.
func (e *ShapeError) Unwrap() error {
	return ErrUnexpectedResponse
}

// StatusError records a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api responded with status %s", e.Status)
}
