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

package apierror

import (
	"errors"
	"net"
	"net/http"
	"strings"

	seekerrors "github.com/sirseerhq/build-seeker/internal/errors"
)

// Inspector classifies errors returned by the build API client.
type Inspector interface {
	// IsAuthError returns true if the error represents a rejected or expired token.
	IsAuthError(err error) bool

	// IsNotFoundError returns true if the error represents an unknown build or branch.
	IsNotFoundError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool

	// IsServerError returns true if the API answered with a 5xx status.
	IsServerError(err error) bool
}

// AppCenterInspector implements Inspector for App Center API errors. It checks
// the error chain for typed errors first and falls back to message matching
// for errors that only carry text. Status codes are only read from a
// StatusError; build numbers in request paths look the same.
type AppCenterInspector struct{}

// NewInspector creates a new AppCenterInspector.
func NewInspector() Inspector {
	return &AppCenterInspector{}
}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *AppCenterInspector) IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, seekerrors.ErrAuthExpired) {
		return true
	}
	if code, ok := statusCode(err); ok {
		return code == http.StatusUnauthorized || code == http.StatusForbidden
	}
	if isNetError(err) {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "forbidden")
}

// IsNotFoundError checks if the error is a not found error.
func (i *AppCenterInspector) IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := statusCode(err); ok {
		return code == http.StatusNotFound
	}
	if isNetError(err) {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *AppCenterInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if isNetError(err) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "eof") ||
		strings.Contains(errStr, "network is unreachable")
}

// IsServerError checks if the API answered with a 5xx status.
func (i *AppCenterInspector) IsServerError(err error) bool {
	code, ok := statusCode(err)
	return ok && code >= 500
}

// Describe returns a short label for the kind of failure, used as a log prefix.
func Describe(inspector Inspector, err error) string {
	switch {
	case err == nil:
		return ""
	case inspector.IsAuthError(err):
		return "auth error"
	case inspector.IsNotFoundError(err):
		return "not found"
	case inspector.IsServerError(err):
		return "server error"
	case inspector.IsNetworkError(err):
		return "network error"
	default:
		return "api error"
	}
}

func statusCode(err error) (int, bool) {
	var statusErr *seekerrors.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}

// isNetError reports whether a transport error is in the chain. Their messages
// carry host and port, which must not be matched against status codes.
func isNetError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}
