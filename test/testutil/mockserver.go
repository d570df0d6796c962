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

// Package testutil provides a fake App Center build API for tests that need
// to run build-seeker against real HTTP.
package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// MockServer is a fake App Center app. It serves a branch listing, creates
// builds with sequential numbers and records cancel requests. Configure it
// through the exported fields before the first request.
type MockServer struct {
	*httptest.Server

	// Token is the accepted X-API-Token. Other tokens get 401.
	Token string
	// Branch is the only branch with builds.
	Branch string
	// Latest is the newest build number on Branch.
	Latest int
	// SourceVersion is reported for every build.
	SourceVersion string
	// Listing, when set, replaces the branch listing body verbatim.
	Listing string
	// CreateFailures makes that many create requests fail with CreateStatus
	// before creation starts to succeed.
	CreateFailures int
	// CreateStatus is the status of a failed create. Defaults to 503.
	CreateStatus int

	mu        sync.Mutex
	next      int
	creates   int
	cancelled []int
	requests  []string
}

// NewMockServer creates a fake app whose develop branch is at build latest.
// The server is closed when the test ends.
func NewMockServer(t *testing.T, latest int) *MockServer {
	t.Helper()
	m := &MockServer{
		Token:         "test-key",
		Branch:        "develop",
		Latest:        latest,
		SourceVersion: "abc123",
		CreateStatus:  http.StatusServiceUnavailable,
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.Close)
	return m
}

// NewErrorServer creates a mock server that always returns the specified error
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	m := &MockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.record(r)
		w.WriteHeader(statusCode)
		_, _ = io.WriteString(w, fmt.Sprintf(`{"message": %q}`, http.StatusText(statusCode)))
	}))
	t.Cleanup(m.Close)
	return m
}

func (m *MockServer) serve(w http.ResponseWriter, r *http.Request) {
	m.record(r)

	m.mu.Lock()
	defer m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.Header.Get("X-API-Token") != m.Token {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message": "Unauthorized"}`)
		return
	}

	buildsPath := "/branches/" + m.Branch + "/builds"
	switch {
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/builds/"):
		var n int
		if _, err := fmt.Sscanf(strings.TrimPrefix(r.URL.Path, "/builds/"), "%d", &n); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		m.cancelled = append(m.cancelled, n)
		fmt.Fprintf(w, `{"buildNumber": %d, "status": "cancelling"}`, n)

	case r.Method == http.MethodGet && r.URL.Path == buildsPath:
		if m.Listing != "" {
			_, _ = io.WriteString(w, m.Listing)
			return
		}
		fmt.Fprintf(w, `[{"id": %d, "buildNumber": "%d", "sourceVersion": %q, "status": "completed"}]`,
			m.Latest, m.Latest, m.SourceVersion)

	case r.Method == http.MethodPost && r.URL.Path == buildsPath:
		m.creates++
		if m.creates <= m.CreateFailures {
			w.WriteHeader(m.CreateStatus)
			_, _ = io.WriteString(w, `{"message": "create failed"}`)
			return
		}
		if m.next == 0 {
			m.next = m.Latest + 1
		}
		fmt.Fprintf(w, `{"id": %d, "buildNumber": %d, "sourceVersion": %q, "status": "notStarted"}`,
			m.next, m.next, m.SourceVersion)
		m.next++

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message": "Not Found"}`)
	}
}

func (m *MockServer) record(r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, r.Method+" "+r.URL.EscapedPath())
}

// Cancelled returns the build numbers cancelled so far, in arrival order.
func (m *MockServer) Cancelled() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.cancelled...)
}

// Creates returns how many create requests were received.
func (m *MockServer) Creates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creates
}

// Requests returns "METHOD path" for every request received.
func (m *MockServer) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}
