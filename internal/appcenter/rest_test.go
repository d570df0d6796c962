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

package appcenter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
	"time"

	seekerrors "github.com/sirseerhq/build-seeker/internal/errors"
	"github.com/sirseerhq/build-seeker/internal/logging"
)

// recordedRequest captures what the test server saw.
type recordedRequest struct {
	Method  string
	Path    string
	Header  http.Header
	Payload map[string]interface{}
}

type testServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Header: r.Header.Clone(),
		}
		if body, _ := io.ReadAll(r.Body); len(body) > 0 {
			_ = json.Unmarshal(body, &rec.Payload)
		}
		ts.mu.Lock()
		ts.requests = append(ts.requests, rec)
		ts.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) Requests() []recordedRequest {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]recordedRequest(nil), ts.requests...)
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func newTestClient(baseURL string) (*RESTClient, *bytes.Buffer) {
	var logs bytes.Buffer
	return NewRESTClient(baseURL, "test-key", 5*time.Second, logging.New(&logs, true)), &logs
}

func TestNewRESTClient(t *testing.T) {
	client := NewRESTClient("https://appcenter.ms/api/v0.1/apps/acme/mobile/", "key", time.Second, nil)
	if client == nil {
		t.Fatal("expected non-nil client")
	}
	if client.baseURL != "https://appcenter.ms/api/v0.1/apps/acme/mobile" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", client.baseURL)
	}

	// Verify it implements the Client interface
	var _ Client = client
}

func TestRESTClient_Headers(t *testing.T) {
	ts := newTestServer(t, respond(http.StatusOK, `{}`))
	client, _ := newTestClient(ts.URL)

	client.Cancel(context.Background(), 1)

	reqs := ts.Requests()
	if len(reqs) != 1 {
		t.Fatalf("got %d requests, want 1", len(reqs))
	}
	h := reqs[0].Header
	if got := h.Get("X-API-Token"); got != "test-key" {
		t.Errorf("X-API-Token = %q, want test-key", got)
	}
	if got := h.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if got := h.Get("User-Agent"); !strings.HasPrefix(got, "build-seeker/") {
		t.Errorf("User-Agent = %q, want build-seeker/ prefix", got)
	}
}

func TestRESTClient_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantLog string
	}{
		{
			name:    "accepted",
			handler: respond(http.StatusOK, `{"status":"cancelling"}`),
			wantLog: "build 42 set to cancelling",
		},
		{
			name:    "server error is swallowed",
			handler: respond(http.StatusInternalServerError, `{"message":"boom"}`),
			wantLog: "cancel build 42: server error",
		},
		{
			name:    "not found is swallowed",
			handler: respond(http.StatusNotFound, `{"message":"no such build"}`),
			wantLog: "cancel build 42: not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.handler)
			client, logs := newTestClient(ts.URL)

			client.Cancel(context.Background(), 42)

			reqs := ts.Requests()
			if len(reqs) != 1 {
				t.Fatalf("got %d requests, want 1", len(reqs))
			}
			if reqs[0].Method != http.MethodPatch {
				t.Errorf("method = %s, want PATCH", reqs[0].Method)
			}
			if reqs[0].Path != "/builds/42" {
				t.Errorf("path = %s, want /builds/42", reqs[0].Path)
			}
			if reqs[0].Payload["status"] != "cancelling" {
				t.Errorf("payload = %v, want status cancelling", reqs[0].Payload)
			}
			if !strings.Contains(logs.String(), tt.wantLog) {
				t.Errorf("logs = %q, want %q", logs.String(), tt.wantLog)
			}
		})
	}
}

func TestRESTClient_CancelNetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	client, logs := newTestClient(url)
	client.Cancel(context.Background(), 7)

	if !strings.Contains(logs.String(), "cancel build 7: network error") {
		t.Errorf("logs = %q, want network error line", logs.String())
	}
}

func TestRESTClient_ListBranchBuilds(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantErr    error
		wantBody   string
		wantCount  int
		wantNumber BuildNumber
	}{
		{
			name: "numeric build numbers",
			handler: respond(http.StatusOK, `[
				{"id": 3, "buildNumber": 120, "sourceVersion": "abc123", "status": "completed"},
				{"id": 2, "buildNumber": 119, "sourceVersion": "abc122", "status": "completed"}
			]`),
			wantCount:  2,
			wantNumber: 120,
		},
		{
			name:       "string build numbers",
			handler:    respond(http.StatusOK, `[{"buildNumber": "57", "sourceVersion": "def456"}]`),
			wantCount:  1,
			wantNumber: 57,
		},
		{
			name:      "empty list",
			handler:   respond(http.StatusOK, `[]`),
			wantCount: 0,
		},
		{
			name:     "object instead of list",
			handler:  respond(http.StatusOK, `{"code":"NotFound","message":"branch not configured"}`),
			wantErr:  seekerrors.ErrUnexpectedResponse,
			wantBody: `"message": "branch not configured"`,
		},
		{
			name:     "error status with body",
			handler:  respond(http.StatusUnauthorized, `{"message":"Unauthorized"}`),
			wantErr:  seekerrors.ErrUnexpectedResponse,
			wantBody: `"message": "Unauthorized"`,
		},
		{
			name:    "malformed json",
			handler: respond(http.StatusOK, `[{"buildNumber": }]`),
			wantErr: seekerrors.ErrUnexpectedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.handler)
			client, _ := newTestClient(ts.URL)

			builds, err := client.ListBranchBuilds(context.Background(), "develop")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if !strings.Contains(err.Error(), "unable to get latest build") {
					t.Errorf("error = %q, want operation in message", err.Error())
				}
				if tt.wantBody != "" && !strings.Contains(err.Error(), tt.wantBody) {
					t.Errorf("error = %q, want pretty body containing %q", err.Error(), tt.wantBody)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(builds) != tt.wantCount {
				t.Fatalf("got %d builds, want %d", len(builds), tt.wantCount)
			}
			if tt.wantCount > 0 && builds[0].BuildNumber != tt.wantNumber {
				t.Errorf("builds[0].BuildNumber = %d, want %d", builds[0].BuildNumber, tt.wantNumber)
			}

			reqs := ts.Requests()
			if reqs[0].Method != http.MethodGet || reqs[0].Path != "/branches/develop/builds" {
				t.Errorf("request = %s %s, want GET /branches/develop/builds", reqs[0].Method, reqs[0].Path)
			}
		})
	}
}

func TestRESTClient_BranchIsPathEscaped(t *testing.T) {
	ts := newTestServer(t, respond(http.StatusOK, `[]`))
	client, _ := newTestClient(ts.URL)

	if _, err := client.ListBranchBuilds(context.Background(), "feature/login flow"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "/branches/feature%2Flogin%20flow/builds"
	if got := ts.Requests()[0].Path; got != want {
		t.Errorf("path = %s, want %s", got, want)
	}
}

func TestRESTClient_LatestBuild(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		want    Build
	}{
		{
			name: "first entry wins",
			body: `[{"buildNumber": 120, "sourceVersion": "abc"}, {"buildNumber": 119, "sourceVersion": "old"}]`,
			want: Build{BuildNumber: 120, SourceVersion: "abc"},
		},
		{
			name:    "no builds",
			body:    `[]`,
			wantErr: seekerrors.ErrNoBuilds,
		},
		{
			name:    "missing source version",
			body:    `[{"buildNumber": 120}]`,
			wantErr: seekerrors.ErrUnexpectedResponse,
		},
		{
			name:    "missing build number",
			body:    `[{"sourceVersion": "abc"}]`,
			wantErr: seekerrors.ErrUnexpectedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, respond(http.StatusOK, tt.body))
			client, _ := newTestClient(ts.URL)

			got, err := client.LatestBuild(context.Background(), "develop")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.BuildNumber != tt.want.BuildNumber || got.SourceVersion != tt.want.SourceVersion {
				t.Errorf("LatestBuild() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRESTClient_CreateBuild(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus CreateStatus
		wantNumber int
		wantErr    error
		wantLog    string
	}{
		{
			name:       "queued",
			handler:    respond(http.StatusOK, `{"id": 9, "buildNumber": 121, "sourceVersion": "abc", "status": "notStarted"}`),
			wantStatus: CreateOK,
			wantNumber: 121,
		},
		{
			name:       "queued with string number",
			handler:    respond(http.StatusOK, `{"buildNumber": "122"}`),
			wantStatus: CreateOK,
			wantNumber: 122,
		},
		{
			name:       "expired token is fatal",
			handler:    respond(http.StatusUnauthorized, `{"message":"Unauthorized"}`),
			wantStatus: CreateFatal,
			wantErr:    seekerrors.ErrAuthExpired,
			wantLog:    "Auth header has expired. Get new ones",
		},
		{
			name:       "server error is recoverable",
			handler:    respond(http.StatusServiceUnavailable, `{"message":"try later"}`),
			wantStatus: CreateRecoverable,
			wantErr:    seekerrors.ErrTransient,
			wantLog:    "server error",
		},
		{
			name:       "forbidden is recoverable",
			handler:    respond(http.StatusForbidden, `{}`),
			wantStatus: CreateRecoverable,
			wantErr:    seekerrors.ErrTransient,
		},
		{
			name:       "no build number is recoverable",
			handler:    respond(http.StatusOK, `{"status":"queued"}`),
			wantStatus: CreateRecoverable,
			wantErr:    seekerrors.ErrTransient,
			wantLog:    "response has no build number",
		},
		{
			name:       "undecodable body is recoverable",
			handler:    respond(http.StatusOK, `<html>gateway</html>`),
			wantStatus: CreateRecoverable,
			wantErr:    seekerrors.ErrTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.handler)
			client, logs := newTestClient(ts.URL)

			res := client.CreateBuild(context.Background(), "develop", "abc")

			if res.Status != tt.wantStatus {
				t.Fatalf("Status = %s, want %s (err %v)", res.Status, tt.wantStatus, res.Err)
			}
			if res.BuildNumber != tt.wantNumber {
				t.Errorf("BuildNumber = %d, want %d", res.BuildNumber, tt.wantNumber)
			}
			if tt.wantErr != nil && !errors.Is(res.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", res.Err, tt.wantErr)
			}
			if tt.wantErr == nil && res.Err != nil {
				t.Errorf("Err = %v, want nil", res.Err)
			}
			if tt.wantLog != "" && !strings.Contains(logs.String(), tt.wantLog) {
				t.Errorf("logs = %q, want %q", logs.String(), tt.wantLog)
			}

			req := ts.Requests()[0]
			if req.Method != http.MethodPost || req.Path != "/branches/develop/builds" {
				t.Errorf("request = %s %s, want POST /branches/develop/builds", req.Method, req.Path)
			}
			if req.Payload["sourceVersion"] != "abc" {
				t.Errorf("payload = %v, want sourceVersion abc", req.Payload)
			}
		})
	}
}

func TestRESTClient_CreateBuildCanceledContext(t *testing.T) {
	ts := newTestServer(t, respond(http.StatusOK, `{"buildNumber": 1}`))
	client, _ := newTestClient(ts.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := client.CreateBuild(ctx, "develop", "abc")
	if res.Status != CreateRecoverable {
		t.Errorf("Status = %s, want recoverable", res.Status)
	}
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled in chain", res.Err)
	}
}

func TestLimitedReader(t *testing.T) {
	tests := []struct {
		name    string
		body    io.Reader
		wantLen int
		wantErr bool
	}{
		{name: "under limit", body: strings.NewReader(strings.Repeat("x", 4)), wantLen: 4},
		{name: "exactly at limit", body: strings.NewReader(strings.Repeat("x", 10)), wantLen: 10},
		{name: "at limit with data and EOF together", body: iotest.DataErrReader(strings.NewReader(strings.Repeat("x", 10))), wantLen: 10},
		{name: "over limit", body: strings.NewReader(strings.Repeat("x", 32)), wantLen: 10, wantErr: true},
		{name: "one byte over limit", body: strings.NewReader(strings.Repeat("x", 11)), wantLen: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := &limitedReader{ReadCloser: io.NopCloser(tt.body), limit: 10}

			data, err := io.ReadAll(lr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadAll() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(data) != tt.wantLen {
				t.Errorf("read %d bytes, want %d", len(data), tt.wantLen)
			}
		})
	}
}
