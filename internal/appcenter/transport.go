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
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirseerhq/build-seeker/internal/logging"
	"github.com/sirseerhq/build-seeker/pkg/version"
)

// maxResponseBytes caps every response body read by the client.
const maxResponseBytes = 10 * 1024 * 1024

// authTransport adds the API token, content type and user agent headers and
// limits the size of response bodies.
type authTransport struct {
	apiKey string
	base   http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	req.Header.Set("X-API-Token", t.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("build-seeker/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseBytes,
		}
	}

	return resp, nil
}

// loggingTransport writes one debug line per request with its status and latency.
type loggingTransport struct {
	base   http.RoundTripper
	logger *logging.Logger
}

// newTransport builds the round tripper chain used by RESTClient.
func newTransport(apiKey string, logger *logging.Logger) http.RoundTripper {
	base := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &loggingTransport{
		base: &authTransport{
			apiKey: apiKey,
			base:   base,
		},
		logger: logger,
	}
}

// RoundTrip implements http.RoundTripper with request logging.
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.logger.Enabled(logging.LevelDebug) {
		return t.base.RoundTrip(req)
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		t.logger.Debugf("%s %s failed after %s: %v", req.Method, req.URL.Path, elapsed, err)
		return nil, err
	}
	t.logger.Debugf("%s %s -> %s in %s", req.Method, req.URL.Path, resp.Status, elapsed)
	return resp, nil
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		// A body of exactly limit bytes still ends with a clean EOF.
		var extra [1]byte
		if n, err := lr.ReadCloser.Read(extra[:]); n == 0 {
			return 0, err
		}
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}
