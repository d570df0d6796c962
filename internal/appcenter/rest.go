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
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirseerhq/build-seeker/internal/apierror"
	seekerrors "github.com/sirseerhq/build-seeker/internal/errors"
	"github.com/sirseerhq/build-seeker/internal/logging"
)

// RESTClient implements Client against the App Center REST API.
type RESTClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	inspector  apierror.Inspector
}

// NewRESTClient creates a client for the app whose API root is baseURL, for
// example https://appcenter.ms/api/v0.1/apps/acme/mobile. Every request is
// bounded by timeout. A nil logger discards log output.
func NewRESTClient(baseURL, apiKey string, timeout time.Duration, logger *logging.Logger) *RESTClient {
	if logger == nil {
		logger = logging.Nop()
	}

	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: newTransport(apiKey, logger),
			Timeout:   timeout,
		},
		logger:    logger,
		inspector: apierror.NewInspector(),
	}
}

// Cancel implements Client. Failures are logged and swallowed.
func (c *RESTClient) Cancel(ctx context.Context, buildNumber int) {
	path := fmt.Sprintf("/builds/%d", buildNumber)
	if _, err := c.do(ctx, http.MethodPatch, path, cancelRequest{Status: "cancelling"}); err != nil {
		c.logger.Errorf("cancel build %d: %s: %v", buildNumber, apierror.Describe(c.inspector, err), err)
		return
	}
	c.logger.Debugf("build %d set to cancelling", buildNumber)
}

// ListBranchBuilds implements Client.
func (c *RESTClient) ListBranchBuilds(ctx context.Context, branch string) ([]Build, error) {
	data, err := c.do(ctx, http.MethodGet, branchBuildsPath(branch), nil)
	if err != nil {
		var statusErr *seekerrors.StatusError
		if errors.As(err, &statusErr) && len(bytes.TrimSpace(data)) > 0 {
			// Error bodies are objects, which is the shape failure the operator needs to see.
			return nil, fmt.Errorf("%w: %w", shapeError(data), err)
		}
		return nil, fmt.Errorf("list builds for branch %q: %w", branch, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, shapeError(data)
	}

	var builds []Build
	if err := json.Unmarshal(trimmed, &builds); err != nil {
		return nil, fmt.Errorf("%w: %w", shapeError(data), err)
	}
	return builds, nil
}

// LatestBuild implements Client.
func (c *RESTClient) LatestBuild(ctx context.Context, branch string) (Build, error) {
	builds, err := c.ListBranchBuilds(ctx, branch)
	if err != nil {
		return Build{}, err
	}
	return latestOf(builds, branch)
}

// CreateBuild implements Client. HTTP 401 is fatal. Every other failure,
// including a response without a build number, is recoverable.
func (c *RESTClient) CreateBuild(ctx context.Context, branch, sourceVersion string) CreateResult {
	data, err := c.do(ctx, http.MethodPost, branchBuildsPath(branch), createRequest{SourceVersion: sourceVersion})
	if err != nil {
		var statusErr *seekerrors.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
			c.logger.Errorf("Auth header has expired. Get new ones")
			return Fatal(fmt.Errorf("create build on branch %q: %w", branch, seekerrors.ErrAuthExpired))
		}
		c.logger.Warnf("create build on branch %q: %s: %v", branch, apierror.Describe(c.inspector, err), err)
		return Recoverable(fmt.Errorf("create build: %w: %w", seekerrors.ErrTransient, err))
	}

	var created Build
	if err := json.Unmarshal(data, &created); err != nil {
		c.logger.Warnf("create build on branch %q: undecodable response: %v", branch, err)
		return Recoverable(fmt.Errorf("create build: %w: %w", seekerrors.ErrTransient, err))
	}
	if created.BuildNumber <= 0 {
		c.logger.Warnf("create build on branch %q: response has no build number", branch)
		return Recoverable(fmt.Errorf("create build: no build number in response: %w", seekerrors.ErrTransient))
	}

	return Created(int(created.BuildNumber))
}

// do sends one JSON request. For non-2xx responses the body is returned
// together with a *StatusError.
func (c *RESTClient) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return data, fmt.Errorf("%s %s: %w", method, path,
			&seekerrors.StatusError{StatusCode: resp.StatusCode, Status: resp.Status})
	}

	return data, nil
}

func branchBuildsPath(branch string) string {
	return "/branches/" + url.PathEscape(branch) + "/builds"
}

func shapeError(body []byte) *seekerrors.ShapeError {
	return &seekerrors.ShapeError{
		Operation: "get latest build",
		Body:      prettyJSON(body),
	}
}
