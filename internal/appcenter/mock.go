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
	"context"
	"fmt"
	"sync"

	seekerrors "github.com/sirseerhq/build-seeker/internal/errors"
)

// CreateCall records the arguments of one CreateBuild call.
type CreateCall struct {
	Branch        string
	SourceVersion string
}

// MockClient is a mock implementation of the Client interface for testing.
// Created build numbers are sequential, starting after the latest build,
// unless scripted results are queued with WithCreateResults.
// MockClient is safe for concurrent use, since deferred cancels call it
// from their own goroutines.
type MockClient struct {
	mu sync.Mutex

	builds        []Build
	listErr       error
	createResults []CreateResult
	nextNumber    int
	onCancel      func(buildNumber int)

	cancelled []int
	creates   []CreateCall
	listCalls int
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithBuilds replaces the branch listing returned by the mock.
func WithBuilds(builds ...Build) MockClientOption {
	return func(m *MockClient) {
		m.builds = builds
		if len(builds) > 0 {
			m.nextNumber = int(builds[0].BuildNumber) + 1
		}
	}
}

// WithListError makes ListBranchBuilds and LatestBuild fail with err.
func WithListError(err error) MockClientOption {
	return func(m *MockClient) {
		m.listErr = err
	}
}

// WithCreateResults queues results returned by CreateBuild in order. Once the
// queue is drained the mock falls back to sequential build numbers.
func WithCreateResults(results ...CreateResult) MockClientOption {
	return func(m *MockClient) {
		m.createResults = append(m.createResults, results...)
	}
}

// WithCancelHook registers a function called for every Cancel.
func WithCancelHook(fn func(buildNumber int)) MockClientOption {
	return func(m *MockClient) {
		m.onCancel = fn
	}
}

// NewMockClient creates a mock whose branch has a single latest build.
func NewMockClient(latestNumber int, sourceVersion string, opts ...MockClientOption) *MockClient {
	m := &MockClient{}
	WithBuilds(Build{BuildNumber: BuildNumber(latestNumber), SourceVersion: sourceVersion})(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Cancel implements the Client interface
func (m *MockClient) Cancel(ctx context.Context, buildNumber int) {
	m.mu.Lock()
	m.cancelled = append(m.cancelled, buildNumber)
	hook := m.onCancel
	m.mu.Unlock()

	if hook != nil {
		hook(buildNumber)
	}
}

// ListBranchBuilds implements the Client interface
func (m *MockClient) ListBranchBuilds(ctx context.Context, branch string) ([]Build, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.listErr != nil {
		return nil, m.listErr
	}

	builds := make([]Build, len(m.builds))
	copy(builds, m.builds)
	return builds, nil
}

// LatestBuild implements the Client interface
func (m *MockClient) LatestBuild(ctx context.Context, branch string) (Build, error) {
	builds, err := m.ListBranchBuilds(ctx, branch)
	if err != nil {
		return Build{}, err
	}
	return latestOf(builds, branch)
}

// CreateBuild implements the Client interface
func (m *MockClient) CreateBuild(ctx context.Context, branch, sourceVersion string) CreateResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creates = append(m.creates, CreateCall{Branch: branch, SourceVersion: sourceVersion})

	if err := ctx.Err(); err != nil {
		return Recoverable(fmt.Errorf("create build: %w: %w", seekerrors.ErrTransient, err))
	}

	if len(m.createResults) > 0 {
		res := m.createResults[0]
		m.createResults = m.createResults[1:]
		if res.Status == CreateOK {
			m.nextNumber = res.BuildNumber + 1
		}
		return res
	}

	n := m.nextNumber
	m.nextNumber++
	return Created(n)
}

// Cancelled returns the build numbers passed to Cancel, in call order.
func (m *MockClient) Cancelled() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.cancelled))
	copy(out, m.cancelled)
	return out
}

// Creates returns the recorded CreateBuild calls.
func (m *MockClient) Creates() []CreateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CreateCall, len(m.creates))
	copy(out, m.creates)
	return out
}

// ListCalls returns how many times the branch listing was requested.
func (m *MockClient) ListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}
