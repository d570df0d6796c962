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
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// BuildNumber is the provider-assigned build number. The API has been seen to
// encode it both as a JSON number and as a decimal string, so it decodes from
// either form.
type BuildNumber int

// UnmarshalJSON implements json.Unmarshaler.
func (n *BuildNumber) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid build number %s: %w", raw, err)
		}
		raw = strings.TrimSpace(s)
	}

	if v, err := strconv.Atoi(raw); err == nil {
		*n = BuildNumber(v)
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid build number %s", string(data))
	}
	*n = BuildNumber(int(f))
	return nil
}

// Build is one entry of a branch build listing, and also the body returned
// when a build is queued. Only BuildNumber and SourceVersion drive the tool;
// the remaining fields are kept for logging and NDJSON output.
type Build struct {
	ID            int         `json:"id,omitempty"`
	BuildNumber   BuildNumber `json:"buildNumber"`
	SourceVersion string      `json:"sourceVersion"`
	SourceBranch  string      `json:"sourceBranch,omitempty"`
	Status        string      `json:"status,omitempty"`
	Result        string      `json:"result,omitempty"`
	QueueTime     *time.Time  `json:"queueTime,omitempty"`
}

// CreateStatus classifies the outcome of a CreateBuild call.
type CreateStatus int

const (
	// CreateOK means a build was queued and BuildNumber is set.
	CreateOK CreateStatus = iota
	// CreateRecoverable means the call failed in a way the caller retries after a delay.
	CreateRecoverable
	// CreateFatal means further calls cannot succeed, for example an expired token.
	CreateFatal
)

func (s CreateStatus) String() string {
	switch s {
	case CreateOK:
		return "ok"
	case CreateRecoverable:
		return "recoverable"
	case CreateFatal:
		return "fatal"
	default:
		return fmt.Sprintf("CreateStatus(%d)", int(s))
	}
}

// CreateResult is the explicit outcome of CreateBuild. Err is nil only when
// Status is CreateOK.
type CreateResult struct {
	Status      CreateStatus
	BuildNumber int
	Err         error
}

// Created returns an OK result for build n.
func Created(n int) CreateResult {
	return CreateResult{Status: CreateOK, BuildNumber: n}
}

// Recoverable returns a result the caller should retry.
func Recoverable(err error) CreateResult {
	return CreateResult{Status: CreateRecoverable, Err: err}
}

// Fatal returns a result the caller must stop on.
func Fatal(err error) CreateResult {
	return CreateResult{Status: CreateFatal, Err: err}
}

type cancelRequest struct {
	Status string `json:"status"`
}

type createRequest struct {
	SourceVersion string `json:"sourceVersion"`
}

// prettyJSON indents a JSON body for error messages. Bodies that are not JSON
// are returned unchanged.
func prettyJSON(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(data), "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}

func prettyValue(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
