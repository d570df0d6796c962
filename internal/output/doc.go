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

// Package output writes the per-iteration progress records of the cancel and
// seek loops, and the run summary, to stdout.
//
// Two formats are supported:
//
//   - text: one human-readable line per record, e.g.
//     "Build 1043/1100 consumed. Expected completion Mon Jan 15 2024 10:01:00 GMT+0000 (UTC)"
//   - ndjson: one JSON object per line, for piping into other tools
//
// Example usage:
//
//	w, err := output.NewWriter(os.Stdout, output.FormatNDJSON)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := w.Write(output.ProgressEvent{Command: "build", Build: 1043, Target: 1100}); err != nil {
//	    return err
//	}
package output
