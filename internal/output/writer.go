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

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Supported output formats.
const (
	FormatText   = "text"
	FormatNDJSON = "ndjson"
)

// Writer writes records in one of the supported formats. In text mode a
// record is rendered through Liner when it implements it and through
// fmt.Sprint otherwise. It is safe for concurrent use.
type Writer struct {
	mu        sync.Mutex
	output    io.Writer
	format    string
	encoder   *json.Encoder
	count     int
	closeFunc func() error
}

// NewWriter creates a writer for format on w.
func NewWriter(w io.Writer, format string) (*Writer, error) {
	switch format {
	case "":
		format = FormatText
	case FormatText, FormatNDJSON:
	default:
		return nil, fmt.Errorf("unknown output format %q (supported: %s, %s)", format, FormatText, FormatNDJSON)
	}
	return &Writer{
		output:  w,
		format:  format,
		encoder: json.NewEncoder(w),
	}, nil
}

// NewFileWriter creates a writer that writes to a file.
// The caller must call Close() when done to ensure the file is properly closed.
func NewFileWriter(filename, format string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w, err := NewWriter(file, format)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	w.closeFunc = file.Close
	return w, nil
}

// Write writes a single record and flushes it as one line.
func (w *Writer) Write(record interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	if w.format == FormatNDJSON {
		err = w.encoder.Encode(record)
	} else {
		_, err = io.WriteString(w.output, strings.TrimRight(render(record), "\n")+"\n")
	}
	if err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	w.count++
	return nil
}

// Format returns the writer's output format.
func (w *Writer) Format() string {
	return w.format
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying writer if it's a file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}

func render(record interface{}) string {
	if l, ok := record.(Liner); ok {
		return l.Line()
	}
	return fmt.Sprint(record)
}
