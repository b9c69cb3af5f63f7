// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tfs

import (
	"errors"
	"fmt"
)

// Kind classifies the ways a TFS operation can fail.
type Kind int

const (
	// Invalid covers a bad path, a bad handle, or a bad mode combination.
	Invalid Kind = iota + 1

	// NotFound covers a lookup miss where one was required.
	NotFound

	// Exists covers STRICT_CREATE over an existing name.
	Exists

	// NoSpace covers exhaustion of any of the three allocator tables.
	NoSpace

	// Busy covers unlink of a name whose inumber is open.
	Busy

	// NotSupported covers a hard link to a symlink.
	NotSupported

	// Corruption covers an invariant violation detected mid-operation. It
	// is fatal: callers should treat it like the source's ALWAYS_ASSERT,
	// which aborts the process rather than returning.
	Corruption
)

// Error lets a bare Kind act as a sentinel error, so callers may write
// errors.Is(err, tfs.NotFound) without constructing an *Error.
func (k Kind) Error() string {
	switch k {
	case Invalid:
		return "invalid"
	case NotFound:
		return "not found"
	case Exists:
		return "exists"
	case NoSpace:
		return "no space"
	case Busy:
		return "busy"
	case NotSupported:
		return "not supported"
	case Corruption:
		return "corruption"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every TFS operation. Op names the
// failing operation (e.g. "open", "unlink") for log-friendly messages.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error // optional wrapped cause
}

func (e *Error) Error() string {
	if e.Path != "" {
		if e.Err != nil {
			return fmt.Sprintf("tfs: %s %q: %s: %v", e.Op, e.Path, e.Kind, e.Err)
		}
		return fmt.Sprintf("tfs: %s %q: %s", e.Op, e.Path, e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("tfs: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("tfs: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, tfs.Invalid) work directly against a bare Kind,
// in addition to errors.Is(err, &Error{Kind: tfs.Invalid}).
func (e *Error) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return e.Kind == k
	}
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

func newErr(op string, kind Kind, path string) error {
	return &Error{Op: op, Kind: kind, Path: path}
}

func wrapErr(op string, kind Kind, path string, cause error) error {
	return &Error{Op: op, Kind: kind, Path: path, Err: cause}
}

// KindOf extracts the Kind of err if it (or something it wraps) is a
// *Error, and ok=false otherwise.
func KindOf(err error) (kind Kind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// KindIs reports whether err's Kind is k. It is shorthand for a KindOf
// call followed by an equality check.
func KindIs(err error, k Kind) bool {
	kind, ok := KindOf(err)
	return ok && kind == k
}
