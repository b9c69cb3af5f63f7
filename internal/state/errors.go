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

package state

import "errors"

// This package reports failures with a small, private set of sentinel
// errors rather than depending on the tfs package's richer Kind/Error
// type (which would create an import cycle, since tfs depends on
// state). The tfs package's orchestration layer translates these back
// into tfs.Error values at its boundary.
var (
	errNoSpace     = errors.New("state: no space")
	errNotFound    = errors.New("state: not found")
	errNameExists  = errors.New("state: name exists")
	errInvalidName = errors.New("state: invalid name")
)

func IsNoSpace(err error) bool     { return errors.Is(err, errNoSpace) }
func IsNotFound(err error) bool    { return errors.Is(err, errNotFound) }
func IsNameExists(err error) bool  { return errors.Is(err, errNameExists) }
func IsInvalidName(err error) bool { return errors.Is(err, errInvalidName) }
