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

// Package tfs implements an in-memory, single-directory, fixed-capacity
// file system addressed through integer handles, safe for concurrent use
// from multiple goroutines.
//
// The primary elements of interest are:
//
//  *  FileSystem, constructed with Init or New, which owns the bounded
//     inode, data-block, and open-file tables and exposes Open, Close,
//     Read, Write, Link, Symlink, Unlink, and CopyFromExternal.
//
//  *  Params, which fixes table sizes and block size for a FileSystem at
//     construction time.
//
//  *  Error and Kind, which classify every way an operation can fail.
//
// TFS never touches the host kernel's VFS; CopyFromExternal is the only
// point of contact with the host filesystem, and it only reads from it.
package tfs
