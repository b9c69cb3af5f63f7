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
	"strings"

	"github.com/jacobsa/tfs/internal/state"
)

// Mode is a bitset of flags controlling Open's behavior.
type Mode int

const (
	// CREAT creates the file if it does not already exist.
	CREAT Mode = 1 << iota

	// STRICT_CREATE implies CREAT, but fails with Exists if the file is
	// already present.
	STRICT_CREATE

	// TRUNC truncates an existing file to size 0. Ignored for a file that
	// was just created by this call.
	TRUNC

	// APPEND starts the handle's offset at the file's current size
	// rather than 0. Takes effect only for an existing file.
	APPEND
)

// maxSymlinkDepth bounds Open's recursive symlink resolution (spec §9):
// a path that needs this many symlink hops or more is treated as a cycle
// and rejected with Invalid, rather than recursing unboundedly as the
// source does.
const maxSymlinkDepth = 40

// Open resolves path under mode and returns a handle, following the
// contract of spec §4.4.
func (fs *FileSystem) Open(path string, mode Mode) (int, error) {
	return fs.open(path, mode, 0)
}

func (fs *FileSystem) open(path string, mode Mode, depth int) (int, error) {
	if depth >= maxSymlinkDepth {
		return -1, newErr("open", Invalid, path)
	}
	if !validPath(path) {
		return -1, newErr("open", Invalid, path)
	}

	fs.mu.Lock()
	inum, err := fs.lookup(path)

	var (
		offset  int
		created bool
	)

	switch {
	case err == nil:
		if mode&STRICT_CREATE != 0 {
			fs.mu.Unlock()
			return -1, newErr("open", Exists, path)
		}
		fs.mu.Unlock()

		in, gerr := fs.st.InodeGet(inum)
		if gerr != nil {
			panic("open: looked-up inode vanished")
		}

		if in.IsSymlink() {
			return fs.open(in.SymlinkTarget, mode, depth+1)
		}

		if mode&TRUNC != 0 {
			in.Mu.Lock()
			if in.Size > 0 {
				fs.st.DataBlockFree(in.DataBlock)
				in.DataBlock = state.InvalidBlock
				in.Size = 0
			}
			in.Mu.Unlock()
		}

		if mode&APPEND != 0 {
			in.Mu.RLock()
			offset = in.Size
			in.Mu.RUnlock()
		} else {
			offset = 0
		}

	case state.IsNotFound(err):
		// STRICT_CREATE implies CREAT semantics when the name is absent;
		// it only changes behavior (Exists, above) when the name is
		// already present.
		if mode&(CREAT|STRICT_CREATE) == 0 {
			fs.mu.Unlock()
			return -1, newErr("open", NotFound, path)
		}

		newInum, cerr := fs.st.InodeCreate(state.TypeFile)
		if cerr != nil {
			fs.mu.Unlock()
			return -1, wrapErr("open", NoSpace, path, cerr)
		}

		name := strings.TrimPrefix(path, "/")
		if aerr := fs.st.AddDirEntry(fs.st.Root, name, newInum); aerr != nil {
			_ = fs.st.InodeDelete(newInum)
			fs.mu.Unlock()
			return -1, translateDirErr("open", path, aerr)
		}

		inum = newInum
		offset = 0
		created = true
		fs.mu.Unlock()

	default:
		fs.mu.Unlock()
		return -1, wrapErr("open", Corruption, path, err)
	}

	handle, err := fs.st.OpenFileAdd(inum, offset)
	if err != nil {
		if created {
			// Orphan unwind (spec §9 EXPANSION): the source leaves a
			// named, sizeless inode behind here; a clean reimplementation
			// removes the directory entry and deletes the inode instead.
			fs.mu.Lock()
			name := strings.TrimPrefix(path, "/")
			_ = fs.st.ClearDirEntry(fs.st.Root, name)
			_ = fs.st.InodeDelete(inum)
			fs.mu.Unlock()
		}
		return -1, wrapErr("open", NoSpace, path, err)
	}

	return handle, nil
}
