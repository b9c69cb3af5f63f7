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
	"fmt"
	"strings"

	"github.com/google/uuid"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/jacobsa/syncutil"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jacobsa/tfs/internal/state"
)

// FileSystem is a process-wide, in-memory, single-directory filesystem
// reached through integer handles. A zero FileSystem is not usable; build
// one with Init.
type FileSystem struct {
	id uuid.UUID

	// mu is the global filesystem mutex of spec §5, lock level 1: it
	// guards name-space mutation (directory entry insertion/removal) and
	// the lookup-then-create sequence inside Open.
	mu syncutil.InvariantMutex

	st  *state.State
	reg *prometheus.Registry

	metricsUsed     *prometheus.GaugeVec
	metricsCapacity *prometheus.GaugeVec
}

func (fs *FileSystem) checkInvariants() {
	if fs.st == nil {
		panic("FileSystem used before Init")
	}
}

// Init constructs a FileSystem with the given parameters, creating the
// root directory. It returns Invalid if any parameter is non-positive.
func Init(p Params) (*FileSystem, error) {
	if p.MaxInodeCount <= 0 || p.MaxBlockCount <= 0 || p.MaxOpenFilesCount <= 0 || p.BlockSize <= 0 {
		return nil, newErr("init", Invalid, "")
	}

	reg := prometheus.NewRegistry()
	st := state.New(p, reg)
	fs := &FileSystem{
		id:              uuid.New(),
		st:              st,
		reg:             reg,
		metricsUsed:     st.Metrics().UsedVec(),
		metricsCapacity: st.Metrics().CapacityVec(),
	}
	fs.mu = syncutil.NewInvariantMutex(fs.checkInvariants)

	getLogger().Printf("%s: init inodes=%d blocks=%d open_files=%d block_size=%d",
		fs.id, p.MaxInodeCount, p.MaxBlockCount, p.MaxOpenFilesCount, p.BlockSize)

	return fs, nil
}

// New is Init with DefaultParams modified by opts, panicking on the
// programmer error of supplying non-positive table sizes.
func New(opts ...ParamsOption) *FileSystem {
	fs, err := Init(NewParams(opts...))
	if err != nil {
		panic(err)
	}
	return fs
}

// Destroy tears fs down. It is safe to call exactly once; using fs
// afterward has undefined results. Any open handles still outstanding at
// Destroy time are reported, aggregated with any metrics-unregistration
// failure, via go-multierror rather than silently discarded.
func (fs *FileSystem) Destroy() error {
	var result *multierror.Error

	if n := fs.outstandingHandleCount(); n > 0 {
		result = multierror.Append(result, wrapErr("destroy", Busy, "",
			fmt.Errorf("%d open handle(s) outstanding at destroy", n)))
	}

	if !fs.reg.Unregister(fs.metricsUsed) {
		result = multierror.Append(result, wrapErr("destroy", Corruption, "",
			fmt.Errorf("failed to unregister tfs_table_used")))
	}
	if !fs.reg.Unregister(fs.metricsCapacity) {
		result = multierror.Append(result, wrapErr("destroy", Corruption, "",
			fmt.Errorf("failed to unregister tfs_table_capacity")))
	}

	getLogger().Printf("%s: destroyed", fs.id)
	return result.ErrorOrNil()
}

func (fs *FileSystem) outstandingHandleCount() int {
	n := 0
	capacity := fs.st.OpenFileCapacity()
	for h := 0; h < capacity; h++ {
		if _, err := fs.st.OpenFileGet(h); err == nil {
			n++
		}
	}
	return n
}

// validPath reports whether path is non-empty, longer than one byte,
// begins with '/', and is shorter than state.MaxFileName (spec §4.3).
func validPath(path string) bool {
	return len(path) > 1 && path[0] == '/' && len(path) < state.MaxFileName
}

// lookup resolves path (which must already have passed validPath) against
// the root directory. Callers must hold fs.mu.
func (fs *FileSystem) lookup(path string) (int, error) {
	name := strings.TrimPrefix(path, "/")
	inum, err := fs.st.FindInDir(fs.st.Root, name)
	if err != nil {
		return 0, err
	}
	return inum, nil
}

// Close removes the open-file entry for handle.
func (fs *FileSystem) Close(handle int) error {
	if err := fs.st.OpenFileRemove(handle); err != nil {
		return wrapErr("close", Invalid, "", err)
	}
	return nil
}

// Write copies up to len(p) bytes into the file open under handle at its
// current offset, advancing the offset and returning the number of bytes
// actually written. It never returns a short count for a reason other
// than running off the end of the single data block.
func (fs *FileSystem) Write(handle int, p []byte) (int, error) {
	entry, err := fs.st.OpenFileGet(handle)
	if err != nil {
		return 0, wrapErr("write", Invalid, "", err)
	}

	entry.Mu.Lock()
	defer entry.Mu.Unlock()

	in, err := fs.st.InodeGet(entry.Inumber)
	if err != nil {
		panic("write: inode of open file deleted")
	}

	in.Mu.Lock()
	defer in.Mu.Unlock()

	blockSize := fs.st.BlockSize()
	toWrite := len(p)
	if entry.Offset+toWrite > blockSize {
		toWrite = blockSize - entry.Offset
	}
	if toWrite <= 0 {
		return 0, nil
	}

	if in.Size == 0 {
		bnum, err := fs.st.DataBlockAlloc()
		if err != nil {
			return 0, wrapErr("write", NoSpace, "", err)
		}
		in.DataBlock = bnum
	}

	block := fs.st.DataBlockGet(in.DataBlock)
	copy(block[entry.Offset:entry.Offset+toWrite], p[:toWrite])

	entry.Offset += toWrite
	if entry.Offset > in.Size {
		in.Size = entry.Offset
	}

	return toWrite, nil
}

// Read copies up to len(p) bytes from the file open under handle,
// starting at its current offset, advancing the offset. It additionally
// takes fs.mu for the duration of the call, matching the source's
// over-synchronisation (spec §5): mutual exclusion between Read and any
// name-space change.
func (fs *FileSystem) Read(handle int, p []byte) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	entry, err := fs.st.OpenFileGet(handle)
	if err != nil {
		return 0, wrapErr("read", Invalid, "", err)
	}

	entry.Mu.Lock()
	defer entry.Mu.Unlock()

	in, err := fs.st.InodeGet(entry.Inumber)
	if err != nil {
		panic("read: inode of open file deleted")
	}

	in.Mu.RLock()
	defer in.Mu.RUnlock()

	toRead := in.Size - entry.Offset
	if toRead > len(p) {
		toRead = len(p)
	}
	if toRead <= 0 {
		return 0, nil
	}

	block := fs.st.DataBlockGet(in.DataBlock)
	n := copy(p, block[entry.Offset:entry.Offset+toRead])
	entry.Offset += n

	return n, nil
}

// Link creates link_path as a new directory entry pointing at the same
// inumber as target_path, incrementing its hard-link count. It fails
// with NotSupported if target_path resolves to a symlink.
func (fs *FileSystem) Link(targetPath, linkPath string) error {
	if !validPath(targetPath) || !validPath(linkPath) {
		return newErr("link", Invalid, linkPath)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	inum, err := fs.lookup(targetPath)
	if err != nil {
		return wrapErr("link", NotFound, targetPath, err)
	}

	in, err := fs.st.InodeGet(inum)
	if err != nil {
		panic("link: looked-up inode vanished")
	}
	if in.IsSymlink() {
		return newErr("link", NotSupported, targetPath)
	}

	name := strings.TrimPrefix(linkPath, "/")
	if err := fs.st.AddDirEntry(fs.st.Root, name, inum); err != nil {
		return translateDirErr("link", linkPath, err)
	}

	in.HardLinks++
	return nil
}

// Symlink creates link_path as a new symlink inode whose target is
// target_path. target_path must currently resolve; its content is not
// otherwise inspected.
func (fs *FileSystem) Symlink(targetPath, linkPath string) error {
	if !validPath(targetPath) || !validPath(linkPath) {
		return newErr("symlink", Invalid, linkPath)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := fs.lookup(targetPath); err != nil {
		return wrapErr("symlink", NotFound, targetPath, err)
	}

	inum, err := fs.st.InodeCreate(state.TypeFile)
	if err != nil {
		return wrapErr("symlink", NoSpace, linkPath, err)
	}

	in, err := fs.st.InodeGet(inum)
	if err != nil {
		panic("symlink: just-created inode vanished")
	}
	in.SymlinkTarget = targetPath

	name := strings.TrimPrefix(linkPath, "/")
	if err := fs.st.AddDirEntry(fs.st.Root, name, inum); err != nil {
		_ = fs.st.InodeDelete(inum)
		return translateDirErr("symlink", linkPath, err)
	}

	return nil
}

// Unlink removes target_path's directory entry and decrements its
// inode's hard-link count, deleting the inode if the count reaches zero.
// If the inumber is referenced by any open-file entry, the whole
// operation aborts under a single acquisition of fs.mu with no partial
// mutation and returns Busy (spec §4.4, §9 EXPANSION).
func (fs *FileSystem) Unlink(targetPath string) error {
	if !validPath(targetPath) {
		return newErr("unlink", Invalid, targetPath)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	inum, err := fs.lookup(targetPath)
	if err != nil {
		return wrapErr("unlink", NotFound, targetPath, err)
	}

	if fs.st.OpenFileContains(inum) {
		return newErr("unlink", Busy, targetPath)
	}

	name := strings.TrimPrefix(targetPath, "/")
	if err := fs.st.ClearDirEntry(fs.st.Root, name); err != nil {
		return wrapErr("unlink", NotFound, targetPath, err)
	}

	in, err := fs.st.InodeGet(inum)
	if err != nil {
		panic("unlink: looked-up inode vanished")
	}

	in.HardLinks--
	if in.HardLinks == 0 {
		if err := fs.st.InodeDelete(inum); err != nil {
			panic("unlink: inode delete failed on a live inumber")
		}
	}

	return nil
}

// translateDirErr maps internal/state's directory-layer sentinel errors
// onto the public Kind taxonomy.
func translateDirErr(op, path string, err error) error {
	switch {
	case state.IsNoSpace(err):
		return wrapErr(op, NoSpace, path, err)
	case state.IsNameExists(err):
		return wrapErr(op, Exists, path, err)
	case state.IsInvalidName(err):
		return wrapErr(op, Invalid, path, err)
	default:
		return wrapErr(op, Corruption, path, err)
	}
}
