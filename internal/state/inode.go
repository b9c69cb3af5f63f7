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

import (
	"fmt"

	"github.com/jacobsa/syncutil"
)

// Type is the inode's file type.
type Type int

const (
	TypeFile Type = iota
	TypeDirectory
)

func (t Type) String() string {
	if t == TypeDirectory {
		return "directory"
	}
	return "file"
}

// Inode is the common record for both files and the single directory.
// Its fields other than Mu are guarded by Mu except where noted; callers
// outside this package acquire Mu themselves (see the LOCKS_REQUIRED
// comments below) rather than have every accessor take it implicitly,
// matching the locking discipline spec.md §5 assigns to the filesystem
// layer rather than the inode itself.
type Inode struct {
	// Mu guards Size, DataBlock, and the contents of the block DataBlock
	// refers to. It does not guard Type, SymlinkTarget or HardLinks: per
	// spec.md §5 those are written under the filesystem's global mutex.
	Mu syncutil.InvariantMutex

	typ Type

	// GUARDED_BY(Mu)
	Size int
	// GUARDED_BY(Mu); for a file, -1 iff Size == 0 (no block owned). The
	// root directory keeps its entry block while its Size stays 0.
	DataBlock int

	// HardLinks is the hard-link count: 1 at creation, incremented by
	// Link, decremented by Unlink. Reaching 0 triggers deletion.
	//
	// GUARDED_BY(filesystem global mutex, not Mu)
	HardLinks int

	// SymlinkTarget is non-empty iff this inode is a symbolic link; it
	// holds the path the link resolves to.
	//
	// GUARDED_BY(filesystem global mutex, not Mu)
	SymlinkTarget string

	blockSize int
}

func newInode(typ Type, blockSize int) *Inode {
	in := &Inode{
		typ:       typ,
		DataBlock: invalidInumber,
		HardLinks: 1,
		blockSize: blockSize,
	}
	in.Mu = syncutil.NewInvariantMutex(in.checkInvariants)
	return in
}

func (in *Inode) checkInvariants() {
	if in.Size < 0 || in.Size > in.blockSize {
		panic(fmt.Sprintf("inode: size %d out of [0, %d]", in.Size, in.blockSize))
	}
	if in.Size > 0 && in.DataBlock == invalidInumber {
		panic("inode: non-zero size with no data block")
	}
	if in.Size == 0 && in.typ == TypeFile && in.DataBlock != invalidInumber {
		panic("inode: zero-size file inode retains a data block")
	}
}

// Type returns the inode's type. It is set at creation and never
// changes, so it needs no lock.
func (in *Inode) Type() Type { return in.typ }

// IsSymlink reports whether this inode currently represents a symlink.
// SymlinkTarget is written once, under the filesystem global mutex,
// before the inode is entered in the directory, so callers that found
// the inode through a directory lookup may call this without that mutex.
func (in *Inode) IsSymlink() bool { return in.SymlinkTarget != "" }

// InodeTable is the bounded, bitmap-backed inode allocator of spec.md
// §4.1. Its own mutex (Mu) spans only the bitmap decision, never user
// I/O, matching "holding it spans only the allocate/free decision".
type InodeTable struct {
	Mu       syncutil.InvariantMutex
	bitmap   bitmap
	entries  []*Inode
	gauge    tableGauge
}

func newInodeTable(capacity int, blockSize int, gauge tableGauge) *InodeTable {
	t := &InodeTable{
		bitmap:  newBitmap(capacity),
		entries: make([]*Inode, capacity),
	}
	for i := range t.entries {
		t.entries[i] = newInode(TypeFile, blockSize)
	}
	t.gauge = gauge
	t.Mu = syncutil.NewInvariantMutex(t.checkInvariants)
	t.gauge.setCapacity(capacity)
	return t
}

func (t *InodeTable) checkInvariants() {
	if t.bitmap.len() < 0 || t.bitmap.len() > t.bitmap.capacity() {
		panic("inode table: bitmap count out of range")
	}
}

// Create allocates a fresh inode of the given type: size 0,
// hard-link count 1, empty symlink target.
func (t *InodeTable) Create(typ Type) (inum int, err error) {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	idx, ok := t.bitmap.allocate()
	if !ok {
		return 0, errNoSpace
	}

	in := t.entries[idx]
	in.typ = typ
	in.Size = 0
	in.DataBlock = invalidInumber
	in.HardLinks = 1
	in.SymlinkTarget = ""

	t.gauge.setUsed(t.bitmap.len())
	return idx, nil
}

// Get returns a stable pointer to the inode at inum. The pointer remains
// valid for as long as inum stays allocated; indices are never reused
// while an outstanding reference (held under the caller's own locking
// discipline) might still be live.
func (t *InodeTable) Get(inum int) (*Inode, error) {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	if inum < 0 || inum >= len(t.entries) || !t.bitmap.isUsed(inum) {
		return nil, errNotFound
	}
	return t.entries[inum], nil
}

// Free releases the inode slot at inum back to the bitmap. The caller is
// responsible for having already freed any data block the inode owned.
func (t *InodeTable) Free(inum int) error {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	if inum < 0 || inum >= len(t.entries) || !t.bitmap.isUsed(inum) {
		return errNotFound
	}
	t.bitmap.free(inum)
	t.gauge.setUsed(t.bitmap.len())
	return nil
}

func (t *InodeTable) Capacity() int {
	return t.bitmap.capacity()
}
