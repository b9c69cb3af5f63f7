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

// OpenFileEntry is created on a successful Open and destroyed on the
// matching Close. Mu serializes concurrent read/write against the same
// handle and guards Offset (spec.md §3/§5, lock level 2).
type OpenFileEntry struct {
	Mu syncutil.InvariantMutex

	// Inumber is a weak reference: the entry does not keep the inode
	// alive by itself. Written under the table's Mu when the handle is
	// added; read-only for the rest of the handle's life.
	Inumber int

	// GUARDED_BY(Mu)
	Offset int

	blockSize int
}

func newOpenFileEntry(blockSize int) *OpenFileEntry {
	e := &OpenFileEntry{blockSize: blockSize}
	e.Mu = syncutil.NewInvariantMutex(e.checkInvariants)
	return e
}

func (e *OpenFileEntry) checkInvariants() {
	if e.Offset < 0 || e.Offset > e.blockSize {
		panic(fmt.Sprintf("open file entry: offset %d out of [0, %d]", e.Offset, e.blockSize))
	}
}

// OpenFileTable is the bounded table of spec.md §4.1: add/get/remove by
// handle, plus a Contains(inumber) query used by Unlink's busy check.
type OpenFileTable struct {
	Mu      syncutil.InvariantMutex
	bitmap  bitmap
	entries []*OpenFileEntry
	gauge   tableGauge
}

func newOpenFileTable(capacity, blockSize int, gauge tableGauge) *OpenFileTable {
	t := &OpenFileTable{
		bitmap:  newBitmap(capacity),
		entries: make([]*OpenFileEntry, capacity),
		gauge:   gauge,
	}
	for i := range t.entries {
		t.entries[i] = newOpenFileEntry(blockSize)
	}
	t.Mu = syncutil.NewInvariantMutex(t.checkInvariants)
	t.gauge.setCapacity(capacity)
	return t
}

func (t *OpenFileTable) checkInvariants() {
	if t.bitmap.len() < 0 || t.bitmap.len() > t.bitmap.capacity() {
		panic("open file table: bitmap count out of range")
	}
}

// Add allocates a handle bound to (inumber, offset).
func (t *OpenFileTable) Add(inumber, offset int) (handle int, err error) {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	idx, ok := t.bitmap.allocate()
	if !ok {
		return 0, errNoSpace
	}

	e := t.entries[idx]
	e.Inumber = inumber
	e.Offset = offset

	t.gauge.setUsed(t.bitmap.len())
	return idx, nil
}

// Get returns the entry for handle, or errNotFound for an unused or
// out-of-range handle.
func (t *OpenFileTable) Get(handle int) (*OpenFileEntry, error) {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	if handle < 0 || handle >= len(t.entries) || !t.bitmap.isUsed(handle) {
		return nil, errNotFound
	}
	return t.entries[handle], nil
}

// Remove destroys the open-file entry for handle.
func (t *OpenFileTable) Remove(handle int) error {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	if handle < 0 || handle >= len(t.entries) || !t.bitmap.isUsed(handle) {
		return errNotFound
	}
	t.bitmap.free(handle)
	t.gauge.setUsed(t.bitmap.len())
	return nil
}

// Contains reports whether any live open-file entry references inumber.
// Callers that need this check to be race-free with a concurrent
// directory mutation (as Unlink does) must hold the filesystem global
// mutex around both the call to Contains and the mutation; this method
// only guarantees a consistent snapshot of the table itself.
func (t *OpenFileTable) Contains(inumber int) bool {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	for i, used := range t.bitmap.used {
		if used && t.entries[i].Inumber == inumber {
			return true
		}
	}
	return false
}

func (t *OpenFileTable) Capacity() int { return t.bitmap.capacity() }
