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

import "github.com/jacobsa/syncutil"

// BlockTable is the bounded pool of fixed-size data blocks of spec.md
// §4.1. Allocation is the same first-fit bitmap discipline as
// InodeTable; a block is owned by exactly one inode at a time.
type BlockTable struct {
	Mu        syncutil.InvariantMutex
	bitmap    bitmap
	blocks    [][]byte
	blockSize int
	gauge     tableGauge
}

func newBlockTable(capacity, blockSize int, gauge tableGauge) *BlockTable {
	t := &BlockTable{
		bitmap:    newBitmap(capacity),
		blocks:    make([][]byte, capacity),
		blockSize: blockSize,
		gauge:     gauge,
	}
	for i := range t.blocks {
		t.blocks[i] = make([]byte, blockSize)
	}
	t.Mu = syncutil.NewInvariantMutex(t.checkInvariants)
	t.gauge.setCapacity(capacity)
	return t
}

func (t *BlockTable) checkInvariants() {
	if t.bitmap.len() < 0 || t.bitmap.len() > t.bitmap.capacity() {
		panic("block table: bitmap count out of range")
	}
}

// Alloc returns the index of a freshly zeroed block.
func (t *BlockTable) Alloc() (int, error) {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	idx, ok := t.bitmap.allocate()
	if !ok {
		return 0, errNoSpace
	}

	clear(t.blocks[idx])
	t.gauge.setUsed(t.bitmap.len())
	return idx, nil
}

// Free returns a block to the pool and zeroes it. Freeing an already-
// free index is a no-op, matching the idempotent discipline of the
// other tables' Free methods.
func (t *BlockTable) Free(idx int) {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	if idx < 0 || idx >= len(t.blocks) || !t.bitmap.isUsed(idx) {
		return
	}
	clear(t.blocks[idx])
	t.bitmap.free(idx)
	t.gauge.setUsed(t.bitmap.len())
}

// Get returns the block's backing bytes directly; callers are expected
// to already hold the owning inode's rwlock (spec.md §3/§5), so no
// additional synchronization happens here.
func (t *BlockTable) Get(idx int) []byte {
	return t.blocks[idx]
}

func (t *BlockTable) Capacity() int { return t.bitmap.capacity() }

func (t *BlockTable) BlockSize() int { return t.blockSize }
