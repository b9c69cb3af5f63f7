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

// bitmap is the free/used tracking structure shared by all three
// allocator tables (spec: "three fixed-capacity arrays... each with a
// parallel free/used bitmap"). Allocation is deterministic first-fit:
// the lowest-index free slot is always chosen, which is what makes
// index reuse testable.
//
// A bitmap never resizes; its length is fixed at construction to the
// owning table's capacity.
type bitmap struct {
	used []bool
	n    int // count of used bits, kept incrementally for O(1) Len
}

func newBitmap(capacity int) bitmap {
	return bitmap{used: make([]bool, capacity)}
}

// allocate finds the first free bit, marks it used, and returns its
// index. ok is false if the bitmap is full.
func (b *bitmap) allocate() (index int, ok bool) {
	for i, u := range b.used {
		if !u {
			b.used[i] = true
			b.n++
			return i, true
		}
	}
	return 0, false
}

// free marks index unused. It is a no-op if the index is already free.
func (b *bitmap) free(index int) {
	if b.used[index] {
		b.used[index] = false
		b.n--
	}
}

func (b *bitmap) isUsed(index int) bool {
	return index >= 0 && index < len(b.used) && b.used[index]
}

func (b *bitmap) capacity() int { return len(b.used) }

func (b *bitmap) len() int { return b.n }
