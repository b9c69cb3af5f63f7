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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitmapFirstFit(t *testing.T) {
	b := newBitmap(3)

	i0, ok := b.allocate()
	require.True(t, ok)
	require.Equal(t, 0, i0)

	i1, ok := b.allocate()
	require.True(t, ok)
	require.Equal(t, 1, i1)

	b.free(i0)

	i2, ok := b.allocate()
	require.True(t, ok, "freed index 0 should be reused before a fresh one")
	require.Equal(t, 0, i2)
}

func TestBitmapExhaustion(t *testing.T) {
	b := newBitmap(2)

	_, ok := b.allocate()
	require.True(t, ok)
	_, ok = b.allocate()
	require.True(t, ok)

	_, ok = b.allocate()
	require.False(t, ok)
}

func TestBitmapFreeIsIdempotent(t *testing.T) {
	b := newBitmap(1)

	idx, ok := b.allocate()
	require.True(t, ok)

	b.free(idx)
	require.Equal(t, 0, b.len())

	b.free(idx)
	require.Equal(t, 0, b.len())
}

func TestBitmapLenAndCapacity(t *testing.T) {
	b := newBitmap(4)
	require.Equal(t, 4, b.capacity())
	require.Equal(t, 0, b.len())

	b.allocate()
	b.allocate()
	require.Equal(t, 2, b.len())
}
