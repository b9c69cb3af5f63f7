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
	"strings"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/require"
)

type dirEntryPair struct {
	Name string
	Inum int
}

func TestPutGetEntryRoundTrip(t *testing.T) {
	block := make([]byte, dirEntrySize*2)
	putEntry(block, 0, "alpha", 7)
	putEntry(block, 1, "beta", 9)

	name0, inum0 := getEntry(block, 0)
	name1, inum1 := getEntry(block, 1)

	got := []dirEntryPair{{name0, inum0}, {name1, inum1}}
	want := []dirEntryPair{{"alpha", 7}, {"beta", 9}}
	if diff := pretty.Compare(got, want); diff != "" {
		t.Fatalf("putEntry/getEntry round-trip mismatch (-got +want):\n%s", diff)
	}
}

func newTestState(t *testing.T) *State {
	t.Helper()
	return New(Params{
		MaxInodeCount:     8,
		MaxBlockCount:     8,
		MaxOpenFilesCount: 4,
		BlockSize:         256,
	}, nil)
}

func TestAddFindClearDirEntry(t *testing.T) {
	s := newTestState(t)

	require.NoError(t, s.AddDirEntry(s.Root, "a", 1))
	require.NoError(t, s.AddDirEntry(s.Root, "b", 2))

	inum, err := s.FindInDir(s.Root, "a")
	require.NoError(t, err)
	require.Equal(t, 1, inum)

	_, err = s.FindInDir(s.Root, "missing")
	require.ErrorIs(t, err, errNotFound)

	require.NoError(t, s.ClearDirEntry(s.Root, "a"))
	_, err = s.FindInDir(s.Root, "a")
	require.ErrorIs(t, err, errNotFound)

	inum, err = s.FindInDir(s.Root, "b")
	require.NoError(t, err)
	require.Equal(t, 2, inum)
}

func TestAddDirEntryRejectsDuplicateName(t *testing.T) {
	s := newTestState(t)

	require.NoError(t, s.AddDirEntry(s.Root, "dup", 1))
	err := s.AddDirEntry(s.Root, "dup", 2)
	require.ErrorIs(t, err, errNameExists)
}

func TestAddDirEntryRejectsInvalidNames(t *testing.T) {
	s := newTestState(t)

	require.ErrorIs(t, s.AddDirEntry(s.Root, "", 1), errInvalidName)
	require.ErrorIs(t, s.AddDirEntry(s.Root, "a/b", 1), errInvalidName)
	require.ErrorIs(t, s.AddDirEntry(s.Root, strings.Repeat("x", MaxFileName), 1), errInvalidName)
}

func TestAddDirEntryAcceptsLongestValidName(t *testing.T) {
	s := newTestState(t)
	name := strings.Repeat("x", MaxFileName-1)
	require.NoError(t, s.AddDirEntry(s.Root, name, 1))

	inum, err := s.FindInDir(s.Root, name)
	require.NoError(t, err)
	require.Equal(t, 1, inum)
}

func TestAddDirEntryExhaustsCapacity(t *testing.T) {
	s := newTestState(t)
	capacity := entriesPerBlock(s.BlockSize())

	for i := 0; i < capacity; i++ {
		require.NoError(t, s.AddDirEntry(s.Root, fmt.Sprintf("n%d", i), i+1))
	}

	err := s.AddDirEntry(s.Root, "one-too-many", 999)
	require.ErrorIs(t, err, errNoSpace)
}

func TestClearDirEntryOnMissingNameFails(t *testing.T) {
	s := newTestState(t)
	require.ErrorIs(t, s.ClearDirEntry(s.Root, "nope"), errNotFound)
}
