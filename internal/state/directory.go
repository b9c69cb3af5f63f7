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
	"bytes"
	"encoding/binary"
	"strings"
)

// dirEntrySize is the on-block size of one (name, inumber) pair: a
// fixed MaxFileName-byte name field, NUL-padded, followed by a 4-byte
// little-endian inumber. invalidInumber marks an unused slot.
const dirEntrySize = MaxFileName + 4

func entriesPerBlock(blockSize int) int {
	return blockSize / dirEntrySize
}

func putEntry(block []byte, slot int, name string, inum int) {
	off := slot * dirEntrySize
	nameField := block[off : off+MaxFileName]
	for i := range nameField {
		nameField[i] = 0
	}
	copy(nameField, name)
	binary.LittleEndian.PutUint32(block[off+MaxFileName:off+dirEntrySize], uint32(int32(inum)))
}

func getEntry(block []byte, slot int) (name string, inum int) {
	off := slot * dirEntrySize
	nameField := block[off : off+MaxFileName]
	if i := bytes.IndexByte(nameField, 0); i >= 0 {
		nameField = nameField[:i]
	}
	raw := int32(binary.LittleEndian.Uint32(block[off+MaxFileName : off+dirEntrySize]))
	return string(nameField), int(raw)
}

// AddDirEntry inserts (name, inum) into dir's data block at the first
// free slot, allocating the block lazily on the first insertion. It
// rejects names containing '/' or longer than MaxFileName-1, and
// rejects an already-present name.
//
// Callers must hold the filesystem global mutex (spec.md §5).
func (s *State) AddDirEntry(dir *Inode, name string, inum int) error {
	if !validDirName(name) {
		return errInvalidName
	}

	capacity := entriesPerBlock(s.blocks.BlockSize())

	if dir.DataBlock == invalidInumber {
		idx, err := s.blocks.Alloc()
		if err != nil {
			return err
		}
		dir.DataBlock = idx
		// A freshly allocated block is zeroed, which would read back as
		// slots bound to inumber 0; mark every slot empty instead.
		fresh := s.blocks.Get(idx)
		for slot := 0; slot < capacity; slot++ {
			putEntry(fresh, slot, "", invalidInumber)
		}
	}
	block := s.blocks.Get(dir.DataBlock)

	freeSlot := -1
	for slot := 0; slot < capacity; slot++ {
		n, i := getEntry(block, slot)
		if i == invalidInumber {
			if freeSlot == -1 {
				freeSlot = slot
			}
			continue
		}
		if n == name {
			return errNameExists
		}
	}

	if freeSlot == -1 {
		return errNoSpace
	}

	putEntry(block, freeSlot, name, inum)
	return nil
}

// FindInDir returns the inumber bound to name in dir, or errNotFound.
//
// Callers must hold the filesystem global mutex (spec.md §5), except
// where the spec explicitly calls for an additional lock (Read's
// over-synchronization, see filesystem.go).
func (s *State) FindInDir(dir *Inode, name string) (int, error) {
	if dir.DataBlock == invalidInumber {
		return 0, errNotFound
	}

	block := s.blocks.Get(dir.DataBlock)
	capacity := entriesPerBlock(s.blocks.BlockSize())

	for slot := 0; slot < capacity; slot++ {
		n, i := getEntry(block, slot)
		if i != invalidInumber && n == name {
			return i, nil
		}
	}
	return 0, errNotFound
}

// ClearDirEntry marks name's slot empty without freeing the directory's
// data block.
//
// Callers must hold the filesystem global mutex (spec.md §5).
func (s *State) ClearDirEntry(dir *Inode, name string) error {
	if dir.DataBlock == invalidInumber {
		return errNotFound
	}

	block := s.blocks.Get(dir.DataBlock)
	capacity := entriesPerBlock(s.blocks.BlockSize())

	for slot := 0; slot < capacity; slot++ {
		n, i := getEntry(block, slot)
		if i != invalidInumber && n == name {
			putEntry(block, slot, "", invalidInumber)
			return nil
		}
	}
	return errNotFound
}

// validDirName rejects the empty name, names containing '/', and names
// of length >= MaxFileName (spec.md §4.2/§4.3).
func validDirName(name string) bool {
	if name == "" || len(name) >= MaxFileName {
		return false
	}
	return !strings.Contains(name, "/")
}
