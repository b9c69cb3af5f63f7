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

import "github.com/prometheus/client_golang/prometheus"

// State owns the three allocator tables of spec.md §4.1 plus the root
// directory built on top of them. It knows nothing about handles'
// read/write semantics or the global filesystem mutex; those live one
// layer up, in the tfs package, which is the only thing that imports
// this package.
type State struct {
	Params Params

	inodes    *InodeTable
	blocks    *BlockTable
	openFiles *OpenFileTable
	metrics   *Metrics

	// Root is a cached pointer to the root directory inode, valid for
	// the lifetime of the State.
	Root *Inode
}

// New constructs a State with the given parameters, creating the root
// directory inode. reg may be nil, in which case no metrics are
// published.
func New(p Params, reg prometheus.Registerer) *State {
	var metrics *Metrics
	if reg != nil {
		metrics = NewMetrics(reg)
	}

	s := &State{
		Params:    p,
		inodes:    newInodeTable(p.MaxInodeCount, p.BlockSize, metrics.forTable("inode")),
		blocks:    newBlockTable(p.MaxBlockCount, p.BlockSize, metrics.forTable("block")),
		openFiles: newOpenFileTable(p.MaxOpenFilesCount, p.BlockSize, metrics.forTable("open_file")),
		metrics:   metrics,
	}

	root, err := s.inodes.Create(TypeDirectory)
	if err != nil {
		panic("state: failed to create root directory inode: " + err.Error())
	}
	if root != RootDirInum {
		panic("state: first inode_create call did not return RootDirInum")
	}

	s.Root, err = s.inodes.Get(RootDirInum)
	if err != nil {
		panic("state: root directory inode vanished immediately after creation")
	}

	return s
}

// InodeCreate allocates a fresh inode of the given type.
func (s *State) InodeCreate(typ Type) (int, error) {
	return s.inodes.Create(typ)
}

// InodeGet returns a stable pointer to the inode at inum.
func (s *State) InodeGet(inum int) (*Inode, error) {
	return s.inodes.Get(inum)
}

// InodeDelete frees any data block the inode owns, then releases the
// inode slot itself (spec.md §4.1: "inode_delete... frees any owned
// data block then releases the inode slot").
func (s *State) InodeDelete(inum int) error {
	in, err := s.inodes.Get(inum)
	if err != nil {
		return err
	}

	in.Mu.Lock()
	if in.DataBlock != invalidInumber {
		s.blocks.Free(in.DataBlock)
		in.DataBlock = invalidInumber
		in.Size = 0
	}
	in.Mu.Unlock()

	return s.inodes.Free(inum)
}

// DataBlockAlloc/Free/Get mirror the inode table's contracts for the
// block pool.
func (s *State) DataBlockAlloc() (int, error) { return s.blocks.Alloc() }
func (s *State) DataBlockFree(idx int)        { s.blocks.Free(idx) }
func (s *State) DataBlockGet(idx int) []byte  { return s.blocks.Get(idx) }

// OpenFileAdd, OpenFileGet, OpenFileRemove, and OpenFileContains mirror
// the open-file table's contracts.
func (s *State) OpenFileAdd(inumber, offset int) (int, error) {
	return s.openFiles.Add(inumber, offset)
}
func (s *State) OpenFileGet(handle int) (*OpenFileEntry, error) {
	return s.openFiles.Get(handle)
}
func (s *State) OpenFileRemove(handle int) error {
	return s.openFiles.Remove(handle)
}
func (s *State) OpenFileContains(inumber int) bool {
	return s.openFiles.Contains(inumber)
}

// Metrics returns the gauge pair registered for this State, or nil if it
// was constructed with a nil registerer.
func (s *State) Metrics() *Metrics { return s.metrics }

func (s *State) InodeCapacity() int    { return s.inodes.Capacity() }
func (s *State) BlockCapacity() int    { return s.blocks.Capacity() }
func (s *State) OpenFileCapacity() int { return s.openFiles.Capacity() }
func (s *State) BlockSize() int        { return s.blocks.BlockSize() }
