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

// Package state holds the bounded inode, data-block, and open-file
// tables together with the single root directory built on top of them.
// It is the core in the sense of the specification: the rest of the tfs
// package is orchestration and locking discipline laid over these
// tables.
package state

// MaxFileName is the length upper bound enforced by path validation: a
// path of this length is always Invalid, so a name reached through a
// path is at most MaxFileName-2 bytes. The directory layer itself
// accepts names of up to MaxFileName-1 bytes.
const MaxFileName = 40

// RootDirInum is the inumber returned by the first InodeCreate call
// after a State is constructed.
const RootDirInum = 0

// invalidInumber marks an empty directory slot and an unallocated data
// block reference.
const invalidInumber = -1

// InvalidBlock is invalidInumber exported under the name callers outside
// this package use it by: the sentinel value of an Inode's DataBlock
// field when it owns no data block.
const InvalidBlock = invalidInumber

// Params fixes the table sizes and block size for a State. It is
// immutable once passed to New.
type Params struct {
	MaxInodeCount     int
	MaxBlockCount     int
	MaxOpenFilesCount int
	BlockSize         int
}

// DefaultParams returns the parameters used by the reference
// implementation: 64 inodes, 1024 blocks, 16 open files, 1024-byte
// blocks.
func DefaultParams() Params {
	return Params{
		MaxInodeCount:     64,
		MaxBlockCount:     1024,
		MaxOpenFilesCount: 16,
		BlockSize:         1024,
	}
}
