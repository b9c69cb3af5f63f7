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

import "github.com/jacobsa/tfs/internal/state"

// Params fixes the table sizes and block size for a FileSystem. It is
// immutable once passed to Init.
type Params = state.Params

// DefaultParams returns 64 inodes, 1024 blocks, 16 open files, and a
// 1024-byte block size.
func DefaultParams() Params {
	return state.DefaultParams()
}

// ParamsOption mutates a Params value under construction. See WithInodes,
// WithBlocks, WithOpenFiles, and WithBlockSize.
type ParamsOption func(*Params)

// WithInodes overrides the inode table capacity.
func WithInodes(n int) ParamsOption {
	return func(p *Params) { p.MaxInodeCount = n }
}

// WithBlocks overrides the data-block pool capacity.
func WithBlocks(n int) ParamsOption {
	return func(p *Params) { p.MaxBlockCount = n }
}

// WithOpenFiles overrides the open-file table capacity.
func WithOpenFiles(n int) ParamsOption {
	return func(p *Params) { p.MaxOpenFilesCount = n }
}

// WithBlockSize overrides the per-file block size.
func WithBlockSize(n int) ParamsOption {
	return func(p *Params) { p.BlockSize = n }
}

// NewParams builds a Params starting from DefaultParams and applying opts
// in order.
func NewParams(opts ...ParamsOption) Params {
	p := DefaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	return p
}
