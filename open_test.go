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

package tfs_test

import (
	"strings"
	"testing"

	. "github.com/jacobsa/oglematchers"
	. "github.com/jacobsa/ogletest"

	"github.com/jacobsa/tfs"
)

func TestOpen(t *testing.T) { RunTests(t) }

type OpenTest struct {
	fs *tfs.FileSystem
}

func init() { RegisterTestSuite(&OpenTest{}) }

func (t *OpenTest) SetUp(ti *TestInfo) {
	var err error
	t.fs, err = tfs.Init(tfs.NewParams(tfs.WithInodes(3), tfs.WithBlocks(3)))
	AssertEq(nil, err)
}

func (t *OpenTest) TearDown() {
	AssertEq(nil, t.fs.Destroy())
}

// Scenario 1: existence rejection.
func (t *OpenTest) ExistenceRejection() {
	h, err := t.fs.Open("/f1", tfs.CREAT)
	AssertEq(nil, err)
	ExpectTrue(h >= 0)
	AssertEq(nil, t.fs.Close(h))

	_, err = t.fs.Open("/f1", tfs.STRICT_CREATE)
	AssertNe(nil, err)
}

// Scenario 2: invalid name (40 characters, MAX_FILE_NAME == 40).
func (t *OpenTest) InvalidName() {
	name := "/" + strings.Repeat("f", 39)
	AssertEq(40, len(name))

	_, err := t.fs.Open(name, tfs.CREAT)
	AssertNe(nil, err)
	ExpectTrue(tfs.KindIs(err, tfs.Invalid))
}

// Scenario 6: busy unlink.
func (t *OpenTest) BusyUnlink() {
	h, err := t.fs.Open("/t", tfs.CREAT)
	AssertEq(nil, err)

	err = t.fs.Unlink("/t")
	AssertNe(nil, err)
	ExpectTrue(tfs.KindIs(err, tfs.Busy))

	AssertEq(nil, t.fs.Close(h))

	AssertEq(nil, t.fs.Unlink("/t"))
}

func (t *OpenTest) NotFoundWithoutCreate() {
	_, err := t.fs.Open("/nope", 0)
	AssertNe(nil, err)
	ExpectTrue(tfs.KindIs(err, tfs.NotFound))
}

func (t *OpenTest) AppendStartsAtCurrentSize() {
	h, err := t.fs.Open("/a", tfs.CREAT)
	AssertEq(nil, err)
	_, err = t.fs.Write(h, []byte("1234"))
	AssertEq(nil, err)
	AssertEq(nil, t.fs.Close(h))

	h2, err := t.fs.Open("/a", tfs.APPEND)
	AssertEq(nil, err)
	n, err := t.fs.Write(h2, []byte("56"))
	AssertEq(nil, err)
	ExpectEq(2, n)
	AssertEq(nil, t.fs.Close(h2))

	h3, err := t.fs.Open("/a", 0)
	AssertEq(nil, err)
	buf := make([]byte, 16)
	n, err = t.fs.Read(h3, buf)
	AssertEq(nil, err)
	ExpectEq("123456", string(buf[:n]))
	AssertEq(nil, t.fs.Close(h3))
}

func (t *OpenTest) TruncIgnoredOnFreshlyCreatedFile() {
	h, err := t.fs.Open("/b", tfs.CREAT|tfs.TRUNC)
	AssertEq(nil, err)
	n, err := t.fs.Write(h, []byte("xyz"))
	AssertEq(nil, err)
	ExpectEq(3, n)
	AssertEq(nil, t.fs.Close(h))
}

func (t *OpenTest) TruncClearsExistingContent() {
	h, err := t.fs.Open("/c", tfs.CREAT)
	AssertEq(nil, err)
	_, err = t.fs.Write(h, []byte("existing"))
	AssertEq(nil, err)
	AssertEq(nil, t.fs.Close(h))

	h2, err := t.fs.Open("/c", tfs.TRUNC)
	AssertEq(nil, err)
	buf := make([]byte, 16)
	n, err := t.fs.Read(h2, buf)
	AssertEq(nil, err)
	ExpectEq(0, n)
	AssertEq(nil, t.fs.Close(h2))
}

// Open-file-table exhaustion on a fresh create unwinds the inode and
// directory entry rather than leaving an orphan (spec §9 EXPANSION).
func (t *OpenTest) OpenFileTableExhaustionUnwindsOrphan() {
	params := tfs.NewParams(tfs.WithOpenFiles(1))
	fs, err := tfs.Init(params)
	AssertEq(nil, err)
	defer fs.Destroy()

	h, err := fs.Open("/first", tfs.CREAT)
	AssertEq(nil, err)

	_, err = fs.Open("/second", tfs.CREAT)
	AssertNe(nil, err)
	ExpectTrue(tfs.KindIs(err, tfs.NoSpace))

	// /second must not have been left behind: with the table still full,
	// STRICT_CREATE fails with NoSpace, whereas an orphaned entry would
	// make it fail with Exists.
	_, err = fs.Open("/second", tfs.STRICT_CREATE)
	AssertNe(nil, err)
	ExpectTrue(tfs.KindIs(err, tfs.NoSpace))

	AssertEq(nil, fs.Close(h))
}

// Symlink requires its target to already resolve, so a cycle can only be
// built by first creating a real file, pointing a symlink at it, removing
// the file, then re-pointing a new symlink back at the first.
func (t *OpenTest) SymlinkCycleIsRejected() {
	h, err := t.fs.Open("/loop-b", tfs.CREAT)
	AssertEq(nil, err)
	AssertEq(nil, t.fs.Close(h))

	AssertEq(nil, t.fs.Symlink("/loop-b", "/loop-a"))
	AssertEq(nil, t.fs.Unlink("/loop-b"))
	AssertEq(nil, t.fs.Symlink("/loop-a", "/loop-b"))

	_, err = t.fs.Open("/loop-a", 0)
	AssertNe(nil, err)
	ExpectTrue(tfs.KindIs(err, tfs.Invalid))
}
