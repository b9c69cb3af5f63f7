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
	"testing"

	. "github.com/jacobsa/oglematchers"
	. "github.com/jacobsa/ogletest"

	"github.com/jacobsa/tfs"
)

func TestLink(t *testing.T) { RunTests(t) }

type LinkTest struct {
	fs *tfs.FileSystem
}

func init() { RegisterTestSuite(&LinkTest{}) }

func (t *LinkTest) SetUp(ti *TestInfo) {
	var err error
	t.fs, err = tfs.Init(tfs.DefaultParams())
	AssertEq(nil, err)
}

func (t *LinkTest) TearDown() {
	AssertEq(nil, t.fs.Destroy())
}

func (t *LinkTest) LinkToMissingTargetFails() {
	err := t.fs.Link("/missing", "/l1")
	AssertNe(nil, err)
	ExpectTrue(tfs.KindIs(err, tfs.NotFound))
}

func (t *LinkTest) SymlinkToMissingTargetFails() {
	err := t.fs.Symlink("/missing", "/s1")
	AssertNe(nil, err)
	ExpectTrue(tfs.KindIs(err, tfs.NotFound))
}

func (t *LinkTest) HardLinkToSymlinkNotSupported() {
	h, err := t.fs.Open("/real", tfs.CREAT)
	AssertEq(nil, err)
	AssertEq(nil, t.fs.Close(h))

	AssertEq(nil, t.fs.Symlink("/real", "/sym"))

	err = t.fs.Link("/sym", "/alias")
	AssertNe(nil, err)
	ExpectTrue(tfs.KindIs(err, tfs.NotSupported))
}

// Scenario 5: symlink transparency.
func (t *LinkTest) SymlinkTransparency() {
	h, err := t.fs.Open("/t", tfs.CREAT)
	AssertEq(nil, err)
	_, err = t.fs.Write(h, []byte("hi"))
	AssertEq(nil, err)
	AssertEq(nil, t.fs.Close(h))

	AssertEq(nil, t.fs.Symlink("/t", "/s"))

	h2, err := t.fs.Open("/s", 0)
	AssertEq(nil, err)

	buf := make([]byte, 8)
	n, err := t.fs.Read(h2, buf)
	AssertEq(nil, err)
	ExpectEq("hi", string(buf[:n]))
	AssertEq(nil, t.fs.Close(h2))
}

func (t *LinkTest) UnlinkingHardLinkLeavesOriginalAndCountConsistent() {
	h, err := t.fs.Open("/orig", tfs.CREAT)
	AssertEq(nil, err)
	AssertEq(nil, t.fs.Close(h))

	AssertEq(nil, t.fs.Link("/orig", "/l1"))
	AssertEq(nil, t.fs.Link("/orig", "/l2"))

	AssertEq(nil, t.fs.Unlink("/l1"))
	AssertEq(nil, t.fs.Unlink("/orig"))

	// /l2 still resolves: the inode isn't deleted until the last name
	// referencing it is unlinked.
	h2, err := t.fs.Open("/l2", 0)
	AssertEq(nil, err)
	AssertEq(nil, t.fs.Close(h2))

	AssertEq(nil, t.fs.Unlink("/l2"))

	_, err = t.fs.Open("/l2", 0)
	AssertNe(nil, err)
	ExpectTrue(tfs.KindIs(err, tfs.NotFound))
}
