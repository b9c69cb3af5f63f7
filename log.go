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

import (
	"flag"
	"io"
	"log"
	"os"
	"sync"
)

var fEnableDebug = flag.Bool(
	"tfs.debug",
	false,
	"Write TFS debugging messages to stderr.")

// getLogger lazily builds the package logger on first use rather than at
// package-init time, so tests that never flag.Parse() in a particular
// binary don't panic just for importing this package.
var getLogger = sync.OnceValue(func() *log.Logger {
	if !flag.Parsed() {
		panic("tfs: getLogger called before flags available")
	}

	var w io.Writer = io.Discard
	if *fEnableDebug {
		w = os.Stderr
	}

	const flags = log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile
	return log.New(w, "tfs: ", flags)
})
