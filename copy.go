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
	"context"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
)

// copyChunkSize is the host-read buffer size used by CopyFromExternal,
// playing the role of the source's stack-allocated BUFSIZ buffer.
const copyChunkSize = 4096

// CopyFromExternal opens hostPath from the host OS read-only, opens
// tfsPath in this filesystem with CREAT|TRUNC, and streams bytes across
// in copyChunkSize chunks. It returns the total byte count written, and
// an error if either open fails or any chunk's TFS write returns fewer
// bytes than were read from the host file (spec §6).
func (fs *FileSystem) CopyFromExternal(hostPath, tfsPath string) (int, error) {
	src, err := os.Open(hostPath)
	if err != nil {
		return 0, wrapErr("copy_from_external", NotFound, hostPath, err)
	}
	defer src.Close()

	handle, err := fs.Open(tfsPath, CREAT|TRUNC)
	if err != nil {
		return 0, err
	}
	defer fs.Close(handle)

	chunks := make(chan []byte, 1)

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		defer close(chunks)
		buf := make([]byte, copyChunkSize)
		for {
			n, rerr := src.Read(buf)
			if n > 0 {
				b := make([]byte, n)
				copy(b, buf[:n])
				select {
				case chunks <- b:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			if rerr == io.EOF {
				return nil
			}
			if rerr != nil {
				return rerr
			}
		}
	})

	total := 0
	g.Go(func() error {
		for b := range chunks {
			n, werr := fs.Write(handle, b)
			if werr != nil {
				return werr
			}
			if n != len(b) {
				return newErr("copy_from_external", NoSpace, tfsPath)
			}
			total += n
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return total, wrapErr("copy_from_external", Invalid, hostPath, err)
	}

	return total, nil
}
