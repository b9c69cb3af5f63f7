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

import "github.com/google/uuid"

// ID returns the instance identifier assigned to fs at Init, stable for
// the lifetime of the FileSystem and used only to correlate log lines
// across multiple concurrently-running instances.
func (fs *FileSystem) ID() uuid.UUID {
	return fs.id
}
