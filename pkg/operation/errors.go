// Copyright 2025 walteh LLC
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

package operation

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// ⚠️ FailureKind classifies a failure of the pipeline
type FailureKind int

const (
	ReadFailure FailureKind = iota
	BackupFailure
	WriteFailure
	LogPersistFailure
)

var (
	ErrRead        = errors.New("read failure")
	ErrBackup      = errors.New("backup failure")
	ErrWrite       = errors.New("write failure")
	ErrLogPersist  = errors.New("log persist failure")
	ErrNotUTF8     = errors.New("file is not valid UTF-8")
	ErrFileMissing = errors.New("file not found")
)

// Sentinel returns the errors.Is target for the kind
func (k FailureKind) Sentinel() error {
	switch k {
	case ReadFailure:
		return ErrRead
	case BackupFailure:
		return ErrBackup
	case WriteFailure:
		return ErrWrite
	case LogPersistFailure:
		return ErrLogPersist
	default:
		return nil
	}
}

func (k FailureKind) String() string {
	if s := k.Sentinel(); s != nil {
		return s.Error()
	}
	return "unknown failure"
}

// FileError is a failure isolated to a single file (or to the run log)
type FileError struct {
	Kind FailureKind
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s for %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the failure kind
func (e *FileError) Is(target error) bool {
	return target != nil && target == e.Kind.Sentinel()
}
