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

// Package walk enumerates candidate source files under a root directory.
package walk

import (
	"context"
	"io/fs"
	"iter"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultExtension is the source extension the walker looks for
const DefaultExtension = ".ahk"

// DefaultExcludedFiles are the converter's own helper files
var DefaultExcludedFiles = []string{
	"ConvertV1ToV2.ahk",
	"test_conversion_manually.py",
	"run_test_conversion.ahk",
	"test_conversion_expected.ahk",
	"test_conversion_result.ahk",
	"test_conversion.ahk",
	"test_conversion_original.ahk",
	"CONVERSION_SUMMARY.md",
	"run_project_conversion.ahk",
	"run_project_conversion.py",
}

// DefaultExcludedDirs are never descended into
var DefaultExcludedDirs = []string{"backups", "logs", ".git", "__pycache__"}

// 🚫 Exclusions is the static exclusion policy of a run
type Exclusions struct {
	Files map[string]struct{}
	Dirs  map[string]struct{}
	// Globs are doublestar patterns matched against root-relative slash paths
	Globs []string
}

// NewExclusions builds an Exclusions from plain lists
func NewExclusions(files, dirs, globs []string) Exclusions {
	ex := Exclusions{
		Files: make(map[string]struct{}, len(files)),
		Dirs:  make(map[string]struct{}, len(dirs)),
		Globs: append([]string(nil), globs...),
	}
	for _, f := range files {
		ex.Files[f] = struct{}{}
	}
	for _, d := range dirs {
		ex.Dirs[d] = struct{}{}
	}
	return ex
}

// DefaultExclusions returns the built-in exclusion policy
func DefaultExclusions() Exclusions {
	return NewExclusions(DefaultExcludedFiles, DefaultExcludedDirs, nil)
}

// ExcludesDir reports whether a directory name is pruned during traversal
func (ex Exclusions) ExcludesDir(name string) bool {
	_, ok := ex.Dirs[name]
	return ok
}

// 🔍 IsExcluded reports whether path is excluded: its base name is an
// excluded file, any of its segments is an excluded directory, or it matches
// one of the globs. Both "/" and "\" are treated as separators.
func IsExcluded(path string, ex Exclusions) bool {
	slashed := strings.ReplaceAll(path, `\`, "/")
	segments := strings.Split(slashed, "/")

	if _, ok := ex.Files[segments[len(segments)-1]]; ok {
		return true
	}

	for _, seg := range segments[:len(segments)-1] {
		if ex.ExcludesDir(seg) {
			return true
		}
	}

	for _, g := range ex.Globs {
		if ok, err := doublestar.Match(g, strings.TrimPrefix(slashed, "./")); err == nil && ok {
			return true
		}
	}

	return false
}

// HasExtension reports whether path ends with ext, ignoring case
func HasExtension(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

// 📁 Files lazily yields every file under root that has extension ext.
// Excluded directories are pruned before they are read, so nothing beneath
// them is listed. Paths are root-joined; order is the lexical order of
// filepath.WalkDir. Files matching the exclusion policy are still yielded so
// callers can report them as excluded.
//
// A traversal error is yielded once and ends the sequence.
func Files(ctx context.Context, root, ext string, ex Exclusions) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		logger := zerolog.Ctx(ctx)

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			if d.IsDir() {
				if path != root && ex.ExcludesDir(d.Name()) {
					logger.Debug().Str("dir", path).Msg("pruning excluded directory")
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() || !HasExtension(path, ext) {
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			yield("", errors.Errorf("walking %s: %w", root, err))
		}
	}
}

// Rel returns path relative to root, or path itself when it is not under root
func Rel(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
