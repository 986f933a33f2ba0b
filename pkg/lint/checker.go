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

package lint

import (
	"context"
	"os"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultCacheSize is the number of files whose findings are remembered
const DefaultCacheSize = 1024

// FileReport is the result of checking one file
type FileReport struct {
	Findings []Finding
	// Includes are the resolved targets that exist, in directive order
	Includes []string
}

type cacheEntry struct {
	size     int64
	modTime  time.Time
	findings []Finding
	includes []Include
}

// ⚙️ Checker checks single files. The line findings of a file are remembered
// until its size or modification time changes; include targets are resolved
// on every check since they live in other files.
type Checker struct {
	cache *lru.Cache[string, cacheEntry]
}

// 🏭 NewChecker creates a checker remembering up to size files
func NewChecker(size int) (*Checker, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, errors.Errorf("creating findings cache: %w", err)
	}
	return &Checker{cache: cache}, nil
}

// 🔍 Check reads path, runs every line check and verifies its includes.
// display is the name findings are reported under.
func (c *Checker) Check(ctx context.Context, path, display string) (FileReport, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileReport{}, errors.Errorf("checking %s: %w", display, err)
	}

	entry, ok := c.cache.Get(path)
	if ok && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		zerolog.Ctx(ctx).Debug().Str("path", display).Msg("findings cache hit")
	} else {
		content, err := ReadText(path)
		if err != nil {
			return FileReport{}, err
		}
		entry = cacheEntry{
			size:     info.Size(),
			modTime:  info.ModTime(),
			findings: CheckText(display, content),
			includes: Includes(content),
		}
		c.cache.Add(path, entry)
	}

	report := FileReport{Findings: slices.Clone(entry.findings)}

	for _, inc := range entry.includes {
		target, err := ResolveInclude(path, inc.Ref)
		if err == nil {
			_, err = os.Stat(target)
		}
		if err != nil {
			report.Findings = append(report.Findings, Finding{
				Path:     display,
				Line:     inc.Line,
				Severity: SeverityError,
				Message:  "include file not found: " + inc.Ref,
				Err:      errors.Errorf("%w: %s", ErrIncludeNotFound, inc.Ref),
			})
			continue
		}
		report.Includes = append(report.Includes, target)
	}

	return report, nil
}

// Forget drops path from the cache
func (c *Checker) Forget(path string) {
	c.cache.Remove(path)
}

// Len returns the number of cached files
func (c *Checker) Len() int {
	return c.cache.Len()
}
