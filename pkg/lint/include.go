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
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrIncludeNotFound marks an include whose target does not exist
var ErrIncludeNotFound = errors.New("include file not found")

var includeDirective = regexp.MustCompile(`^#Include\s+"?([^"]+?)"?\s*$`)

// Include is one #Include directive
type Include struct {
	Line int
	Ref  string
}

// 📖 ReadText reads a source file as text
func ReadText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("reading %s: %w", path, err)
	}
	return string(b), nil
}

// 🔗 Includes lists the include targets referenced by content, in order.
// Library includes (<Name>) are skipped, they are not files in the tree.
func Includes(content string) []Include {
	var out []Include
	for i, raw := range strings.Split(content, "\n") {
		m := includeDirective.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}
		ref := strings.TrimSpace(m[1])
		if ref == "" || strings.HasPrefix(ref, "<") {
			continue
		}
		out = append(out, Include{Line: i + 1, Ref: ref})
	}
	return out
}

// 🧭 ResolveInclude resolves ref relative to the directory of the including
// file and returns an absolute path. Both "/" and "\" separate segments.
func ResolveInclude(from, ref string) (string, error) {
	ref = filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/"))
	if !filepath.IsAbs(ref) {
		ref = filepath.Join(filepath.Dir(from), ref)
	}
	abs, err := filepath.Abs(ref)
	if err != nil {
		return "", errors.Errorf("resolving include %s: %w", ref, err)
	}
	return abs, nil
}
