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

package rules

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Category groups rules for run statistics
type Category int

const (
	LegacyCatch Category = iota
	LegacyForLoop
	LegacyObjectProperty
	LegacyVariableInterpolation
	LegacyConditional
	ModernRangeLoop
)

// Categories lists every category in reporting order.
var Categories = []Category{
	LegacyCatch,
	LegacyForLoop,
	LegacyObjectProperty,
	LegacyVariableInterpolation,
	LegacyConditional,
	ModernRangeLoop,
}

var categoryKeys = map[Category]string{
	LegacyCatch:                 "legacy_catch",
	LegacyForLoop:               "legacy_for_loop",
	LegacyObjectProperty:        "legacy_object_property",
	LegacyVariableInterpolation: "legacy_variable_interpolation",
	LegacyConditional:           "legacy_conditional",
	ModernRangeLoop:             "modern_range_loop",
}

var categoryLabels = map[Category]string{
	LegacyCatch:                 "catch Error corrections",
	LegacyForLoop:               "for loop conversions",
	LegacyObjectProperty:        "Object property fixes",
	LegacyVariableInterpolation: "Variable marker removals",
	LegacyConditional:           "Conditional fixes",
	ModernRangeLoop:             "Range conversions",
}

// String returns the config key of the category
func (c Category) String() string {
	if k, ok := categoryKeys[c]; ok {
		return k
	}
	return "unknown"
}

// Label returns the human readable statistics label
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return "Unknown"
}

// 🔍 ParseCategory resolves a config key such as "legacy_catch"
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for c, k := range categoryKeys {
		if k == key {
			return c, nil
		}
	}
	return 0, errors.Errorf("unknown rule category %q", s)
}
