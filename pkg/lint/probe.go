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
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

// 🧪 Probe checks that a feature's file exists and defines one of its
// symbols. Probes are informational and never fail a lint.
type Probe struct {
	Name string `json:"name" yaml:"name" hcl:"name,label" toml:"name"`
	// File is relative to the lint root
	File string `json:"file" yaml:"file" hcl:"file" toml:"file"`
	// Symbols are alternatives; any one of them present is enough
	Symbols []string `json:"symbols,omitempty" yaml:"symbols,omitempty" hcl:"symbols,optional" toml:"symbols,omitempty"`
	// Optional downgrades a missing file to a note
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty" hcl:"optional,optional" toml:"optional,omitempty"`
}

// ProbeStatus is the result kind of a probe
type ProbeStatus int

const (
	ProbeFound ProbeStatus = iota
	ProbeFileMissing
	ProbeSymbolMissing
	ProbeFailed
)

func (s ProbeStatus) String() string {
	switch s {
	case ProbeFound:
		return "found"
	case ProbeFileMissing:
		return "file_missing"
	case ProbeSymbolMissing:
		return "symbol_missing"
	case ProbeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProbeResult is the outcome of one probe
type ProbeResult struct {
	Probe  Probe
	Status ProbeStatus
	// Symbol is the symbol that was found, if any
	Symbol string
	Err    error
}

// RunProbe evaluates p against root
func RunProbe(root string, p Probe) ProbeResult {
	path := filepath.Join(root, filepath.FromSlash(p.File))

	content, err := ReadText(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ProbeResult{Probe: p, Status: ProbeFileMissing}
	}
	if err != nil {
		return ProbeResult{Probe: p, Status: ProbeFailed, Err: err}
	}

	if len(p.Symbols) == 0 {
		return ProbeResult{Probe: p, Status: ProbeFound}
	}
	for _, s := range p.Symbols {
		if strings.Contains(content, s) {
			return ProbeResult{Probe: p, Status: ProbeFound, Symbol: s}
		}
	}
	return ProbeResult{Probe: p, Status: ProbeSymbolMissing}
}

// 🧪 RunProbes evaluates every probe against the linter's root and prints
// one block per probe
func (l *Linter) RunProbes(probes []Probe) []ProbeResult {
	if len(probes) == 0 {
		return nil
	}

	pterm.Fprintln(l.out)
	pterm.Fprintln(l.out, "=== Feature Probes ===")

	results := make([]ProbeResult, 0, len(probes))
	for _, p := range probes {
		r := RunProbe(l.root, p)
		results = append(results, r)

		file := filepath.Base(p.File)
		pterm.Fprintln(l.out)
		pterm.Fprintln(l.out, "🔧 "+p.Name+":")

		switch r.Status {
		case ProbeFound:
			l.printer(pterm.Success, "✅").Println("  " + file + " found")
			if r.Symbol != "" {
				l.printer(pterm.Success, "✅").Println("  " + r.Symbol + " found")
			}
		case ProbeSymbolMissing:
			l.printer(pterm.Success, "✅").Println("  " + file + " found")
			l.printer(pterm.Warning, "⚠️").Println("  " + strings.Join(p.Symbols, " / ") + " not found")
		case ProbeFileMissing:
			if p.Optional {
				l.printer(pterm.Warning, "⚠️").Println("  " + file + " not found (optional)")
			} else {
				l.printer(pterm.Error, "❌").Println("  " + file + " not found")
			}
		case ProbeFailed:
			l.printer(pterm.Error, "❌").Println("  error checking " + file + ": " + r.Err.Error())
		}
	}
	return results
}
