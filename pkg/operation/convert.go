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
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/ahkmigrate/pkg/report"
	"github.com/walteh/ahkmigrate/pkg/status"
	"github.com/walteh/ahkmigrate/pkg/text"
	"github.com/walteh/ahkmigrate/pkg/walk"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Execute converts the whole tree into the converter's run. Per-file
// failures are recorded on the run and never returned; only a traversal
// failure is, after the run log has been flushed.
func (c *Converter) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	run := c.run

	run.Reset()
	run.Infof("Converting directory: %s", c.root)

	if err := c.ConvertTree(ctx, run); err != nil {
		run.Errorf("Project conversion failed: %v", err)
		c.Flush(ctx)
		return errors.Errorf("converting %s: %w", c.root, err)
	}

	elapsed := run.Now().Sub(run.Started)
	run.Infof("=== PROJECT CONVERSION COMPLETED in %.2f seconds ===", elapsed.Seconds())

	c.Flush(ctx)

	logger.Debug().
		Int("processed", run.FilesProcessed).
		Int("converted", run.FilesConverted).
		Int("errors", run.Errors).
		Msg("conversion finished")

	return nil
}

// 💾 Flush persists the run log when enabled. A failure is recorded on the
// run and logged, never returned.
func (c *Converter) Flush(ctx context.Context) {
	if !c.persistLog || c.dryRun {
		return
	}

	path, err := c.run.Persist(c.logDir)
	if err != nil {
		zerolog.Ctx(ctx).Error().
			Err(&FileError{Kind: LogPersistFailure, Path: c.logDir, Err: err}).
			Msg("run log not saved")
		return
	}
	c.logPath = path
}

// 📁 ConvertTree converts every candidate file under the root. With
// concurrency above one, files are converted into per-file fragments and
// merged back in walk order, so the run is identical to a sequential one.
func (c *Converter) ConvertTree(ctx context.Context, run *report.Run) error {
	files := walk.Files(ctx, c.root, c.ext, c.exclusions)

	if c.concurrency <= 1 {
		if c.reporter != nil {
			c.reporter.StartOperation(ctx, 0)
			defer c.reporter.FinishOperation(ctx)
		}
		for path, err := range files {
			if err != nil {
				return err
			}
			c.track(ctx, path, c.ConvertFile(ctx, path, run))
		}
		return nil
	}

	var paths []string
	for path, err := range files {
		if err != nil {
			return err
		}
		paths = append(paths, path)
	}

	if c.reporter != nil {
		c.reporter.StartOperation(ctx, len(paths))
		defer c.reporter.FinishOperation(ctx)
	}

	fragments := make([]*report.Run, len(paths))
	outcomes := make([]status.Outcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, path := range paths {
		fragments[i] = run.Fragment()
		g.Go(func() error {
			outcomes[i] = c.ConvertFile(gctx, path, fragments[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Errorf("converting files: %w", err)
	}

	for i, path := range paths {
		run.Merge(fragments[i])
		c.track(ctx, path, outcomes[i])
	}
	return nil
}

func (c *Converter) track(ctx context.Context, path string, outcome status.Outcome) {
	if c.reporter != nil {
		c.reporter.TrackFile(ctx, c.display(path), outcome)
	}
}

// 📄 ConvertFile runs the pipeline on one file: screen, snapshot, rewrite,
// repair, commit. Every failure is recorded on run as one error entry and
// reflected in the returned outcome.
func (c *Converter) ConvertFile(ctx context.Context, path string, run *report.Run) status.Outcome {
	rel := c.display(path)

	if !walk.HasExtension(path, c.ext) {
		run.Warnf("Skipping non-source file: %s", rel)
		run.FilesExcluded++
		return status.OutcomeExcluded
	}

	if walk.IsExcluded(rel, c.exclusions) {
		run.Infof("Skipping excluded file: %s", rel)
		run.FilesExcluded++
		return status.OutcomeExcluded
	}

	run.FilesProcessed++

	exists, err := c.files.FileExists(ctx, path)
	if err != nil || !exists {
		if err == nil {
			err = ErrFileMissing
		}
		return c.fail(run, &FileError{Kind: ReadFailure, Path: rel, Err: err}, status.OutcomeReadFailed)
	}

	run.Infof("Converting file: %s", rel)

	if !c.dryRun {
		backup, err := c.files.BackupFile(ctx, path)
		if err != nil {
			return c.fail(run, &FileError{Kind: BackupFailure, Path: rel, Err: err}, status.OutcomeBackupFailed)
		}
		run.Infof("Created backup: %s", c.display(backup))
	}

	raw, err := c.files.ReadFile(ctx, path)
	if err != nil {
		return c.fail(run, &FileError{Kind: ReadFailure, Path: rel, Err: err}, status.OutcomeReadFailed)
	}
	if !utf8.Valid(raw) {
		return c.fail(run, &FileError{Kind: ReadFailure, Path: rel, Err: ErrNotUTF8}, status.OutcomeReadFailed)
	}

	original := string(raw)
	converted := c.transform(original, rel, run)

	if converted == original {
		run.Infof("No changes needed: %s", rel)
		run.FilesUnchanged++
		return status.OutcomeUnchanged
	}

	if c.dryRun {
		run.Infof("Would convert: %s", rel)
		c.writeDiff(rel, original, converted)
		run.FilesConverted++
		return status.OutcomeConverted
	}

	if err := c.files.WriteFileAtomic(ctx, path, []byte(converted)); err != nil {
		return c.fail(run, &FileError{Kind: WriteFailure, Path: rel, Err: err}, status.OutcomeWriteFailed)
	}

	run.Infof("Successfully converted: %s", rel)
	run.FilesConverted++
	return status.OutcomeConverted
}

// transform applies the engine and the repair pass. Files whose every line
// ends in CRLF are rewritten as LF and restored afterwards.
func (c *Converter) transform(original, rel string, run *report.Run) string {
	crlf := isCRLF(original)

	work := original
	if crlf {
		work = strings.ReplaceAll(work, "\r\n", "\n")
	}

	result := c.engine.Apply(work)
	for _, a := range result.Applied {
		run.Infof("Applied rule '%s': %d changes in %s", a.Name, a.Count, rel)
	}
	run.AddCategoryCounts(result.CategoryCounts)

	repaired, fixes := text.Repair(result.ModifiedContent)
	for _, f := range fixes {
		run.Infof("%s", f.Message(rel))
	}
	if len(fixes) > 0 {
		run.Infof("Applied %d multi-line pattern fixes in %s", len(fixes), rel)
		run.RepairFixes += len(fixes)
	}

	if crlf {
		repaired = strings.ReplaceAll(repaired, "\n", "\r\n")
	}
	return repaired
}

func (c *Converter) fail(run *report.Run, err *FileError, outcome status.Outcome) status.Outcome {
	run.Errorf("%s", err.Error())
	return outcome
}

func (c *Converter) writeDiff(rel, before, after string) {
	if c.diffs == nil {
		return
	}

	c.diffMu.Lock()
	defer c.diffMu.Unlock()

	fmt.Fprintf(c.diffs, "--- %s\n", rel)
	fmt.Fprint(c.diffs, text.LineDiff(before, after))
}

// isCRLF reports whether text has line breaks and all of them are CRLF
func isCRLF(s string) bool {
	lf := strings.Count(s, "\n")
	return lf > 0 && strings.Count(s, "\r\n") == lf
}
