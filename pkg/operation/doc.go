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

/*
Package operation drives a conversion run over a source tree.

🎯 Purpose:
- Walks the tree and screens every candidate file
- Snapshots each eligible file before touching it
- Rewrites text with the rule engine and the repair pass
- Commits changed text and records everything on a report.Run

🔄 Flow (per file):
 1. Wrong extension: warning, Excluded
 2. Excluded name or directory: info, Excluded
 3. Missing: ReadFailed
 4. Backup: BackupFailed on error, the original is never read
 5. Read and UTF-8 check: ReadFailed on error
 6. Engine, then repair pass
 7. Unchanged text: Unchanged, nothing written
 8. Atomic write: WriteFailed on error, otherwise Converted

⚡ Failure isolation:
A per-file failure becomes exactly one error entry on the run and an Outcome.
It never stops the traversal. Only a walker failure aborts Execute, and the
run log is flushed before that error is returned. OperationRunner recovers
panics and flushes the same way.

🔀 Concurrency:
With Options.Concurrency above one, files are converted on an errgroup into
per-file report fragments which are merged in walk order afterwards. The
resulting run is the same as a sequential one.

🔍 Example:

	conv, err := operation.NewConverter(operation.Options{Root: ".", PersistLog: true})
	if err != nil {
		return err
	}
	if err := operation.NewRunner(logger, false).Run(ctx, conv); err != nil {
		return err
	}
	fmt.Print(conv.Run().Summary())
*/
package operation
