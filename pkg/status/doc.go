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
Package status owns every disk mutation of a conversion run.

🎯 Purpose:
- Snapshots a source file before anything touches it
- Reads source text and commits converted text atomically
- Tracks the per-file Outcome of a run

🔄 Flow:
1. BackupFile copies the original into the backup directory
2. ReadFile loads the original text
3. WriteFileAtomic replaces the original through a temp file and rename
4. TrackFile records the Outcome and reports progress

📦 Backups:
Backups are named <base>_<YYYYMMDD_HHMMSS>.bak. The backup directory is
created on demand. When two files with the same base name are backed up
within one second, later snapshots get a numeric suffix
(<base>_<stamp>_1.bak) so nothing is overwritten.

🤝 Interfaces:
- FileManager: backup, read and write primitives (mocked in pipeline tests)
- StatusReporter: outcome tracking and progress
- FileFormatter: formats status messages
*/
package status
