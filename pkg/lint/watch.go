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
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/walteh/ahkmigrate/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// DefaultDebounce is how long a file must stay quiet before it is reported
const DefaultDebounce = 200 * time.Millisecond

// 👀 Watcher reports batches of changed source files under a root
type Watcher struct {
	root       string
	ext        string
	exclusions walk.Exclusions
	debounce   time.Duration
	fw         *fsnotify.Watcher
}

// 🏭 NewWatcher watches every non-excluded directory under root
func NewWatcher(root, ext string, ex walk.Exclusions, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{root: root, ext: ext, exclusions: ex, debounce: debounce, fw: fw}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.exclusions.ExcludesDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			return errors.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fw.Close()
}

// 🔄 Run blocks until ctx is done, calling onChange with the sorted paths of
// source files written, created or removed since the previous call.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string)) error {
	logger := zerolog.Ctx(ctx)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}

			// excluded parents are never watched, so only the new name matters
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.exclusions.ExcludesDir(info.Name()) {
						if err := w.addTree(event.Name); err != nil {
							logger.Debug().Err(err).Str("dir", event.Name).Msg("watching new directory")
						}
					}
					continue
				}
			}

			if !walk.HasExtension(event.Name, w.ext) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			logger.Debug().Err(err).Msg("watch error")

		case now := <-ticker.C:
			var ready []string
			for file, t := range pending {
				if now.Sub(t) >= w.debounce {
					ready = append(ready, file)
					delete(pending, file)
				}
			}
			if len(ready) > 0 {
				slices.Sort(ready)
				onChange(ctx, ready)
			}
		}
	}
}
