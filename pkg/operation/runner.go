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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏃 OperationRunner executes operations
type OperationRunner struct {
	logger *zerolog.Logger
	async  bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger, async bool) *OperationRunner {
	return &OperationRunner{
		logger: logger,
		async:  async,
	}
}

// 🏃 Run executes an operation. A panic inside the operation is recovered,
// the operation is flushed if it supports it, and the panic is returned as
// an error.
func (r *OperationRunner) Run(ctx context.Context, op Operation) error {
	if r.async {
		return r.runAsync(ctx, op)
	}
	return r.runSync(ctx, op)
}

// 🔄 runSync runs an operation synchronously
func (r *OperationRunner) runSync(ctx context.Context, op Operation) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if r.logger != nil {
				r.logger.Error().Interface("panic", p).Msg("operation panicked")
			}
			if f, ok := op.(Flusher); ok {
				f.Flush(ctx)
			}
			err = errors.Errorf("operation panicked: %v", p)
		}
	}()

	return op.Execute(ctx)
}

// ⚡ runAsync runs an operation in the background and returns early when
// ctx is cancelled
func (r *OperationRunner) runAsync(ctx context.Context, op Operation) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- r.runSync(ctx, op)
	}()

	select {
	case <-ctx.Done():
		return errors.Errorf("operation cancelled: %w", ctx.Err())
	case err := <-errCh:
		if err != nil {
			return errors.Errorf("executing operation: %w", err)
		}
		return nil
	}
}
