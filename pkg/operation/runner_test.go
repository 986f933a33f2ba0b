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
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

type funcOperation struct {
	exec    func(ctx context.Context) error
	flushed bool
}

func (f *funcOperation) Execute(ctx context.Context) error { return f.exec(ctx) }

func (f *funcOperation) Flush(ctx context.Context) { f.flushed = true }

func TestOperationRunner(t *testing.T) {
	tests := []struct {
		name        string
		async       bool
		exec        func(ctx context.Context) error
		wantErr     bool
		errContains string
		wantFlushed bool
	}{
		{
			name: "sync_success",
			exec: func(ctx context.Context) error { return nil },
		},
		{
			name:        "sync_error_passes_through",
			exec:        func(ctx context.Context) error { return errors.New("walk failed") },
			wantErr:     true,
			errContains: "walk failed",
		},
		{
			name:        "sync_panic_recovered_and_flushed",
			exec:        func(ctx context.Context) error { panic("boom") },
			wantErr:     true,
			errContains: "operation panicked: boom",
			wantFlushed: true,
		},
		{
			name:  "async_success",
			async: true,
			exec:  func(ctx context.Context) error { return nil },
		},
		{
			name:        "async_panic_recovered",
			async:       true,
			exec:        func(ctx context.Context) error { panic("boom") },
			wantErr:     true,
			errContains: "executing operation: operation panicked: boom",
			wantFlushed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zerolog.New(zerolog.NewTestWriter(t))
			op := &funcOperation{exec: tt.exec}

			err := NewRunner(&logger, tt.async).Run(context.Background(), op)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantFlushed, op.flushed)
		})
	}
}

func TestOperationRunner_AsyncCancelled(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	release := make(chan struct{})
	defer close(release)

	op := &funcOperation{exec: func(ctx context.Context) error {
		<-release
		return nil
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := NewRunner(&logger, true).Run(ctx, op)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
