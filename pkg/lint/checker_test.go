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
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel).WithContext(context.Background())
}

func TestChecker_Check(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "lib/util.ahk", "x := 1\n")
	main := writeSource(t, dir, "Main.ahk", "#Include lib/util.ahk\n#Include missing.ahk\nfor i := 1 to 3 {\n}\n")

	c, err := NewChecker(8)
	require.NoError(t, err)

	report, err := c.Check(testContext(t), main, "Main.ahk")
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "lib", "util.ahk")}, report.Includes)
	require.Len(t, report.Findings, 2)

	assert.Equal(t, "legacy for loop syntax found", report.Findings[0].Message)
	assert.Equal(t, 3, report.Findings[0].Line)

	missing := report.Findings[1]
	assert.Equal(t, "include file not found: missing.ahk", missing.Message)
	assert.Equal(t, 2, missing.Line)
	assert.Equal(t, SeverityError, missing.Severity)
	assert.True(t, errors.Is(missing.Err, ErrIncludeNotFound))
}

func TestChecker_CacheInvalidation(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "a.ahk", "for i in Range(3) {\n")

	c, err := NewChecker(0)
	require.NoError(t, err)
	ctx := testContext(t)

	first, err := c.Check(ctx, path, "a.ahk")
	require.NoError(t, err)
	require.Len(t, first.Findings, 1)
	assert.Equal(t, 1, c.Len())

	again, err := c.Check(ctx, path, "a.ahk")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, os.WriteFile(path, []byte("x := 1\n"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	fixed, err := c.Check(ctx, path, "a.ahk")
	require.NoError(t, err)
	assert.Empty(t, fixed.Findings)
}

func TestChecker_IncludeCreatedLater(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "Main.ahk", "#Include b.ahk\n")

	c, err := NewChecker(4)
	require.NoError(t, err)
	ctx := testContext(t)

	before, err := c.Check(ctx, path, "Main.ahk")
	require.NoError(t, err)
	require.Len(t, before.Findings, 1)

	writeSource(t, dir, "b.ahk", "y := 2\n")

	after, err := c.Check(ctx, path, "Main.ahk")
	require.NoError(t, err)
	assert.Empty(t, after.Findings)
	assert.Len(t, after.Includes, 1)
}

func TestChecker_Forget(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "a.ahk", "x := 1\n")

	c, err := NewChecker(4)
	require.NoError(t, err)

	_, err = c.Check(testContext(t), path, "a.ahk")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	c.Forget(path)
	assert.Equal(t, 0, c.Len())
}

func TestChecker_MissingFile(t *testing.T) {
	c, err := NewChecker(4)
	require.NoError(t, err)

	_, err = c.Check(testContext(t), filepath.Join(t.TempDir(), "nope.ahk"), "nope.ahk")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
