// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextOwner_FirstWriterWins(t *testing.T) {
	logs := &bytes.Buffer{}
	engine := newFakeEngine()
	owner := NewContextOwner(engine, testLogger(logs))

	first := testEngineConfig(t)
	second := testEngineConfig(t)
	second.UseGPURenderer = true

	a, err := owner.GetOrCreate(first)
	require.NoError(t, err)
	b, err := owner.GetOrCreate(second)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, first, b.Config())
	assert.Len(t, engine.configures, 1)
	assert.Equal(t, 1, engine.loggerSets)
	assert.Contains(t, logs.String(), "ignoring new configuration")
}

func TestContextOwner_ConcurrentGetOrCreate(t *testing.T) {
	engine := newFakeEngine()
	owner := NewContextOwner(engine, zerolog.Nop())
	cfg := testEngineConfig(t)

	var wg sync.WaitGroup
	got := make([]*RenderContext, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rc, err := owner.GetOrCreate(cfg)
			assert.NoError(t, err)
			got[i] = rc
		}(i)
	}
	wg.Wait()

	for _, rc := range got {
		assert.Same(t, got[0], rc)
	}
	assert.Len(t, engine.configures, 1)
}

func TestContextOwner_ConfigurationErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name  string
		edit  func(*EngineConfig)
		field string
	}{
		{"empty cache", func(c *EngineConfig) { c.CachePath = "" }, "cache path"},
		{"cache is a file", func(c *EngineConfig) { c.CachePath = file }, "cache path"},
		{"cache under a file", func(c *EngineConfig) { c.CachePath = filepath.Join(file, "Cache") }, "cache path"},
		{"missing resources", func(c *EngineConfig) { c.ResourcePath = filepath.Join(dir, "nope") }, "resource path"},
		{"resources is a file", func(c *EngineConfig) { c.ResourcePath = file }, "resource path"},
		{"empty resources", func(c *EngineConfig) { c.ResourcePath = "" }, "resource path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newFakeEngine()
			owner := NewContextOwner(engine, zerolog.Nop())
			cfg := testEngineConfig(t)
			tt.edit(&cfg)

			rc, err := owner.GetOrCreate(cfg)
			assert.Nil(t, rc)
			var ce *ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
			assert.Empty(t, engine.configures)

			// A failed attempt leaves the owner usable.
			_, err = owner.GetOrCreate(testEngineConfig(t))
			assert.NoError(t, err)
		})
	}
}

func TestContextOwner_ConfigureFailure(t *testing.T) {
	engine := newFakeEngine()
	engine.err = errBoom
	owner := NewContextOwner(engine, zerolog.Nop())

	_, err := owner.GetOrCreate(testEngineConfig(t))
	assert.ErrorIs(t, err, errBoom)
}

func TestContextOwner_ForwardsEngineLog(t *testing.T) {
	logs := &bytes.Buffer{}
	engine := newFakeEngine()
	owner := NewContextOwner(engine, testLogger(logs))
	_, err := owner.GetOrCreate(testEngineConfig(t))
	require.NoError(t, err)

	engine.logFn(LogWarning, "slow frame")
	engine.logFn(LogError, "gpu lost")
	engine.logFn(LogInfo, "ready")

	out := logs.String()
	assert.Contains(t, out, `{"level":"warn","component":"render-context","message":"slow frame"}`)
	assert.Contains(t, out, `{"level":"error","component":"render-context","message":"gpu lost"}`)
	assert.Contains(t, out, `{"level":"info","component":"render-context","message":"ready"}`)
}

func TestContextOwner_Close(t *testing.T) {
	engine := newFakeEngine()
	owner := NewContextOwner(engine, zerolog.Nop())
	rc, err := owner.GetOrCreate(testEngineConfig(t))
	require.NoError(t, err)

	rc.acquire()
	rc.release()
	rc.release()
	assert.Zero(t, rc.Refs())
	assert.False(t, engine.renderer.disposed, "releasing the last borrower keeps the context")

	require.NoError(t, owner.Close())
	require.NoError(t, owner.Close())
	assert.True(t, engine.renderer.disposed)

	_, err = owner.GetOrCreate(testEngineConfig(t))
	assert.ErrorIs(t, err, ErrOwnerClosed)
}
