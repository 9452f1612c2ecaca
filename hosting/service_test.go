// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package hosting

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssets() fstest.MapFS {
	return fstest.MapFS{
		"index.html": {Data: []byte("<h1>start</h1>")},
	}
}

func TestRouter_ServesAssetsAndHealth(t *testing.T) {
	s := New(Config{Assets: testAssets()}, zerolog.Nop())
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(srv.URL + "/index.html")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "start")
}

func TestRun_ReadyWhileGameRuns(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0", Assets: testAssets()}, zerolog.Nop())
	assert.False(t, s.ServiceAvailable())

	err := s.Run(context.Background(), func() error {
		select {
		case <-s.Ready():
		case <-time.After(5 * time.Second):
			t.Fatal("service never became available")
		}
		assert.True(t, s.ServiceAvailable())

		resp, err := http.Get("http://" + s.Addr() + "/healthz")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		return nil
	})
	require.NoError(t, err)

	select {
	case <-s.Done():
	default:
		t.Fatal("service not shut down after game returned")
	}
}

func TestRun_NoServerIsImmediatelyAvailable(t *testing.T) {
	s := New(Config{}, zerolog.Nop())
	var available bool
	err := s.Run(context.Background(), func() error {
		available = s.ServiceAvailable()
		return nil
	})
	require.NoError(t, err)
	assert.True(t, available)
}

func TestRequestShutdown_EndsGameLoop(t *testing.T) {
	s := New(Config{}, zerolog.Nop())
	err := s.Run(context.Background(), func() error {
		s.RequestShutdown()
		select {
		case <-s.Done():
			return nil
		case <-time.After(5 * time.Second):
			t.Fatal("Done not closed")
			return nil
		}
	})
	require.NoError(t, err)
}

func TestRun_ParentContextCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(Config{}, zerolog.Nop())
	err := s.Run(ctx, func() error {
		cancel()
		<-s.Done()
		return nil
	})
	require.NoError(t, err)
}

func TestRun_ListenError(t *testing.T) {
	s := New(Config{Addr: "256.0.0.1:99999"}, zerolog.Nop())
	called := false
	err := s.Run(context.Background(), func() error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}
