package main

import (
	"context"
	"image/png"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	lsnet "LocalSketch/internal/net"
	"LocalSketch/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowWritesSnapshot(t *testing.T) {
	board := state.NewBoard(state.DefaultOptions())
	board.BeginStroke(0, 0, 1)
	board.ExtendStroke(50, 20, 1)
	board.ExtendStroke(100, 0, 1)
	require.NotNil(t, board.EndStroke())

	m := lsnet.NewMirror(board.Document)
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	defer m.Close()

	out := filepath.Join(t.TempDir(), "snap.png")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, follow(ctx, strings.TrimPrefix(srv.URL, "http://"), out, 256, true))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Width)
}

func TestFollowEmptyBoard(t *testing.T) {
	m := lsnet.NewMirror(state.NewBoard(state.DefaultOptions()).Document)
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	defer m.Close()

	out := filepath.Join(t.TempDir(), "snap.png")
	require.NoError(t, follow(context.Background(), strings.TrimPrefix(srv.URL, "http://"), out, 256, true))
	assert.NoFileExists(t, out)
}

func TestResolveLink(t *testing.T) {
	addr, err := resolve(context.Background(), "localsketch://10.0.0.2:8888", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2:8888", addr)

	_, err = resolve(context.Background(), "http://10.0.0.2", time.Second)
	assert.Error(t, err)
}
