package net

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"LocalSketch/internal/geom"
	"LocalSketch/internal/state"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBoard(version *atomic.Int64) func() state.Document {
	return func() state.Document {
		n := version.Load()
		d := state.Document{Version: state.DocumentVersion, Session: "test"}
		for i := int64(0); i < n; i++ {
			d.Strokes = append(d.Strokes, state.StrokeRecord{
				ID:     uint64(i + 1),
				Kind:   "basic",
				Points: []geom.Point{{X: float32(i), Y: 0, Pressure: 1}},
				Color:  "#000000",
				Width:  2,
			})
		}
		return d
	}
}

func dialTest(t *testing.T, srv *httptest.Server) *Viewer {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := Dial(ctx, strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	t.Cleanup(func() { v.Close() })
	return v
}

func TestMirrorSendsSnapshotOnConnect(t *testing.T) {
	var n atomic.Int64
	n.Store(2)
	m := NewMirror(fakeBoard(&n))
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	defer m.Close()

	v := dialTest(t, srv)
	d, err := v.Next()
	require.NoError(t, err)
	assert.Equal(t, "test", d.Session)
	assert.Len(t, d.Strokes, 2)
}

func TestMirrorBroadcast(t *testing.T) {
	var n atomic.Int64
	m := NewMirror(fakeBoard(&n))
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	defer m.Close()

	a := dialTest(t, srv)
	b := dialTest(t, srv)
	for _, v := range []*Viewer{a, b} {
		d, err := v.Next()
		require.NoError(t, err)
		assert.Empty(t, d.Strokes)
	}
	require.Eventually(t, func() bool { return m.Viewers() == 2 }, 2*time.Second, 10*time.Millisecond)

	n.Store(3)
	require.NoError(t, m.Broadcast())
	for _, v := range []*Viewer{a, b} {
		d, err := v.Next()
		require.NoError(t, err)
		assert.Len(t, d.Strokes, 3)
	}
}

func TestMirrorNotifyCoalesces(t *testing.T) {
	var n atomic.Int64
	m := NewMirror(fakeBoard(&n))
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	v := dialTest(t, srv)
	_, err := v.Next()
	require.NoError(t, err)

	n.Store(5)
	for i := 0; i < 10; i++ {
		m.Notify()
	}
	d, err := v.Next()
	require.NoError(t, err)
	assert.Len(t, d.Strokes, 5)
}

func TestViewerDisconnectIsForgotten(t *testing.T) {
	var n atomic.Int64
	m := NewMirror(fakeBoard(&n))
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	defer m.Close()

	v := dialTest(t, srv)
	_, err := v.Next()
	require.NoError(t, err)
	require.Eventually(t, func() bool { return m.Viewers() == 1 }, 2*time.Second, 10*time.Millisecond)

	v.Close()
	assert.Eventually(t, func() bool { return m.Viewers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestViewerMessagesAreIgnored(t *testing.T) {
	var n atomic.Int64
	m := NewMirror(fakeBoard(&n))
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	defer m.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + FeedPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"clear"}`)))

	n.Store(1)
	require.NoError(t, m.Broadcast())
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, "snapshot", f.Type)
	assert.Len(t, f.Document.Strokes, 1)
}

func TestMirrorClosed(t *testing.T) {
	var n atomic.Int64
	m := NewMirror(fakeBoard(&n))
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	v := dialTest(t, srv)
	_, err := v.Next()
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Broadcast(), ErrMirrorClosed)

	_, err = v.Next()
	assert.Error(t, err, "viewers are disconnected on close")
}

func TestServeStopsWithContext(t *testing.T) {
	var n atomic.Int64
	m := NewMirror(fakeBoard(&n))
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- m.Serve(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
	assert.ErrorIs(t, m.Broadcast(), ErrMirrorClosed)
}

func TestLinks(t *testing.T) {
	link := ShareLink("192.168.1.20", Port)
	assert.Equal(t, "localsketch://192.168.1.20:8888", link)

	addr, err := ParseLink(link + "/")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20:8888", addr)

	_, err = ParseLink("localboard://1.2.3.4:1")
	assert.Error(t, err)
	_, err = ParseLink("localsketch://nohost")
	assert.Error(t, err)
}

func TestOutgoingIP(t *testing.T) {
	ip, err := GetOutgoingIP()
	require.NoError(t, err)
	assert.NotEmpty(t, ip)
	assert.NotNil(t, firstIPv4().To4())
}
