// Package net publishes a read-only mirror of a board to other machines on
// the LAN: a websocket feed of board snapshots, advertised over mDNS.
package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"LocalSketch/internal/state"

	"github.com/gorilla/websocket"
)

const (
	CustomURLScheme = "localsketch://"
	Port            = 8888
	FeedPath        = "/ws"

	// MinInterval is the shortest gap between two broadcasts. Changes
	// arriving faster are coalesced into the next snapshot.
	MinInterval = 100 * time.Millisecond

	writeWait = 5 * time.Second
	sendQueue = 4
)

var ErrMirrorClosed = errors.New("mirror closed")

// Frame is one message of the feed.
type Frame struct {
	Type     string         `json:"type"`
	Document state.Document `json:"document"`
}

// Peer is one connected viewer.
type Peer struct {
	Conn *websocket.Conn
	send chan []byte
}

// PeerManager tracks the connected viewers and fans frames out to them.
type PeerManager struct {
	peers  map[string]*Peer
	closed bool
	mu     sync.RWMutex
}

func NewPeerManager() *PeerManager {
	return &PeerManager{peers: make(map[string]*Peer)}
}

// Add registers a peer and starts its writer.
func (pm *PeerManager) Add(peer *Peer) bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.closed {
		return false
	}
	addr := peer.Conn.RemoteAddr().String()
	pm.peers[addr] = peer
	log.Printf("[MIRROR] Viewer connected from %s", addr)
	go pm.writeLoop(addr, peer)
	return true
}

// Remove drops a peer and closes its connection.
func (pm *PeerManager) Remove(addr string) {
	pm.mu.Lock()
	peer, ok := pm.peers[addr]
	if ok {
		delete(pm.peers, addr)
		close(peer.send)
	}
	pm.mu.Unlock()
	if ok {
		log.Printf("[MIRROR] Viewer %s disconnected", addr)
	}
}

// Broadcast queues data for every peer. A peer whose queue is full is
// slow, and is dropped rather than allowed to stall the board.
func (pm *PeerManager) Broadcast(data []byte) error {
	pm.mu.RLock()
	if pm.closed {
		pm.mu.RUnlock()
		return ErrMirrorClosed
	}
	var slow []string
	for addr, peer := range pm.peers {
		select {
		case peer.send <- data:
		default:
			slow = append(slow, addr)
		}
	}
	pm.mu.RUnlock()

	for _, addr := range slow {
		log.Printf("[MIRROR] Dropping slow viewer %s", addr)
		pm.Remove(addr)
	}
	return nil
}

func (pm *PeerManager) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// Close disconnects every peer. Later Adds and Broadcasts fail.
func (pm *PeerManager) Close() {
	pm.mu.Lock()
	pm.closed = true
	addrs := make([]string, 0, len(pm.peers))
	for addr := range pm.peers {
		addrs = append(addrs, addr)
	}
	pm.mu.Unlock()
	for _, addr := range addrs {
		pm.Remove(addr)
	}
}

func (pm *PeerManager) writeLoop(addr string, peer *Peer) {
	defer peer.Conn.Close()
	for data := range peer.send {
		peer.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := peer.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[MIRROR] Error sending to %s: %v", addr, err)
			go pm.Remove(addr)
			// drain so Remove's close does not race a blocked sender
			for range peer.send {
			}
			return
		}
	}
	peer.Conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// Mirror serves snapshots of a board over a websocket feed. Viewers get the
// current snapshot on connect and a new one after every change. Anything a
// viewer sends is ignored.
type Mirror struct {
	snapshot func() state.Document
	peers    *PeerManager
	upgrader websocket.Upgrader
	notify   chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewMirror returns a mirror that reads board state through snapshot.
func NewMirror(snapshot func() state.Document) *Mirror {
	return &Mirror{
		snapshot: snapshot,
		peers:    NewPeerManager(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Handler serves the feed at FeedPath.
func (m *Mirror) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(FeedPath, m.serveFeed)
	return mux
}

func (m *Mirror) serveFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[MIRROR] Upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	data, err := m.frame()
	if err != nil {
		log.Printf("[MIRROR] %v", err)
		conn.Close()
		return
	}

	peer := &Peer{Conn: conn, send: make(chan []byte, sendQueue)}
	peer.send <- data
	if !m.peers.Add(peer) {
		conn.Close()
		return
	}

	// read until the viewer goes away; its messages are discarded
	addr := conn.RemoteAddr().String()
	go func() {
		defer m.peers.Remove(addr)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()
}

func (m *Mirror) frame() ([]byte, error) {
	data, err := json.Marshal(Frame{Type: "snapshot", Document: m.snapshot()})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Broadcast sends the current snapshot to every viewer now.
func (m *Mirror) Broadcast() error {
	select {
	case <-m.done:
		return ErrMirrorClosed
	default:
	}
	data, err := m.frame()
	if err != nil {
		return err
	}
	return m.peers.Broadcast(data)
}

// Notify marks the board as changed. It never blocks; Run coalesces
// notifications and broadcasts at most once per MinInterval.
func (m *Mirror) Notify() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Run broadcasts on Notify until ctx is done or the mirror is closed.
func (m *Mirror) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case <-m.notify:
		}
		if err := m.Broadcast(); err != nil && !errors.Is(err, ErrMirrorClosed) {
			log.Printf("[MIRROR] Broadcast failed: %v", err)
		}
		select {
		case <-time.After(MinInterval):
		case <-ctx.Done():
			return
		case <-m.done:
			return
		}
	}
}

// Serve listens on addr and serves the feed until ctx is done, then shuts
// the server down and closes the mirror.
func (m *Mirror) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	srv := &http.Server{Handler: m.Handler(), ReadHeaderTimeout: 10 * time.Second}
	log.Printf("[MIRROR] Serving on %s%s", ln.Addr(), FeedPath)

	go m.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	err = srv.Serve(ln)
	m.Close()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close disconnects every viewer. It is safe to call more than once.
func (m *Mirror) Close() error {
	m.once.Do(func() {
		close(m.done)
		m.peers.Close()
	})
	return nil
}

// Viewers is the number of connected viewers.
func (m *Mirror) Viewers() int { return m.peers.Len() }

// ShareLink is the link a viewer can be started with.
func ShareLink(host string, port int) string {
	return fmt.Sprintf("%s%s:%d", CustomURLScheme, host, port)
}

// ParseLink strips the scheme and any trailing slash from a share link and
// returns host:port.
func ParseLink(link string) (string, error) {
	if !strings.HasPrefix(link, CustomURLScheme) {
		return "", fmt.Errorf("not a %s link: %q", CustomURLScheme, link)
	}
	addr := strings.TrimSuffix(strings.TrimPrefix(link, CustomURLScheme), "/")
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", fmt.Errorf("invalid address in %q: %w", link, err)
	}
	return addr, nil
}

// Viewer is the receiving end of a mirror feed.
type Viewer struct {
	conn *websocket.Conn
}

// Dial connects to the feed of the mirror at host:port.
func Dial(ctx context.Context, addr string) (*Viewer, error) {
	url := "ws://" + addr + FeedPath
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return &Viewer{conn: conn}, nil
}

// Next blocks until the next snapshot arrives.
func (v *Viewer) Next() (state.Document, error) {
	for {
		var f Frame
		if err := v.conn.ReadJSON(&f); err != nil {
			return state.Document{}, fmt.Errorf("failed to read frame: %w", err)
		}
		if f.Type == "snapshot" {
			return f.Document, nil
		}
	}
}

func (v *Viewer) Close() error {
	return v.conn.Close()
}
