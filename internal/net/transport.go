package net

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"LocalSketch/internal/export"
	"LocalSketch/internal/state"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 16
)

var ErrUnknownSession = errors.New("unknown session")

// ClientMessage is sent by the page for every pointer and toolbar event.
// Positions are viewport (client) coordinates; OriginX/OriginY is the
// canvas's top-left corner in the same space at the time of the event.
type ClientMessage struct {
	Type    string  `json:"type"`
	X       float32 `json:"x,omitempty"`
	Y       float32 `json:"y,omitempty"`
	OriginX float32 `json:"originX,omitempty"`
	OriginY float32 `json:"originY,omitempty"`
	Width   float32 `json:"width,omitempty"`
	Height  float32 `json:"height,omitempty"`
	Mode    string  `json:"mode,omitempty"`
	Color   string  `json:"color,omitempty"`
	Size    int     `json:"size,omitempty"`
}

// HelloMessage is the first message on every connection.
type HelloMessage struct {
	Type        string `json:"type"`
	Session     string `json:"session"`
	Mode        string `json:"mode"`
	Color       string `json:"color"`
	StrokeWidth int    `json:"strokeWidth"`
	EraserWidth int    `json:"eraserWidth"`
}

// CursorMessage positions the eraser preview on the page.
type CursorMessage struct {
	Type    string  `json:"type"`
	Visible bool    `json:"visible"`
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Size    float32 `json:"size"`
}

// Peer is one browser tab and the board it draws on.
type Peer struct {
	ID    string
	Conn  *websocket.Conn
	Board *state.Board

	send  chan any
	dirty atomic.Bool
}

func newPeer(conn *websocket.Conn, board *state.Board) *Peer {
	p := &Peer{
		ID:    uuid.NewString(),
		Conn:  conn,
		Board: board,
		send:  make(chan any, sendBuffer),
	}
	board.OnChange = func() { p.dirty.Store(true) }
	return p
}

// PeerManager tracks the boards of all connected tabs.
type PeerManager struct {
	peers map[string]*Peer
	mu    sync.RWMutex
}

func NewPeerManager() *PeerManager {
	return &PeerManager{
		peers: make(map[string]*Peer),
	}
}

func (pm *PeerManager) Add(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.peers[peer.ID] = peer
	log.Printf("[WS] Session %s opened (%d active)", peer.ID, len(pm.peers))
}

func (pm *PeerManager) Remove(id string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.peers, id)
	log.Printf("[WS] Session %s closed (%d active)", id, len(pm.peers))
}

func (pm *PeerManager) Get(id string) (*Peer, error) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	p, ok := pm.peers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	return p, nil
}

func (pm *PeerManager) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// Transport upgrades /ws requests and runs one board per connection.
type Transport struct {
	Peers         *PeerManager
	NewBoard      func() *state.Board
	FrameInterval time.Duration

	upgrader websocket.Upgrader
}

func NewTransport(peers *PeerManager, newBoard func() *state.Board, frameInterval time.Duration) *Transport {
	return &Transport{
		Peers:         peers,
		NewBoard:      newBoard,
		FrameInterval: frameInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
		},
	}
}

func (t *Transport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()

	peer := newPeer(conn, t.NewBoard())
	t.Peers.Add(peer)
	defer t.Peers.Remove(peer.ID)

	tools := peer.Board.Tools()
	peer.send <- HelloMessage{
		Type:        "hello",
		Session:     peer.ID,
		Mode:        tools.Mode.String(),
		Color:       state.FormatHexColor(tools.StrokeColor),
		StrokeWidth: tools.StrokeWidth,
		EraserWidth: tools.EraserWidth,
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		peer.writeLoop(done, t.FrameInterval)
	}()
	defer wg.Wait()
	defer close(done)

	peer.readLoop()
}

// readLoop applies client messages to the board until the connection drops.
// It is the only goroutine that mutates the board.
func (p *Peer) readLoop() {
	p.Conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := p.Conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[WS] %s disconnected: %v", p.ID, err)
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] %s sent a malformed message: %v", p.ID, err)
			continue
		}

		cursor, err := p.apply(msg)
		if err != nil {
			log.Printf("[WS] %s: ignoring %q: %v", p.ID, msg.Type, err)
			continue
		}
		if cursor != nil {
			// Cursor updates are superseded by the next move, so drop them
			// rather than block the reader when the writer is behind.
			select {
			case p.send <- *cursor:
			default:
			}
		}
	}
}

// apply performs one client message on the board. Pointer moves return the
// cursor preview to echo back.
func (p *Peer) apply(msg ClientMessage) (*CursorMessage, error) {
	raw := state.Point{X: msg.X, Y: msg.Y}
	origin := state.Point{X: msg.OriginX, Y: msg.OriginY}
	b := p.Board

	switch msg.Type {
	case "resize":
		b.ResizeViewport(msg.Width, msg.Height)
	case "down":
		b.PointerDown(raw, origin)
	case "move":
		pv := b.PointerMove(raw, origin)
		return &CursorMessage{Type: "cursor", Visible: pv.Visible, X: pv.X, Y: pv.Y, Size: pv.Size}, nil
	case "up":
		b.PointerUp()
	case "leave":
		b.PointerLeave()
	case "mode":
		m, err := state.ParseMode(msg.Mode)
		if err != nil {
			return nil, err
		}
		b.SetMode(m)
		if m == state.ModePencil {
			return &CursorMessage{Type: "cursor"}, nil
		}
	case "color":
		c, err := state.ParseHexColor(msg.Color)
		if err != nil {
			return nil, err
		}
		b.SetStrokeColor(c)
	case "strokeWidth":
		b.SetStrokeWidth(msg.Size)
	case "eraserWidth":
		b.SetEraserWidth(msg.Size)
	case "clear":
		b.ClearAll()
	default:
		return nil, errors.New("unknown message type")
	}
	return nil, nil
}

// writeLoop owns all writes to the connection. Frames are sent at most once
// per interval and only when the board changed since the last one. A failed
// write closes the connection, which ends readLoop.
func (p *Peer) writeLoop(done <-chan struct{}, interval time.Duration) {
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var buf bytes.Buffer
	for {
		select {
		case <-done:
			return
		case msg := <-p.send:
			p.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.Conn.WriteJSON(msg); err != nil {
				log.Printf("[WS] %s: write failed: %v", p.ID, err)
				p.Conn.Close()
				return
			}
		case <-ticker.C:
			if !p.dirty.Swap(false) {
				continue
			}
			buf.Reset()
			if err := export.WritePNG(&buf, p.Board.Snapshot()); err != nil {
				// An empty surface has nothing to show yet.
				continue
			}
			p.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.Conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
				log.Printf("[WS] %s: frame write failed: %v", p.ID, err)
				p.Conn.Close()
				return
			}
		}
	}
}
