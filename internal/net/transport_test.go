package net

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/state"
)

// testMaxSide keeps oversized resizes cheap.
const testMaxSide = 64

func newTestServer(t *testing.T) (*httptest.Server, *PeerManager) {
	return newTestServerWith(t, state.DefaultTools())
}

func newTestServerWith(t *testing.T, tools state.ToolState) (*httptest.Server, *PeerManager) {
	t.Helper()
	peers := NewPeerManager()
	transport := NewTransport(peers, func() *state.Board {
		b := state.NewBoard(tools)
		b.SetViewportScale(1)
		b.SetMaxSurfaceSide(testMaxSide)
		return b
	}, 5*time.Millisecond)
	srv := httptest.NewServer(NewHTTPServer("", transport).Handler())
	t.Cleanup(srv.Close)
	return srv, peers
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// next reads until a message satisfying keep arrives.
func next(t *testing.T, conn *websocket.Conn, keep func(kind int, data []byte) bool) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		kind, data, err := conn.ReadMessage()
		require.NoError(t, err)
		if keep(kind, data) {
			return data
		}
	}
}

func textOfType(typ string) func(int, []byte) bool {
	return func(kind int, data []byte) bool {
		if kind != websocket.TextMessage {
			return false
		}
		var head struct{ Type string }
		return json.Unmarshal(data, &head) == nil && head.Type == typ
	}
}

func hello(t *testing.T, conn *websocket.Conn) HelloMessage {
	t.Helper()
	var h HelloMessage
	require.NoError(t, json.Unmarshal(next(t, conn, textOfType("hello")), &h))
	return h
}

func frameWith(t *testing.T, conn *websocket.Conn, want func(image.Image) bool) image.Image {
	t.Helper()
	var img image.Image
	next(t, conn, func(kind int, data []byte) bool {
		if kind != websocket.BinaryMessage {
			return false
		}
		decoded, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		img = decoded
		return want(decoded)
	})
	return img
}

func alphaOf(img image.Image, x, y int) uint32 {
	_, _, _, a := img.At(x, y).RGBA()
	return a
}

func TestTransportHelloAndRegistry(t *testing.T) {
	srv, peers := newTestServer(t)
	conn := dial(t, srv)

	h := hello(t, conn)
	assert.NotEmpty(t, h.Session)
	assert.Equal(t, "pencil", h.Mode)
	assert.Equal(t, "#000000", h.Color)
	assert.Equal(t, 5, h.StrokeWidth)
	assert.Equal(t, 20, h.EraserWidth)

	peer, err := peers.Get(h.Session)
	require.NoError(t, err)
	assert.Equal(t, h.Session, peer.ID)
}

func TestTransportHelloCarriesConfiguredTools(t *testing.T) {
	srv, _ := newTestServerWith(t, state.ToolState{
		Mode:        state.ModeEraser,
		StrokeColor: state.Yellow,
		StrokeWidth: 12,
		EraserWidth: 40,
	})
	h := hello(t, dial(t, srv))
	assert.Equal(t, "eraser", h.Mode)
	assert.Equal(t, "#ffff00", h.Color)
	assert.Equal(t, 12, h.StrokeWidth)
	assert.Equal(t, 40, h.EraserWidth)
}

func TestTransportDrawsAndStreamsFrames(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)
	hello(t, conn)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "resize", Width: 80, Height: 60}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "down", X: 25, Y: 25, OriginX: 5, OriginY: 5}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "up"}))

	img := frameWith(t, conn, func(img image.Image) bool {
		return img.Bounds().Dx() == 80 && alphaOf(img, 20, 20) > 0
	})
	assert.Equal(t, 60, img.Bounds().Dy())
	assert.Zero(t, alphaOf(img, 25, 25), "drawn at the mapped point, not the raw one")
}

func TestTransportCursorPreview(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)
	hello(t, conn)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "mode", Mode: "eraser"}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "eraserWidth", Size: 30}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "move", X: 100, Y: 50}))

	var c CursorMessage
	require.NoError(t, json.Unmarshal(next(t, conn, textOfType("cursor")), &c))
	assert.Equal(t, CursorMessage{Type: "cursor", Visible: true, X: 85, Y: 35, Size: 30}, c)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "mode", Mode: "pencil"}))
	require.NoError(t, json.Unmarshal(next(t, conn, textOfType("cursor")), &c))
	assert.False(t, c.Visible)
}

func TestTransportSurvivesBadMessages(t *testing.T) {
	srv, peers := newTestServer(t)
	conn := dial(t, srv)
	h := hello(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "teleport"}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "color", Color: "mauve"}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "color", Color: "#0000ff"}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "resize", Width: 10, Height: 10}))

	frameWith(t, conn, func(img image.Image) bool { return img.Bounds().Dx() == 10 })
	peer, err := peers.Get(h.Session)
	require.NoError(t, err)
	assert.Equal(t, state.Blue, peer.Board.Tools().StrokeColor)
}

func TestTransportClampsOversizedResize(t *testing.T) {
	srv, peers := newTestServer(t)
	conn := dial(t, srv)
	h := hello(t, conn)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "resize", Width: 1e10, Height: 1e10}))
	img := frameWith(t, conn, func(img image.Image) bool { return img.Bounds().Dx() == testMaxSide })
	assert.Equal(t, testMaxSide, img.Bounds().Dy())

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "resize", Width: -5, Height: 20}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "resize", Width: 30, Height: 20}))
	frameWith(t, conn, func(img image.Image) bool { return img.Bounds().Dx() == 30 })

	peer, err := peers.Get(h.Session)
	require.NoError(t, err)
	w, hgt := peer.Board.Size()
	assert.Equal(t, 30, w)
	assert.Equal(t, 20, hgt)
}

func TestTransportSkipsEmptyFrames(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)
	hello(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, nil))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "mode", Mode: "eraser"}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "move", X: 50, Y: 50}))

	var c CursorMessage
	require.NoError(t, json.Unmarshal(next(t, conn, textOfType("cursor")), &c))
	assert.True(t, c.Visible)
}

func TestTransportWriteFailureEndsSession(t *testing.T) {
	srv, peers := newTestServer(t)
	conn := dial(t, srv)
	h := hello(t, conn)

	peer, err := peers.Get(h.Session)
	require.NoError(t, err)
	peer.send <- make(chan int) // not encodable as JSON

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			var netErr interface{ Timeout() bool }
			if errors.As(err, &netErr) {
				require.False(t, netErr.Timeout(), "server kept the connection open")
			}
			break
		}
	}
	assert.Eventually(t, func() bool { return peers.Len() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestExportRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)
	h := hello(t, conn)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "resize", Width: 40, Height: 40}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "down", X: 20, Y: 20}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "up"}))
	frameWith(t, conn, func(img image.Image) bool { return alphaOf(img, 20, 20) > 0 })

	resp, err := http.Get(srv.URL + "/export?session=" + h.Session)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="drawing.png"`)

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.NotZero(t, alphaOf(img, 20, 20))
	assert.Zero(t, alphaOf(img, 2, 2))

	pdf, err := http.Get(srv.URL + "/export?format=pdf&session=" + h.Session)
	require.NoError(t, err)
	defer pdf.Body.Close()
	assert.Equal(t, http.StatusOK, pdf.StatusCode)
	assert.Equal(t, "application/pdf", pdf.Header.Get("Content-Type"))
}

func TestExportRouteErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/export?session=nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	conn := dial(t, srv)
	h := hello(t, conn)
	resp, err = http.Get(srv.URL + "/export?format=gif&session=" + h.Session)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServesPage(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), `id="canvas"`)
	assert.Contains(t, body.String(), "applyTools(msg)", "the page shows the tool state from hello")
}

func TestPeerManagerUnknownSession(t *testing.T) {
	pm := NewPeerManager()
	_, err := pm.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.Zero(t, pm.Len())
}
