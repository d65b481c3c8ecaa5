package net

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"LocalSketch/internal/assets"
	"LocalSketch/internal/export"
)

// HTTPServer serves the drawing page, its WebSocket and exports.
type HTTPServer struct {
	Addr      string
	Transport *Transport

	mu     sync.Mutex
	srv    *http.Server
	ln     net.Listener
	closed bool
}

func NewHTTPServer(addr string, transport *Transport) *HTTPServer {
	return &HTTPServer{Addr: addr, Transport: transport}
}

// Handler builds the routes:
//   - /        the embedded page
//   - /ws      one board per connection
//   - /export  ?session=<id>&format=png|pdf
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.Transport)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.Handle("/", http.FileServer(http.FS(assets.WebUI)))
	return mux
}

func (s *HTTPServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("web server already stopped")
	}
	if s.srv != nil {
		return nil
	}

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		s.srv = nil
		return fmt.Errorf("listen %s: %w", s.Addr, err)
	}
	s.ln = ln
	log.Printf("[HTTP] Listening on %s", ln.Addr())

	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	srv := s.srv
	go func() {
		err := srv.Serve(ln)
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Printf("[HTTP] Server stopped: %v", err)
	}()

	return nil
}

// Port returns the port the server is listening on, or 0 before Start.
func (s *HTTPServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return 0
	}
	if addr, ok := s.ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

func (s *HTTPServer) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	srv := s.srv
	s.srv = nil
	s.ln = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	peer, err := s.Transport.Peers.Get(r.URL.Query().Get("session"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	format := export.FormatPNG
	switch r.URL.Query().Get("format") {
	case "", "png":
	case "pdf":
		format = export.FormatPDF
	default:
		http.Error(w, "unsupported format", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	if err := export.Write(w, format, peer.Board.Snapshot()); err != nil {
		log.Printf("[HTTP] Export for %s failed: %v", peer.ID, err)
		http.Error(w, "export failed", http.StatusInternalServerError)
	}
}
