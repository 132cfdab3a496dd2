// Package server streams a live chart to browsers over a websocket.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/render"
	"github.com/san-kum/bubblechart/internal/sim"
)

const (
	writeWait      = 10 * time.Second
	regroupTimeout = 5 * time.Second
	clientBuffer   = 16
)

var ErrEngineUnavailable = errors.New("server: engine not running")

type Option func(*Server)

func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func WithFPS(fps int) Option {
	return func(s *Server) { s.fps = fps }
}

func WithTitle(title string) Option {
	return func(s *Server) { s.title = title }
}

type client struct {
	send chan []byte
}

// Server owns an initialized chart. Only the goroutine running Run touches
// the chart; handlers read copies published after each frame.
type Server struct {
	chart  *chart.Chart
	scene  *render.Scene
	logger *log.Logger
	fps    int
	title  string
	width  int
	height int

	upgrader websocket.Upgrader
	regroup  chan chan struct{}

	mu       sync.RWMutex
	frame    chart.Frame
	frameMsg []byte
	elements []render.ElementState
	clients  map[*client]struct{}
}

func New(c *chart.Chart, scene *render.Scene, opts ...Option) *Server {
	s := &Server{
		chart:   c,
		scene:   scene,
		logger:  log.Default(),
		fps:     sim.DefaultFPS,
		title:   "bubblechart",
		regroup: make(chan chan struct{}),
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	cfg := c.Config()
	s.width, s.height = int(cfg.Width), int(cfg.Height)
	s.publish()
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/chart.svg", s.handleSVG)
	r.Get("/frame", s.handleFrame)
	r.Get("/ws", s.handleWS)
	r.Post("/regroup", s.handleRegroup)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

// Run advances the chart once per frame until ctx is done, broadcasting a
// frame to every client whenever something changed.
func (s *Server) Run(ctx context.Context) error {
	clock := sim.NewFrameClock(s.fps)
	defer clock.Stop()

	last := time.Now()
	for {
		changed := false
		select {
		case done := <-s.regroup:
			s.chart.ApplyGroupedLayout()
			s.logger.Info("regroup")
			close(done)
			changed = true
		default:
		}

		if err := clock.Wait(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		now := time.Now()
		if s.chart.Tick(now.Sub(last)) {
			changed = true
		}
		last = now

		if changed {
			s.publish()
			s.broadcast()
		}
	}
}

// publish copies the chart state for handlers. Called only from the engine
// goroutine or before Run starts.
func (s *Server) publish() {
	frame := s.chart.Frame()
	msg, err := json.Marshal(frame)
	if err != nil {
		s.logger.Error("encode frame", "err", err)
		return
	}
	elements := s.scene.Snapshot()

	s.mu.Lock()
	s.frame = frame
	s.frameMsg = msg
	s.elements = elements
	s.mu.Unlock()
}

func (s *Server) broadcast() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.send <- s.frameMsg:
		default:
			// Slow client; it catches up on the next frame.
		}
	}
}

func (s *Server) snapshot() (chart.Frame, []byte, []render.ElementState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame, s.frameMsg, s.elements
}

// Frame returns the most recently published frame.
func (s *Server) Frame() chart.Frame {
	f, _, _ := s.snapshot()
	return f
}

func (s *Server) renderSVG() []byte {
	_, _, elements := s.snapshot()
	var buf bytes.Buffer
	render.WriteSVG(&buf, s.width, s.height, elements, render.WithTitle(s.title))
	return buf.Bytes()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pageData{Title: s.title, SVG: template.HTML(s.renderSVG())}
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("render page", "err", err)
	}
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(s.renderSVG())
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	_, msg, _ := s.snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(msg)
}

func (s *Server) handleRegroup(w http.ResponseWriter, r *http.Request) {
	if err := s.Regroup(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Regroup asks the engine goroutine to reapply the grouped layout and waits
// until it has.
func (s *Server) Regroup(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, regroupTimeout)
	defer cancel()

	done := make(chan struct{})
	select {
	case s.regroup <- done:
	case <-ctx.Done():
		return ErrEngineUnavailable
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ErrEngineUnavailable
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "err", err)
		return
	}

	c := &client{send: make(chan []byte, clientBuffer)}
	_, msg, _ := s.snapshot()
	c.send <- msg

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug("client connected", "remote", r.RemoteAddr)

	go s.writeLoop(conn, c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read", "err", err)
			}
			break
		}
	}

	s.mu.Lock()
	delete(s.clients, c)
	close(c.send)
	s.mu.Unlock()
	s.logger.Debug("client disconnected", "remote", r.RemoteAddr)
}

func (s *Server) writeLoop(conn *websocket.Conn, c *client) {
	defer conn.Close()
	for msg := range c.send {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// ListenAndServe serves on addr and runs the engine until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errc := make(chan error, 2)
	go func() { errc <- s.Run(ctx) }()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	s.logger.Info("serving", "addr", addr)

	select {
	case <-ctx.Done():
	case err := <-errc:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
