package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/dataset"
	"github.com/san-kum/bubblechart/internal/render"
	"github.com/san-kum/bubblechart/internal/sim"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := sim.New(sim.DefaultConfig())
	if err != nil {
		t.Fatalf("sim.New failed: %v", err)
	}
	cfg := chart.DefaultConfig()
	c := chart.New(s, cfg)
	scene := render.NewScene(cfg.Width, cfg.Height)
	records := []dataset.Record{
		{ID: "1", Name: "Go", Theme: "infrastructure"},
		{ID: "2", Name: "Rust", Theme: "research"},
	}
	if err := c.Initialize(scene, records); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	return New(c, scene, WithFPS(120), WithTitle("test chart"))
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestStaticEndpoints(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, body := get(t, ts.URL+"/chart.svg")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("svg status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("svg content type %q", ct)
	}
	if !strings.Contains(body, `data-key="Go"`) || !strings.Contains(body, `data-key="Rust"`) {
		t.Error("svg should contain one group per node")
	}

	resp, body = get(t, ts.URL+"/frame")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("frame status %d", resp.StatusCode)
	}
	var f chart.Frame
	if err := json.Unmarshal([]byte(body), &f); err != nil {
		t.Fatalf("invalid frame: %v", err)
	}
	if len(f.Nodes) != 2 || f.Step != 0 {
		t.Errorf("unexpected frame %+v", f)
	}

	resp, body = get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("index status %d", resp.StatusCode)
	}
	for _, want := range []string{"<title>test chart</title>", "<svg", "WebSocket", "/regroup"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestRegroupWithoutEngine(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := srv.Regroup(ctx); !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("expected ErrEngineUnavailable, got %v", err)
	}
}

func TestStreamAndRegroup(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- srv.Run(ctx) }()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f chart.Frame
	for f.Step < 3 {
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		if len(f.Nodes) != 2 {
			t.Fatalf("expected 2 nodes, got %d", len(f.Nodes))
		}
	}

	resp, err := http.Post(ts.URL+"/regroup", "application/json", nil)
	if err != nil {
		t.Fatalf("regroup failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("regroup status %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-runErr:
		if err != nil {
			t.Errorf("run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop")
	}
}
