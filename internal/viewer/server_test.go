package viewer

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"

	"github.com/tensorplex-labs/gesturebench/internal/charts"
	"github.com/tensorplex-labs/gesturebench/internal/config"
	"github.com/tensorplex-labs/gesturebench/internal/report"
)

var testGallery = charts.Gallery{
	{Name: charts.SpendTimeChart, PNG: []byte("\x89PNG spend")},
	{Name: charts.AccuracyChart, PNG: []byte("\x89PNG accuracy")},
}

func newTestServer(rep *report.Report) *Server {
	return NewServer(nil, testGallery, rep)
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return body
}

func TestIndexListsCharts(t *testing.T) {
	s := newTestServer(&report.Report{Selected: "$P-RS", Accuracy: 0.9})

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body := string(readBody(t, resp))

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, want := range []string{"/charts/spend_time.png", "/charts/accuracy.png", "$P-RS", "90.0%"} {
		if !bytes.Contains([]byte(body), []byte(want)) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestChartRoute(t *testing.T) {
	s := newTestServer(nil)

	t.Run("known chart", func(t *testing.T) {
		resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/charts/accuracy.png", nil))
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		body := readBody(t, resp)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if got := resp.Header.Get("Content-Type"); got != "image/png" {
			t.Errorf("expected image/png, got %s", got)
		}
		if !bytes.Equal(body, testGallery[1].PNG) {
			t.Errorf("unexpected body %q", body)
		}
	})

	t.Run("unknown chart", func(t *testing.T) {
		resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/charts/nope.png", nil))
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		readBody(t, resp)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestReportRoute(t *testing.T) {
	t.Run("no report", func(t *testing.T) {
		resp, err := newTestServer(nil).App.Test(httptest.NewRequest(http.MethodGet, "/report", nil))
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		readBody(t, resp)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("zstd encoded", func(t *testing.T) {
		rep := &report.Report{Selected: "$1", Classes: 16, ConfusionMatrix: [][]int{{5}}}
		req := httptest.NewRequest(http.MethodGet, "/report", nil)
		req.Header.Set("Accept-Encoding", "zstd")

		resp, err := newTestServer(rep).App.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		body := readBody(t, resp)
		if resp.Header.Get("Content-Encoding") != "zstd" {
			t.Fatalf("expected zstd content encoding, got %q", resp.Header.Get("Content-Encoding"))
		}

		dec, err := zstd.NewReader(nil)
		if err != nil {
			t.Fatalf("zstd reader: %v", err)
		}
		defer dec.Close()
		raw, err := dec.DecodeAll(body, nil)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}

		var got report.Report
		if err := sonic.Unmarshal(raw, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Selected != "$1" || got.Classes != 16 || got.ConfusionMatrix[0][0] != 5 {
			t.Errorf("unexpected report: %+v", got)
		}
	})
}

func TestHealthIsNotCompressed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Accept-Encoding", "zstd")

	resp, err := newTestServer(nil).App.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body := readBody(t, resp)
	if resp.Header.Get("Content-Encoding") != "" {
		t.Errorf("health must not be compressed")
	}
	if !bytes.Contains(body, []byte(`"ok"`)) {
		t.Errorf("unexpected health body %s", body)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	s := NewServer(&config.ViewerEnvConfig{Address: "127.0.0.1", Port: port, BodySizeLimit: 1024}, testGallery, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		conn, err := net.Dial("tcp", l.Addr().String())
		if err == nil {
			conn.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("viewer did not start: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("start returned %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("viewer did not stop")
	}
}
