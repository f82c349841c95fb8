package ocr

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// echoService answers every recognition request with canned spans and
// records whether the request carried a decodable frame.
func echoService(t *testing.T, spans []remoteSpan) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")
		conn.SetReadLimit(16 << 20)

		for {
			var req remoteRequest
			if err := wsjson.Read(r.Context(), conn, &req); err != nil {
				return
			}
			resp := remoteResponse{Spans: spans}
			if _, err := base64.StdEncoding.DecodeString(req.Image); err != nil {
				resp = remoteResponse{Error: "bad frame"}
			}
			if err := wsjson.Write(r.Context(), conn, resp); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestRemoteEngineRoundTrip(t *testing.T) {
	srv := echoService(t, []remoteSpan{
		{Text: "白雪", Confidence: 0.92, Box: &[4]int{10, 4, 80, 30}},
		{Text: "5K", Confidence: 0.85},
	})
	defer srv.Close()

	eng, err := New(KindRemote, Config{URL: wsURL(srv)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.(*remoteEngine).Close()

	results, err := eng.Recognize(testImg, "")
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Text != "白雪" || results[0].Confidence != 0.92 {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[0].Box == nil || results[0].Box.Min.X != 10 || results[0].Box.Max.Y != 30 {
		t.Errorf("results[0].Box = %v, want (10,4)-(80,30)", results[0].Box)
	}
	if results[1].Box != nil {
		t.Error("results[1] should carry no box")
	}
}

func TestRemoteEngineServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")
		conn.SetReadLimit(16 << 20)

		var req remoteRequest
		if err := wsjson.Read(r.Context(), conn, &req); err != nil {
			return
		}
		_ = wsjson.Write(r.Context(), conn, remoteResponse{Error: "model not loaded"})
	}))
	defer srv.Close()

	eng, err := New(KindRemote, Config{URL: wsURL(srv)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.(*remoteEngine).Close()

	if _, err := eng.Recognize(testImg, ""); err == nil || !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("Recognize error = %v, want remote error", err)
	}
}

func TestRemoteEngineDialFailure(t *testing.T) {
	if _, err := New(KindRemote, Config{URL: "ws://127.0.0.1:1", DialTimeout: 200 * time.Millisecond}); err == nil {
		t.Error("expected dial error")
	}
}
