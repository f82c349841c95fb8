package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Wire format of the remote recognition service. One request, one
// response, in order, over a single connection.
type remoteRequest struct {
	Image     string `json:"image"` // base64 PNG
	Allowlist string `json:"allowlist,omitempty"`
}

type remoteSpan struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Box        *[4]int `json:"box,omitempty"` // x1, y1, x2, y2
}

type remoteResponse struct {
	Spans []remoteSpan `json:"spans"`
	Error string       `json:"error,omitempty"`
}

// remoteEngine sends frames to a recognition service over a WebSocket
// connection established once at construction. The request/response
// exchange is serialized per connection.
type remoteEngine struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newRemote(cfg Config) (*remoteEngine, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("ocr: remote engine needs a URL")
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("ocr: dial %s: %w", cfg.URL, err)
	}
	// Frames are larger than the default read limit.
	conn.SetReadLimit(16 << 20)
	return &remoteEngine{conn: conn}, nil
}

func (e *remoteEngine) Recognize(img image.Image, allowlist string) ([]Result, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("ocr: encode frame: %w", err)
	}
	req := remoteRequest{
		Image:     base64.StdEncoding.EncodeToString(buf.Bytes()),
		Allowlist: allowlist,
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ctx := context.Background()
	if err := wsjson.Write(ctx, e.conn, req); err != nil {
		return nil, fmt.Errorf("ocr: send frame: %w", err)
	}
	var resp remoteResponse
	if err := wsjson.Read(ctx, e.conn, &resp); err != nil {
		return nil, fmt.Errorf("ocr: read response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("ocr: remote engine: %s", resp.Error)
	}

	results := make([]Result, 0, len(resp.Spans))
	for _, s := range resp.Spans {
		r := Result{Text: s.Text, Confidence: s.Confidence}
		if s.Box != nil {
			box := image.Rect(s.Box[0], s.Box[1], s.Box[2], s.Box[3])
			r.Box = &box
		}
		results = append(results, r)
	}
	return results, nil
}

// Close closes the connection to the recognition service.
func (e *remoteEngine) Close() error {
	return e.conn.Close(websocket.StatusNormalClosure, "")
}
