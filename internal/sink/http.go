package sink

import (
	"bytes"
	"context"
	"image"
	"net/http"
	"sync"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/roadlab/lanescan/internal/logger"
)

const (
	streamJPEGQuality = 80
	writeWait         = 5 * time.Second
)

const viewerPage = `<!DOCTYPE html>
<html>
<head><title>lanescan</title>
<style>body{margin:0;background:#111;display:grid;place-items:center;height:100vh}img{max-width:100vw;max-height:100vh}</style>
</head>
<body>
<img id="frame" alt="waiting for frames">
<script>
const img = document.getElementById("frame");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/stream");
ws.binaryType = "blob";
ws.onmessage = (ev) => {
  const url = URL.createObjectURL(ev.data);
  img.onload = () => URL.revokeObjectURL(url);
  img.src = url;
};
</script>
</body>
</html>
`

// wsViewer serializes writes to one websocket connection.
type wsViewer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (v *wsViewer) write(messageType int, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return v.conn.WriteMessage(messageType, data)
}

// HTTP broadcasts each rendered frame as a binary JPEG websocket message
// and serves a minimal viewer page that displays the stream.
//
// Frames rendered while no browser is connected are skipped without
// encoding. A viewer that stops reading is dropped on its next failed
// write; rendering never blocks the frame loop on a slow browser beyond
// the write deadline.
type HTTP struct {
	srv      *http.Server
	upgrader websocket.Upgrader
	encode   imgio.Encoder

	mu      sync.Mutex
	viewers map[*wsViewer]struct{}
}

// NewHTTP builds the sink listening on addr, e.g. ":8080".
func NewHTTP(addr string) *HTTP {
	h := &HTTP{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		encode:  imgio.JPEGEncoder(streamJPEGQuality),
		viewers: map[*wsViewer]struct{}{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleIndex)
	mux.HandleFunc("/stream", h.handleStream)
	h.srv = &http.Server{Addr: addr, Handler: mux}
	return h
}

// Handler exposes the routes for tests and embedding.
func (h *HTTP) Handler() http.Handler {
	return h.srv.Handler
}

// Serve runs the listener until ctx ends, then shuts it down.
func (h *HTTP) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- h.srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = h.srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serve frame stream")
	}
}

func (h *HTTP) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(viewerPage))
}

func (h *HTTP) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Entry(r.Context()).WithError(err).Warn("websocket upgrade failed")
		return
	}

	v := &wsViewer{conn: conn}
	h.mu.Lock()
	h.viewers[v] = struct{}{}
	h.mu.Unlock()
	logger.Entry(r.Context()).WithField("remote", conn.RemoteAddr().String()).Debug("viewer connected")

	// Reader loop: inbound payloads are ignored, but reading is what
	// detects a closed browser tab.
	go func() {
		defer h.drop(v)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *HTTP) drop(v *wsViewer) {
	h.mu.Lock()
	_, ok := h.viewers[v]
	delete(h.viewers, v)
	h.mu.Unlock()
	if ok {
		_ = v.conn.Close()
	}
}

// Render encodes the frame once and fans it out to every viewer.
func (h *HTTP) Render(name string, img image.Image) error {
	h.mu.Lock()
	viewers := make([]*wsViewer, 0, len(h.viewers))
	for v := range h.viewers {
		viewers = append(viewers, v)
	}
	h.mu.Unlock()
	if len(viewers) == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := h.encode(&buf, img); err != nil {
		return errors.Wrap(err, "encode frame")
	}

	for _, v := range viewers {
		if err := v.write(websocket.BinaryMessage, buf.Bytes()); err != nil {
			h.drop(v)
		}
	}
	return nil
}

// Close disconnects every viewer. The listener is owned by Serve and
// stops with its context.
func (h *HTTP) Close() error {
	h.mu.Lock()
	viewers := make([]*wsViewer, 0, len(h.viewers))
	for v := range h.viewers {
		viewers = append(viewers, v)
	}
	h.viewers = map[*wsViewer]struct{}{}
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	for _, v := range viewers {
		_ = v.write(websocket.CloseMessage, msg)
		_ = v.conn.Close()
	}
	return nil
}
