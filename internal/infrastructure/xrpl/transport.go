package xrpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// maxFrameBytes bounds a single response. account_lines pages of 400
// entries run to a few hundred KiB.
const maxFrameBytes = 16 << 20

// rpcConn sends one command and decodes its result into out.
type rpcConn interface {
	call(ctx context.Context, command string, params map[string]any, out any) error
	close() error
}

// wsConn speaks the rippled WebSocket API over one connection. Calls are
// serialised; responses are matched to requests by id and stray frames
// (subscriptions, late replies) are dropped.
type wsConn struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	nextID uint64
}

func dialWS(ctx context.Context, url string) (*wsConn, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, transportErr("dial", err)
	}
	c.SetReadLimit(maxFrameBytes)
	return &wsConn{conn: c}, nil
}

func (w *wsConn) call(ctx context.Context, command string, params map[string]any, out any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextID++
	id := strconv.FormatUint(w.nextID, 10)

	req := wsRequest{"id": w.nextID, "command": command}
	for k, v := range params {
		req[k] = v
	}
	if err := wsjson.Write(ctx, w.conn, req); err != nil {
		return transportErr(command, err)
	}

	for {
		var env wsEnvelope
		if err := wsjson.Read(ctx, w.conn, &env); err != nil {
			if ctx.Err() != nil {
				return transportErr(command, ctx.Err())
			}
			return transportErr(command, err)
		}
		if string(env.ID) != id {
			continue
		}
		if env.Status == "error" || env.Code != "" {
			return classify(command, env.rpcError)
		}
		if err := json.Unmarshal(env.Result, out); err != nil {
			return malformed(command, err)
		}
		return nil
	}
}

func (w *wsConn) close() error {
	return w.conn.Close(websocket.StatusNormalClosure, "")
}

// httpConn speaks rippled JSON-RPC. The session owns the client.
type httpConn struct {
	client *http.Client
	url    string
}

func (h *httpConn) call(ctx context.Context, command string, params map[string]any, out any) error {
	body, err := json.Marshal(httpRequest{Method: command, Params: []map[string]any{params}})
	if err != nil {
		return fmt.Errorf("xrpl %s: encode request: %w", command, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return transportErr(command, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return transportErr(command, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameBytes))
	if err != nil {
		return transportErr(command, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &TransportError{Op: command, Code: strconv.Itoa(resp.StatusCode), Err: fmt.Errorf("unexpected HTTP status %s", resp.Status)}
	}

	var env httpEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return malformed(command, err)
	}
	var status httpStatus
	if err := json.Unmarshal(env.Result, &status); err != nil {
		return malformed(command, err)
	}
	if status.Status == "error" || status.Code != "" {
		return classify(command, status.rpcError)
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return malformed(command, err)
	}
	return nil
}

func (h *httpConn) close() error {
	h.client.CloseIdleConnections()
	return nil
}
