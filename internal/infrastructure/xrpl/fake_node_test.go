package xrpl_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// fakeNode answers the handful of rippled commands the gateway uses.
type fakeNode struct {
	accounts  map[string]map[string]any
	lines     map[string][]map[string]any
	txDates   map[string]int64
	errorCode string
	mu        sync.Mutex
	requests  []map[string]any
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		accounts: map[string]map[string]any{},
		lines:    map[string][]map[string]any{},
		txDates:  map[string]int64{},
	}
}

func (n *fakeNode) recorded(command string) []map[string]any {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []map[string]any
	for _, r := range n.requests {
		if r["command"] == command {
			out = append(out, r)
		}
	}
	return out
}

// answer returns the result object or an error code.
func (n *fakeNode) answer(command string, params map[string]any) (map[string]any, string) {
	n.mu.Lock()
	rec := map[string]any{"command": command}
	for k, v := range params {
		rec[k] = v
	}
	n.requests = append(n.requests, rec)
	n.mu.Unlock()

	if n.errorCode != "" {
		return nil, n.errorCode
	}
	account, _ := params["account"].(string)

	switch command {
	case "account_info":
		data, ok := n.accounts[account]
		if !ok {
			return nil, "actNotFound"
		}
		return map[string]any{"account_data": data, "ledger_index": 90000000, "validated": true}, ""

	case "account_lines":
		if _, ok := n.accounts[account]; !ok {
			return nil, "actNotFound"
		}
		all := n.lines[account]
		limit := int(params["limit"].(float64))
		start := 0
		if m, ok := params["marker"].(string); ok {
			start, _ = strconv.Atoi(strings.TrimPrefix(m, "m"))
		}
		end := min(start+limit, len(all))
		res := map[string]any{"account": account, "lines": append([]map[string]any{}, all[start:end]...), "ledger_index": 90000000}
		if end < len(all) {
			res["marker"] = fmt.Sprintf("m%d", end)
		}
		return res, ""

	case "account_tx":
		date, ok := n.txDates[account]
		if !ok {
			return map[string]any{"transactions": []any{}}, ""
		}
		return map[string]any{"transactions": []any{
			map[string]any{"tx": map[string]any{"date": date}, "validated": true},
		}}, ""
	}
	return nil, "unknownCmd"
}

func (n *fakeNode) serveHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string           `json:"method"`
		Params []map[string]any `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var params map[string]any
	if len(req.Params) > 0 {
		params = req.Params[0]
	}

	result, code := n.answer(req.Method, params)
	if code != "" {
		result = map[string]any{"status": "error", "error": code, "error_message": code + " message"}
	} else {
		result["status"] = "success"
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"result": result})
}

func (n *fakeNode) serveWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer c.CloseNow()

	ctx := r.Context()
	for {
		var req map[string]any
		if err := wsjson.Read(ctx, c, &req); err != nil {
			return
		}
		command, _ := req["command"].(string)
		id := req["id"]
		delete(req, "command")
		delete(req, "id")

		// Unsolicited stream traffic the client must ignore.
		_ = wsjson.Write(ctx, c, map[string]any{"type": "ledgerClosed", "ledger_index": 1})

		result, code := n.answer(command, req)
		frame := map[string]any{"id": id, "type": "response", "status": "success", "result": result}
		if code != "" {
			frame = map[string]any{"id": id, "type": "response", "status": "error", "error": code, "error_message": code + " message"}
		}
		if err := wsjson.Write(ctx, c, frame); err != nil {
			return
		}
	}
}

// start serves the node and returns its URL for the given transport.
func (n *fakeNode) start(t *testing.T, transport string) string {
	t.Helper()
	var srv *httptest.Server
	if transport == "ws" {
		srv = httptest.NewServer(http.HandlerFunc(n.serveWS))
		t.Cleanup(srv.Close)
		return "ws" + strings.TrimPrefix(srv.URL, "http")
	}
	srv = httptest.NewServer(http.HandlerFunc(n.serveHTTP))
	t.Cleanup(srv.Close)
	return srv.URL
}
