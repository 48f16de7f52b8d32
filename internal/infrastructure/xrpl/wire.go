package xrpl

import "encoding/json"

// rippledEpochOffset converts ledger close times (seconds since
// 2000-01-01T00:00:00Z) to Unix seconds.
const rippledEpochOffset = 946684800

// rpcError is the error triple rippled attaches to failed responses.
type rpcError struct {
	Code    string `json:"error"`
	Message string `json:"error_message"`
	Number  int    `json:"error_code"`
}

// wsEnvelope is a WebSocket API response frame.
type wsEnvelope struct {
	rpcError
	Result json.RawMessage `json:"result"`
	ID     json.RawMessage `json:"id"`
	Status string          `json:"status"`
	Type   string          `json:"type"`
}

// wsRequest is a WebSocket API request. Params are flattened next to the
// command name.
type wsRequest map[string]any

// httpRequest is a JSON-RPC request body.
type httpRequest struct {
	Method string           `json:"method"`
	Params []map[string]any `json:"params"`
}

// httpEnvelope is a JSON-RPC response. Status and errors live inside result.
type httpEnvelope struct {
	Result json.RawMessage `json:"result"`
}

type httpStatus struct {
	rpcError
	Status string `json:"status"`
}

type accountRoot struct {
	Account       string `json:"Account"`
	Balance       string `json:"Balance"`
	Domain        string `json:"Domain"`
	RegularKey    string `json:"RegularKey"`
	PreviousTxnID string `json:"PreviousTxnID"`
	Flags         uint32 `json:"Flags"`
	OwnerCount    uint32 `json:"OwnerCount"`
	Sequence      uint32 `json:"Sequence"`
	TransferRate  uint32 `json:"TransferRate"`
}

type accountInfoResult struct {
	AccountData accountRoot `json:"account_data"`
	LedgerIndex uint32      `json:"ledger_index"`
	Validated   bool        `json:"validated"`
}

type wireLine struct {
	Account   string `json:"account"`
	Balance   string `json:"balance"`
	Currency  string `json:"currency"`
	Limit     string `json:"limit"`
	LimitPeer string `json:"limit_peer"`
	NoRipple  bool   `json:"no_ripple"`
	Freeze    bool   `json:"freeze"`
}

type accountLinesResult struct {
	Account     string          `json:"account"`
	Marker      json.RawMessage `json:"marker"`
	Lines       *[]wireLine     `json:"lines"`
	LedgerIndex uint32          `json:"ledger_index"`
}

// txDate covers both API versions: v1 nests the transaction under "tx",
// v2 under "tx_json".
type txDate struct {
	Date *int64 `json:"date"`
}

type accountTxEntry struct {
	Tx     *txDate `json:"tx"`
	TxJSON *txDate `json:"tx_json"`
}

type accountTxResult struct {
	Transactions []accountTxEntry `json:"transactions"`
}

func (e accountTxEntry) date() (int64, bool) {
	for _, d := range []*txDate{e.Tx, e.TxJSON} {
		if d != nil && d.Date != nil {
			return *d.Date, true
		}
	}
	return 0, false
}

// hasMarker reports whether a raw marker is present and non-null.
func hasMarker(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
