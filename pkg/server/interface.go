/*
Package server implements msgpack IPC for spell checking.

Clients write msgpack maps to stdin and read one msgpack map per request from
stdout. Logs go to stderr. Every request carries an id that is echoed back and
an op naming the operation:

	{"id": "1", "op": "check", "w": "teh"}
	{"id": "1", "ok": false, "t": 3}

	{"id": "2", "op": "suggest", "w": "teh", "l": 5}
	{"id": "2", "ok": false, "s": [{"w": "the", "r": 1, "d": 2}], "c": 1, "t": 41}

	{"id": "3", "op": "batch", "ws": ["teh", "quick"], "l": 3}
	{"id": "4", "op": "add", "w": "wordcheck"}
	{"id": "5", "op": "info"}
	{"id": "6", "op": "config", "max_dif": 1}
	{"id": "7", "op": "reload"}

Suggestions carry a rank (1 is best, equal distances share a rank) and the
matcher distance. Times are in microseconds.

Failed requests get an ErrorResponse with an HTTP-like code.
*/
package server

// Operation names accepted in Request.Op.
const (
	OpCheck   = "check"
	OpSuggest = "suggest"
	OpBatch   = "batch"
	OpAdd     = "add"
	OpInfo    = "info"
	OpConfig  = "config"
	OpReload  = "reload"
)

// Request is the envelope for every client message.
type Request struct {
	ID    string   `msgpack:"id"`
	Op    string   `msgpack:"op"`
	Word  string   `msgpack:"w,omitempty"`
	Words []string `msgpack:"ws,omitempty"`
	Limit int      `msgpack:"l,omitempty"`

	// config only
	MaxDif   *int `msgpack:"max_dif,omitempty"`
	MaxLimit *int `msgpack:"max_limit,omitempty"`
	MaxBatch *int `msgpack:"max_batch,omitempty"`
}

// ReadyResponse is written once when the server starts.
type ReadyResponse struct {
	Status  string `msgpack:"status"`
	Version string `msgpack:"version,omitempty"`
	Words   int    `msgpack:"words"`
}

// CheckResponse answers OpCheck.
type CheckResponse struct {
	ID        string `msgpack:"id"`
	Correct   bool   `msgpack:"ok"`
	TimeTaken int64  `msgpack:"t"`
}

// Suggestion - one ranked correction
type Suggestion struct {
	Word     string `msgpack:"w"`
	Rank     uint16 `msgpack:"r"`
	Distance int    `msgpack:"d"`
}

// SuggestResponse answers OpSuggest.
type SuggestResponse struct {
	ID          string       `msgpack:"id"`
	Correct     bool         `msgpack:"ok"`
	Suggestions []Suggestion `msgpack:"s"`
	Count       int          `msgpack:"c"`
	TimeTaken   int64        `msgpack:"t"`
}

// BatchItem is one word of a batch.
type BatchItem struct {
	Word        string   `msgpack:"w"`
	Correct     bool     `msgpack:"ok"`
	Suggestions []string `msgpack:"s"`
}

// BatchResponse answers OpBatch, in request order.
type BatchResponse struct {
	ID        string      `msgpack:"id"`
	Results   []BatchItem `msgpack:"r"`
	Count     int         `msgpack:"c"`
	TimeTaken int64       `msgpack:"t"`
}

// AddResponse answers OpAdd.
type AddResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Added  bool   `msgpack:"added"`
	Words  int    `msgpack:"words"`
}

// InfoResponse answers OpInfo.
type InfoResponse struct {
	ID          string `msgpack:"id"`
	Status      string `msgpack:"status"`
	Dictionary  string `msgpack:"dictionary,omitempty"`
	Words       int    `msgpack:"words"`
	Buckets     int    `msgpack:"buckets"`
	MaxLen      int    `msgpack:"max_len"`
	MaxWordLen  int    `msgpack:"max_word_len"`
	Fingerprint string `msgpack:"fingerprint"`
	MaxDif      int    `msgpack:"max_dif"`
	MaxLimit    int    `msgpack:"max_limit"`
	MaxBatch    int    `msgpack:"max_batch"`
	Cached      int    `msgpack:"cached"`
	Requests    int    `msgpack:"requests"`
}

// ConfigResponse - config operation response
type ConfigResponse struct {
	ID       string `msgpack:"id"`
	Status   string `msgpack:"status"`
	MaxDif   int    `msgpack:"max_dif"`
	MaxLimit int    `msgpack:"max_limit"`
	MaxBatch int    `msgpack:"max_batch"`
}

// ReloadResponse answers OpReload.
type ReloadResponse struct {
	ID      string `msgpack:"id"`
	Status  string `msgpack:"status"`
	Changed bool   `msgpack:"changed"`
	Words   int    `msgpack:"words"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"code"`
}
