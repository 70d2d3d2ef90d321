package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/regcache/pkg/library"
	"github.com/praetorian-inc/regcache/pkg/types"
)

// Request types.
const (
	TypeCompile       = "compile"
	TypeRelease       = "release"
	TypeMatch         = "match"
	TypeMatchCompiled = "match_compiled"
	TypeSearch        = "search"
	TypeFindAll       = "find_all"
	TypeSubstitute    = "substitute"
	TypeInfo          = "info"
	TypeScan          = "scan"
	TypeStats         = "stats"
	TypeClose         = "close"
)

// Error codes carried in Response.Code.
const (
	CodeCompileError  = "compile_error"
	CodeUnknownHandle = "unknown_handle"
	CodeBadRequest    = "bad_request"
	CodeMatchError    = "match_error"
)

// Request represents an incoming NDJSON request
type Request struct {
	ID      json.RawMessage `json:"id,omitempty"` // echoed back verbatim
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// PatternPayload is the payload for "compile" requests
type PatternPayload struct {
	Pattern *string `json:"pattern"`
}

// HandlePayload is the payload for "release" and "info" requests
type HandlePayload struct {
	Handle *types.Handle `json:"handle"`
}

// MatchPayload is the payload for "match" requests
type MatchPayload struct {
	Pattern *string `json:"pattern"`
	Text    string  `json:"text"`
}

// TextPayload is the payload for handle-scoped queries
// ("match_compiled", "search", "find_all", "substitute") and "scan".
type TextPayload struct {
	Handle      *types.Handle `json:"handle"`
	Text        string        `json:"text"`
	Replacement string        `json:"replacement,omitempty"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	ID      json.RawMessage `json:"id,omitempty"`
	Success bool            `json:"success"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Code    string          `json:"code,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version  string `json:"version"`
	Live     int    `json:"live"`
	Patterns int    `json:"patterns"`
}

// HandleData is the data field for "compile" and "release" responses
type HandleData struct {
	Handle types.Handle `json:"handle"`
}

// MatchData is the data field for "match" and "match_compiled" responses.
// A one-shot match against a pattern that does not compile reports
// matched=false with the compile error attached.
type MatchData struct {
	Matched      bool   `json:"matched"`
	CompileError string `json:"compile_error,omitempty"`
}

// SearchData is the data field for "search" responses
type SearchData struct {
	Found bool   `json:"found"`
	Match string `json:"match"`
}

// FindAllData is the data field for "find_all" responses
type FindAllData struct {
	Values []string `json:"values"`
}

// SubstituteData is the data field for "substitute" responses
type SubstituteData struct {
	Result string `json:"result"`
}

// ScanData is the data field for "scan" responses
type ScanData struct {
	Hits []library.Hit `json:"hits"`
}
