package domain

import "time"

// ParamHints lets a caller declare explicitly which bucket an argument goes to.
type ParamHints struct {
	Header []string
	Query  []string
	Body   []string
}

// CallOptions are the per-call switches supplied by the shell.
type CallOptions struct {
	Debug   bool
	NoCache bool
	Timeout time.Duration
	Hints   ParamHints
}

// CallRequest is what a collaborator hands to the engine.
type CallRequest struct {
	Service  string
	Endpoint string // endpoint or alias name
	Args     Args
	Options  CallOptions
}

// ResultError is the structured error of a failed call.
type ResultError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// CallMetadata describes how a result was produced.
type CallMetadata struct {
	Timestamp  time.Time `json:"timestamp"`
	StatusCode int       `json:"statusCode,omitempty"`
	Cached     bool      `json:"cached"`
	DurationMS int64     `json:"duration"`
	RequestID  string    `json:"requestId,omitempty"`
	Service    string    `json:"service,omitempty"`
	Endpoint   string    `json:"endpoint,omitempty"`
}

// CallResult is the engine's answer; it never carries a Go error across the boundary.
type CallResult struct {
	Success  bool         `json:"success"`
	Data     any          `json:"data,omitempty"`
	Error    *ResultError `json:"error,omitempty"`
	Metadata CallMetadata `json:"metadata"`
}

// BatchRequest runs one endpoint once per argument set, in order.
type BatchRequest struct {
	Service     string
	Endpoint    string
	ArgSets     []Args
	StopOnError bool
	Options     CallOptions
}

// BatchItem is the outcome of one argument set. Index matches the input position.
type BatchItem struct {
	Index   int         `json:"index"`
	Skipped bool        `json:"skipped,omitempty"`
	Result  *CallResult `json:"result,omitempty"`
}

// BatchSummary counts item outcomes.
type BatchSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// BatchResult is successful only when every item succeeded.
type BatchResult struct {
	Success bool         `json:"success"`
	Items   []BatchItem  `json:"items"`
	Summary BatchSummary `json:"summary"`
}
