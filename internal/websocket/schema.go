package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionFilter Action = "filter"
	ActionPing   Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// FilterRequest asks for the visible keys of a mounted list page.
type FilterRequest struct {
	Action   Action `json:"action"`
	Query    string `json:"q"`
	Field    string `json:"field"`
	Semester string `json:"semester"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError Event = "error"
	EventKeys  Event = "keys"
	EventPong  Event = "pong"
)

// KeysResponse lists the keys of the rows that pass the filter.
type KeysResponse struct {
	Event Event    `json:"event"`
	Keys  []string `json:"keys"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
