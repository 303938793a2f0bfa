package chat

// EventKind identifies the type of a stream event.
type EventKind string

const (
	EventThinking EventKind = "thinking"
	EventTool     EventKind = "tool"
	EventText     EventKind = "text"
	EventError    EventKind = "error"
)

// Valid reports whether the kind is a member of the closed event set.
func (k EventKind) Valid() bool {
	switch k {
	case EventThinking, EventTool, EventText, EventError:
		return true
	}
	return false
}

// Tool status values emitted by the upstream agent.
const (
	ToolStarted   = "started"
	ToolExecuting = "executing"
	ToolPartial   = "partial"
	ToolCompleted = "completed"
	ToolFailed    = "failed"
)

// Event is one decoded increment of assistant progress. Events are
// transient: the reducer consumes them and they are never stored.
// The JSON keys match the upstream SSE wire format.
type Event struct {
	Kind     EventKind      `json:"type"`
	Content  string         `json:"content,omitempty"`
	Error    string         `json:"error,omitempty"`
	ToolName string         `json:"tool_name,omitempty"`
	ToolID   string         `json:"tool_id,omitempty"`
	Status   string         `json:"status,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
	Result   string         `json:"result,omitempty"`
}
