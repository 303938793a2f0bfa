package chat

import "time"

// Role distinguishes user turns from assistant turns.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// StepKind identifies the type of a transcript step.
type StepKind string

const (
	StepThinking StepKind = "thinking"
	StepTool     StepKind = "tool"
	StepText     StepKind = "text"
)

// Turn status values beyond the tool statuses carried over from events.
const (
	StatusError       = "error"
	StatusInterrupted = "interrupted"
)

// Step is one recorded unit of assistant activity within a turn. Steps are
// append-only; only the most recent step may be extended in place.
type Step struct {
	ID        string         `json:"id"`
	Kind      StepKind       `json:"kind"`
	Content   string         `json:"content"`
	ToolName  string         `json:"tool_name,omitempty"`
	ToolID    string         `json:"tool_id,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
	Status    string         `json:"status,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Turn is one user or assistant contribution to a conversation. Content
// mirrors the human-readable summary of the most recent step so single-line
// displays stay backward compatible.
type Turn struct {
	ID          string         `json:"id"`
	Role        Role           `json:"role"`
	Content     string         `json:"content"`
	CreatedAt   time.Time      `json:"created_at"`
	CurrentKind StepKind       `json:"current_kind,omitempty"`
	Status      string         `json:"status,omitempty"`
	ToolName    string         `json:"tool_name,omitempty"`
	ToolID      string         `json:"tool_id,omitempty"`
	Params      map[string]any `json:"params,omitempty"`
	Steps       []Step         `json:"steps,omitempty"`
}

// ThinkingContent is the fixed in-progress marker shown while the assistant
// has produced no displayable output yet.
const ThinkingContent = "Thinking..."

// ErrorPrefix prefixes every terminal failure message.
const ErrorPrefix = "Error: "

// NewUserTurn builds a user turn carrying the literal message.
func NewUserTurn(id, message string, at time.Time) Turn {
	return Turn{
		ID:        id,
		Role:      RoleUser,
		Content:   message,
		CreatedAt: at,
	}
}

// NewPendingAssistantTurn builds the placeholder assistant turn that stream
// events are folded into.
func NewPendingAssistantTurn(id string, at time.Time) Turn {
	return Turn{
		ID:          id,
		Role:        RoleAssistant,
		Content:     ThinkingContent,
		CreatedAt:   at,
		CurrentKind: StepThinking,
	}
}
