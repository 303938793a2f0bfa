package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reducer folds stream events into an ordered turn list. Fold never mutates
// its input: callers get back a new list sharing unchanged turns.
type Reducer struct {
	newID func() string
	now   func() time.Time
}

// NewReducer creates a reducer. Nil arguments fall back to uuid.NewString
// and time.Now; tests inject deterministic replacements.
func NewReducer(newID func() string, now func() time.Time) *Reducer {
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &Reducer{newID: newID, now: now}
}

// Fold applies one event to the assistant turn with the given id and returns
// the next turn list. If no assistant turn matches, or the event kind is not
// a member of the taxonomy, the input is returned unchanged.
func (r *Reducer) Fold(turns []Turn, assistantTurnID string, ev Event) []Turn {
	idx := -1
	for i := range turns {
		if turns[i].ID == assistantTurnID && turns[i].Role == RoleAssistant {
			idx = i
			break
		}
	}
	if idx < 0 {
		return turns
	}

	if !ev.Kind.Valid() {
		return turns
	}

	// An error step is terminal; stray events after it must not extend or
	// overwrite the failure message.
	if turns[idx].Status == StatusError {
		return turns
	}

	next := make([]Turn, len(turns))
	copy(next, turns)
	turn := &next[idx]
	// Clone the step list so previously returned lists never alias a slice
	// that gets extended or mutated here.
	turn.Steps = append([]Step(nil), turn.Steps...)

	switch ev.Kind {
	case EventThinking:
		r.applyThinking(turn, ev)
	case EventTool:
		r.applyTool(turn, ev)
	case EventText:
		r.applyText(turn, ev)
	case EventError:
		r.applyError(turn, ev)
	}

	return next
}

// Finalize marks a turn interrupted if the stream closed before it reached a
// terminal text or error state. Returns the input unchanged otherwise.
func (r *Reducer) Finalize(turns []Turn, assistantTurnID string) []Turn {
	idx := -1
	for i := range turns {
		if turns[i].ID == assistantTurnID && turns[i].Role == RoleAssistant {
			idx = i
			break
		}
	}
	if idx < 0 {
		return turns
	}

	turn := turns[idx]
	if turn.CurrentKind == StepText {
		return turns
	}
	if turn.CurrentKind == StepTool && (turn.Status == ToolCompleted || turn.Status == ToolFailed) {
		return turns
	}

	next := make([]Turn, len(turns))
	copy(next, turns)
	next[idx].Status = StatusInterrupted
	return next
}

// applyThinking coalesces consecutive thinking events into the trailing
// thinking step so a long reasoning phase does not pile up near-duplicate
// steps, while still refreshing its content and timestamp.
func (r *Reducer) applyThinking(turn *Turn, ev Event) {
	turn.Content = ThinkingContent
	turn.CurrentKind = StepThinking

	content := ev.Content
	if content == "" {
		content = ThinkingContent
	}

	if n := len(turn.Steps); n > 0 && turn.Steps[n-1].Kind == StepThinking {
		last := turn.Steps[n-1]
		last.Content = content
		last.CreatedAt = r.now()
		turn.Steps[n-1] = last
		return
	}

	turn.Steps = append(turn.Steps, Step{
		ID:        r.newID(),
		Kind:      StepThinking,
		Content:   content,
		CreatedAt: r.now(),
	})
}

// applyTool always appends: tool invocations are never merged, even when the
// same tool runs repeatedly.
func (r *Reducer) applyTool(turn *Turn, ev Event) {
	content := ev.Content
	if content == "" {
		content = "Using " + ev.ToolName
	}

	turn.Steps = append(turn.Steps, Step{
		ID:        r.newID(),
		Kind:      StepTool,
		Content:   content,
		ToolName:  ev.ToolName,
		ToolID:    ev.ToolID,
		Params:    ev.Params,
		Status:    ev.Status,
		CreatedAt: r.now(),
	})

	turn.CurrentKind = StepTool
	turn.Content = content
	turn.ToolName = ev.ToolName
	turn.ToolID = ev.ToolID
	turn.Params = ev.Params
	turn.Status = ev.Status
}

// applyText extends the trailing text step, starting a new one when the turn
// was doing something else. A chunk whose content is already contained in the
// accumulated step is a duplicate retransmission and is dropped.
func (r *Reducer) applyText(turn *Turn, ev Event) {
	if n := len(turn.Steps); turn.CurrentKind == StepText && n > 0 && turn.Steps[n-1].Kind == StepText {
		last := turn.Steps[n-1]
		if ev.Content != "" && !strings.Contains(last.Content, ev.Content) {
			last.Content += ev.Content
			turn.Steps[n-1] = last
		}
		turn.Content = turn.Steps[n-1].Content
		return
	}

	turn.CurrentKind = StepText
	turn.Content = ev.Content
	turn.Steps = append(turn.Steps, Step{
		ID:        r.newID(),
		Kind:      StepText,
		Content:   ev.Content,
		CreatedAt: r.now(),
	})
}

// applyError records a single terminal failure step.
func (r *Reducer) applyError(turn *Turn, ev Event) {
	msg := ev.Error
	if msg == "" {
		msg = ev.Content
	}
	content := ErrorPrefix + msg

	turn.Content = content
	turn.CurrentKind = StepText
	turn.Status = StatusError
	turn.Steps = append(turn.Steps, Step{
		ID:        r.newID(),
		Kind:      StepText,
		Content:   content,
		Status:    StatusError,
		CreatedAt: r.now(),
	})
}
