package chat_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/rfournie/appforge/internal/chat"
	"github.com/stretchr/testify/require"
)

func newTestReducer() *chat.Reducer {
	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("step-%d", n)
	}
	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	now := func() time.Time { return at }
	return chat.NewReducer(newID, now)
}

func pendingTurns() []chat.Turn {
	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	return []chat.Turn{
		chat.NewUserTurn("user-1", "build me a todo app", at),
		chat.NewPendingAssistantTurn("asst-1", at),
	}
}

func TestReducer_ThinkingCoalesces(t *testing.T) {
	r := newTestReducer()
	turns := pendingTurns()

	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventThinking, Content: "Planning the schema"})
	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventThinking, Content: "Choosing components"})

	asst := turns[1]
	require.Len(t, asst.Steps, 1)
	require.Equal(t, chat.StepThinking, asst.Steps[0].Kind)
	require.Equal(t, "Choosing components", asst.Steps[0].Content)
	require.Equal(t, chat.ThinkingContent, asst.Content)
}

func TestReducer_ToolsNeverMerge(t *testing.T) {
	r := newTestReducer()
	turns := pendingTurns()

	for i := 0; i < 3; i++ {
		turns = r.Fold(turns, "asst-1", chat.Event{
			Kind:     chat.EventTool,
			ToolName: "write_file",
			ToolID:   fmt.Sprintf("call-%d", i),
			Status:   chat.ToolStarted,
		})
	}

	asst := turns[1]
	require.Len(t, asst.Steps, 3)
	for _, step := range asst.Steps {
		require.Equal(t, chat.StepTool, step.Kind)
		require.Equal(t, "write_file", step.ToolName)
		require.Equal(t, "Using write_file", step.Content)
	}
}

func TestReducer_TextExtendsTrailingStep(t *testing.T) {
	r := newTestReducer()
	turns := pendingTurns()

	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventText, Content: "Here is "})
	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventText, Content: "the plan."})

	asst := turns[1]
	require.Len(t, asst.Steps, 1)
	require.Equal(t, "Here is the plan.", asst.Steps[0].Content)
	require.Equal(t, "Here is the plan.", asst.Content)
	require.Equal(t, chat.StepText, asst.CurrentKind)
}

func TestReducer_TextDuplicateChunkDropped(t *testing.T) {
	r := newTestReducer()
	turns := pendingTurns()

	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventText, Content: "All done."})
	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventText, Content: "All done."})

	asst := turns[1]
	require.Len(t, asst.Steps, 1)
	require.Equal(t, "All done.", asst.Steps[0].Content)
}

func TestReducer_TextAfterToolStartsNewStep(t *testing.T) {
	r := newTestReducer()
	turns := pendingTurns()

	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventText, Content: "First answer."})
	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventTool, ToolName: "read_file", Status: chat.ToolCompleted})
	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventText, Content: "Second answer."})

	asst := turns[1]
	require.Len(t, asst.Steps, 3)
	require.Equal(t, "First answer.", asst.Steps[0].Content)
	require.Equal(t, "Second answer.", asst.Steps[2].Content)
}

func TestReducer_FullTurnScenario(t *testing.T) {
	r := newTestReducer()
	turns := pendingTurns()

	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventThinking})
	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventThinking})
	turns = r.Fold(turns, "asst-1", chat.Event{
		Kind:     chat.EventTool,
		ToolName: "write_file",
		ToolID:   "call-1",
		Status:   chat.ToolCompleted,
	})
	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventText, Content: "Done."})

	asst := turns[1]
	require.Len(t, asst.Steps, 3)
	require.Equal(t, chat.StepThinking, asst.Steps[0].Kind)
	require.Equal(t, chat.StepTool, asst.Steps[1].Kind)
	require.Equal(t, chat.StepText, asst.Steps[2].Kind)
	require.Equal(t, "Done.", asst.Content)
	require.Equal(t, chat.StepText, asst.CurrentKind)
}

func TestReducer_ErrorFoldsTerminalStep(t *testing.T) {
	r := newTestReducer()
	turns := pendingTurns()

	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventError, Error: "agent unavailable"})

	asst := turns[1]
	require.Equal(t, "Error: agent unavailable", asst.Content)
	require.Equal(t, chat.StatusError, asst.Status)
	require.Len(t, asst.Steps, 1)
	require.Equal(t, "Error: agent unavailable", asst.Steps[0].Content)
}

func TestReducer_EventsAfterErrorAreIgnored(t *testing.T) {
	r := newTestReducer()
	turns := pendingTurns()

	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventError, Error: "agent unavailable"})
	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventText, Content: " trailing chunk"})
	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventTool, ToolName: "write_file", Status: chat.ToolStarted})

	asst := turns[1]
	require.Len(t, asst.Steps, 1)
	require.Equal(t, "Error: agent unavailable", asst.Content)
	require.Equal(t, chat.StatusError, asst.Status)
}

func TestReducer_UnknownTurnIsNoOp(t *testing.T) {
	r := newTestReducer()
	turns := pendingTurns()

	next := r.Fold(turns, "no-such-turn", chat.Event{Kind: chat.EventText, Content: "hello"})
	require.Equal(t, turns, next)
}

func TestReducer_UnknownKindIsNoOp(t *testing.T) {
	r := newTestReducer()
	turns := pendingTurns()

	next := r.Fold(turns, "asst-1", chat.Event{Kind: "heartbeat"})
	require.Equal(t, turns, next)
}

func TestReducer_FoldDoesNotMutateInput(t *testing.T) {
	r := newTestReducer()
	turns := pendingTurns()

	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventText, Content: "one"})
	snapshot := turns[1].Steps[0].Content

	_ = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventText, Content: " two"})
	require.Equal(t, snapshot, turns[1].Steps[0].Content)
}

func TestReducer_FinalizeMarksInterrupted(t *testing.T) {
	r := newTestReducer()
	turns := pendingTurns()

	turns = r.Fold(turns, "asst-1", chat.Event{
		Kind:     chat.EventTool,
		ToolName: "write_file",
		Status:   chat.ToolStarted,
	})
	turns = r.Finalize(turns, "asst-1")
	require.Equal(t, chat.StatusInterrupted, turns[1].Status)
}

func TestReducer_FinalizeLeavesCompletedTurnAlone(t *testing.T) {
	r := newTestReducer()
	turns := pendingTurns()

	turns = r.Fold(turns, "asst-1", chat.Event{Kind: chat.EventText, Content: "Done."})
	turns = r.Finalize(turns, "asst-1")
	require.Empty(t, turns[1].Status)
	require.Equal(t, "Done.", turns[1].Content)
}
