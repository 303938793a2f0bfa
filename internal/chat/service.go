package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rfournie/appforge/internal/notify"
)

// DefaultRefreshDelay is the quiet period before a preview refresh fires.
const DefaultRefreshDelay = 500 * time.Millisecond

// fileMutatingPrefixes is the fixed set of tool name prefixes that change
// project files and therefore warrant a preview refresh.
var fileMutatingPrefixes = []string{"write", "edit", "delete", "reapply", "run-command"}

// Config collects the collaborators of the chat service.
type Config struct {
	Projects     ProjectResolver
	Store        TranscriptStore
	Opener       Opener
	Preview      PreviewRefresher
	Reporter     Reporter
	Logger       *slog.Logger
	RefreshDelay time.Duration
}

// Service orchestrates one request/response cycle per Send call: it appends
// the user turn, opens the upstream stream, folds every decoded event into
// the placeholder assistant turn, and fires the preview refresh when a
// file-mutating tool completes. At most one stream is in flight per project.
type Service struct {
	projects ProjectResolver
	store    TranscriptStore
	opener   Opener
	preview  PreviewRefresher
	reporter Reporter
	reducer  *Reducer
	logger   *slog.Logger

	refreshDelay time.Duration

	mu        sync.Mutex
	active    map[string]*streamHandle
	debounced map[string]*notify.Debouncer
}

type streamHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a chat service.
func NewService(cfg Config) *Service {
	if cfg.RefreshDelay <= 0 {
		cfg.RefreshDelay = DefaultRefreshDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{
		projects:     cfg.Projects,
		store:        cfg.Store,
		opener:       cfg.Opener,
		preview:      cfg.Preview,
		reporter:     cfg.Reporter,
		reducer:      NewReducer(nil, nil),
		logger:       cfg.Logger,
		refreshDelay: cfg.RefreshDelay,
		active:       make(map[string]*streamHandle),
		debounced:    make(map[string]*notify.Debouncer),
	}
}

// Send runs one assistant turn for the project and blocks until the stream
// completes, fails, or is cancelled by a newer Send or a session clear.
// Transport failures after the turn starts are recovered into a terminal
// error message on the assistant turn; they are not returned.
func (s *Service) Send(ctx context.Context, projectID, message string) error {
	if strings.TrimSpace(projectID) == "" || strings.TrimSpace(message) == "" {
		return ErrInvalidInput
	}

	known, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return fmt.Errorf("resolving project: %w", err)
	}
	if !known {
		return ErrUnknownProject
	}

	streamCtx, handle := s.takeOver(ctx, projectID)
	defer s.release(projectID, handle)

	now := time.Now()
	userTurn := NewUserTurn(uuid.NewString(), message, now)
	assistant := NewPendingAssistantTurn(uuid.NewString(), now)
	s.store.Set(projectID, append(s.store.Get(projectID), userTurn, assistant))

	stream, err := s.opener.Open(streamCtx, projectID, message)
	if err != nil {
		if streamCtx.Err() != nil {
			// Superseded before the stream opened; not a failure.
			return nil
		}
		s.failTurn(projectID, assistant.ID, err)
		return nil
	}
	defer stream.Close()

	s.consume(streamCtx, projectID, assistant.ID, stream)
	return nil
}

// Turns returns the current transcript for a project, oldest first.
func (s *Service) Turns(projectID string) []Turn {
	return s.store.Get(projectID)
}

// ClearSession cancels any in-flight stream for the project and empties its
// transcript slot. Called when the UI switches projects.
func (s *Service) ClearSession(projectID string) {
	s.cancelActive(projectID)

	s.mu.Lock()
	if d := s.debounced[projectID]; d != nil {
		d.Stop()
		delete(s.debounced, projectID)
	}
	s.mu.Unlock()

	s.store.Clear(projectID)
}

// Reset cancels every in-flight stream and empties all sessions.
func (s *Service) Reset() {
	s.mu.Lock()
	handles := make([]*streamHandle, 0, len(s.active))
	for _, h := range s.active {
		handles = append(handles, h)
	}
	for _, d := range s.debounced {
		d.Stop()
	}
	s.debounced = make(map[string]*notify.Debouncer)
	s.mu.Unlock()

	for _, h := range handles {
		h.cancel()
		<-h.done
	}
	s.store.Reset()
}

// takeOver cancels any stream already in flight for the project and waits
// for its consumer loop to stop before handing out the new stream context,
// so two streams never write into the same project concurrently.
func (s *Service) takeOver(ctx context.Context, projectID string) (context.Context, *streamHandle) {
	streamCtx, cancel := context.WithCancel(ctx)
	handle := &streamHandle{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	prev := s.active[projectID]
	s.active[projectID] = handle
	s.mu.Unlock()

	if prev != nil {
		prev.cancel()
		<-prev.done
	}

	return streamCtx, handle
}

func (s *Service) release(projectID string, handle *streamHandle) {
	s.mu.Lock()
	if s.active[projectID] == handle {
		delete(s.active, projectID)
	}
	s.mu.Unlock()

	handle.cancel()
	close(handle.done)
}

func (s *Service) cancelActive(projectID string) {
	s.mu.Lock()
	handle := s.active[projectID]
	s.mu.Unlock()

	if handle != nil {
		handle.cancel()
		<-handle.done
	}
}

// consume applies decoded events one at a time, in arrival order. The loop
// stops between any two events once the stream context is cancelled; events
// arriving after cancellation are never applied.
func (s *Service) consume(ctx context.Context, projectID, turnID string, stream EventStream) {
	for {
		ev, err := stream.Next()
		if err != nil {
			if ctx.Err() != nil {
				// Cancellation is not an error; the superseded stream
				// produces no terminal turn.
				return
			}
			if errors.Is(err, io.EOF) {
				s.finish(projectID, turnID)
				return
			}
			s.failTurn(projectID, turnID, err)
			return
		}

		if ctx.Err() != nil {
			return
		}
		s.apply(projectID, turnID, ev)
	}
}

func (s *Service) apply(projectID, turnID string, ev Event) {
	if !ev.Kind.Valid() {
		s.logger.Warn("dropping event with unknown kind",
			"kind", string(ev.Kind), "project_id", projectID)
		return
	}

	turns := s.reducer.Fold(s.store.Get(projectID), turnID, ev)
	s.store.Set(projectID, turns)

	if ev.Kind == EventTool && (ev.Status == ToolCompleted || ev.Status == ToolFailed) && mutatesFiles(ev.ToolName) {
		s.scheduleRefresh(projectID)
	}
}

// finish marks the turn interrupted if the upstream closed it without a
// terminal text or error event.
func (s *Service) finish(projectID, turnID string) {
	turns := s.reducer.Finalize(s.store.Get(projectID), turnID)
	s.store.Set(projectID, turns)
}

func (s *Service) failTurn(projectID, turnID string, cause error) {
	s.logger.Error("chat stream failed", "project_id", projectID, "error", cause)

	turns := s.reducer.Fold(s.store.Get(projectID), turnID, Event{
		Kind:  EventError,
		Error: cause.Error(),
	})
	s.store.Set(projectID, turns)
	s.reporter.Report(cause.Error())
}

func (s *Service) scheduleRefresh(projectID string) {
	s.mu.Lock()
	d, ok := s.debounced[projectID]
	if !ok {
		d = notify.NewDebouncer(s.refreshDelay)
		s.debounced[projectID] = d
	}
	s.mu.Unlock()

	d.Trigger(s.preview.RefreshPreview)
}

// mutatesFiles reports whether a tool name belongs to the fixed set of
// file-mutating tools. Agent versions vary in separator style
// ("write_file", "write-to-file"), so matching is by normalized prefix.
func mutatesFiles(name string) bool {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for _, prefix := range fileMutatingPrefixes {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}
