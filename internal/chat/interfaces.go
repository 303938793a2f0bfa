package chat

import "context"

// Opener opens one streaming assistant turn against the upstream agent.
// The returned stream must honor cancellation of ctx mid-stream.
type Opener interface {
	Open(ctx context.Context, projectID, message string) (EventStream, error)
}

// EventStream yields decoded events in arrival order. Next returns io.EOF
// once the upstream closes the stream; no terminal event is synthesized.
type EventStream interface {
	Next() (Event, error)
	Close() error
}

// TranscriptStore is the per-project turn cache.
type TranscriptStore interface {
	Get(projectID string) []Turn
	Set(projectID string, turns []Turn)
	Clear(projectID string)
	Reset()
}

// ProjectResolver reports whether a project id is registered.
type ProjectResolver interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// PreviewRefresher receives the debounced notification that generated files
// changed and the running preview should reload.
type PreviewRefresher interface {
	RefreshPreview()
}

// Reporter surfaces unrecoverable failures to the user outside the
// transcript (the UI renders these as toasts).
type Reporter interface {
	Report(message string)
}
