// Package transcript holds the in-process, per-project chat transcript
// cache. Transcripts survive UI navigation within the process lifetime and
// are dropped on explicit clear or process teardown; nothing is persisted.
package transcript

import (
	"sync"

	"github.com/rfournie/appforge/internal/chat"
)

// Store maps project ids to their ordered turn lists. Writes are serialized
// per store with last-writer-wins semantics; turns for different projects
// never share state.
type Store struct {
	mu       sync.RWMutex
	sessions map[string][]chat.Turn
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[string][]chat.Turn)}
}

// Get returns the turn list for a project, oldest first, or an empty list
// for an unknown id. The returned slice is a snapshot safe to retain.
func (s *Store) Get(projectID string) []chat.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[projectID]
	if len(turns) == 0 {
		return nil
	}
	out := make([]chat.Turn, len(turns))
	copy(out, turns)
	return out
}

// Set replaces the turn list for a project.
func (s *Store) Set(projectID string, turns []chat.Turn) {
	snapshot := make([]chat.Turn, len(turns))
	copy(snapshot, turns)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[projectID] = snapshot
}

// Clear empties exactly one project's session.
func (s *Store) Clear(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, projectID)
}

// Reset empties every known session.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string][]chat.Turn)
}
