package project

import "time"

// Project identifies one sandboxed application workspace. The chat core
// validates every send against this registry before opening a stream.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
