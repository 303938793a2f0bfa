// Package stream consumes the upstream agent's Server-Sent Events chat wire:
// each frame is a `data: ` line carrying one JSON event, terminated by a
// blank line.
package stream

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rfournie/appforge/internal/chat"
)

// dataPrefix is the fixed frame marker; everything after it on the line is
// the JSON payload.
const dataPrefix = "data: "

// Decoder turns a raw byte stream into a sequence of chat events. Partial
// frames at a read boundary are buffered until the remainder arrives.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder creates a decoder over r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next returns the next decoded event, skipping blank delimiter lines,
// comment/heartbeat lines, and frames with an unknown event type. It returns
// io.EOF once the stream is exhausted; it never synthesizes a terminal
// event. A frame whose payload is not valid JSON decodes to an error-kind
// event so the failure stays visible instead of silently truncating the
// transcript.
func (d *Decoder) Next() (chat.Event, error) {
	for {
		line, err := d.r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")

		if ev, ok := d.decodeLine(line); ok {
			return ev, nil
		}
		if err != nil {
			if err == io.EOF {
				return chat.Event{}, io.EOF
			}
			return chat.Event{}, fmt.Errorf("reading stream: %w", err)
		}
	}
}

func (d *Decoder) decodeLine(line string) (chat.Event, bool) {
	if !strings.HasPrefix(line, dataPrefix) {
		return chat.Event{}, false
	}

	payload := line[len(dataPrefix):]
	var ev chat.Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return chat.Event{
			Kind:  chat.EventError,
			Error: fmt.Sprintf("malformed frame: %v", err),
		}, true
	}

	if !ev.Kind.Valid() {
		// Unknown kinds are allowed on the wire for forward compatibility.
		return chat.Event{}, false
	}
	return ev, true
}
