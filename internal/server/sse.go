package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// eventStream emits Server-Sent Events for the streaming run endpoint.
// Payloads are JSON-encoded into the data field and flushed per event so
// progress reaches the console while the run is still going.
type eventStream struct {
	w http.ResponseWriter
	f http.Flusher
}

func newEventStream(w http.ResponseWriter) (*eventStream, error) {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not support streaming")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")

	return &eventStream{w: w, f: f}, nil
}

// send writes one named event. Write errors usually mean the client went
// away; callers on the streaming path ignore them and let the run finish.
func (s *eventStream) send(name string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, body); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}

func (s *eventStream) fail(message string) {
	s.send("error", map[string]string{"error": message}) //nolint:errcheck
}

func (s *eventStream) done(status string) {
	s.send("complete", map[string]string{"status": status}) //nolint:errcheck
}
