package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Stream writes notifications to a JSONL file, one notification per line.
// It is safe for concurrent use. A nil *Stream is a valid no-op sink.
type Stream struct {
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
}

// NewStream opens (or creates) the JSONL file at path in append mode.
func NewStream(path string) (*Stream, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("notify: open stream %s: %w", path, err)
	}
	return &Stream{file: f, enc: json.NewEncoder(f)}, nil
}

// Publish appends the notification as one JSON line.
func (s *Stream) Publish(_ context.Context, n Notification) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(n); err != nil {
		return fmt.Errorf("notify: encode notification: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (s *Stream) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("notify: close stream: %w", err)
	}
	return nil
}
