package notify

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pottingshed/verdant/internal/garden"
)

func TestNewStream_CreatesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "events.jsonl")

	s, err := NewStream(path)
	if err != nil {
		t.Fatalf("NewStream(%q): %v", path, err)
	}
	defer s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist at %q: %v", path, err)
	}
}

func TestNewStream_ErrorOnBadPath(t *testing.T) {
	t.Parallel()
	_, err := NewStream("/nonexistent/dir/events.jsonl")
	if err == nil {
		t.Fatal("expected error for bad path, got nil")
	}
}

func TestStream_WritesValidJSONL(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "events.jsonl")

	s, err := NewStream(path)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}

	notifications := []Notification{
		{
			At:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Dest: garden.DestSingle,
			Events: []garden.Event{
				{ObjectID: "1", SlotID: "Main-1", Category: "Main", Action: garden.ActionAdd},
			},
		},
		{
			At:   time.Date(2025, 6, 1, 12, 0, 5, 0, time.UTC),
			Dest: garden.DestBatch,
			Events: []garden.Event{
				{ObjectID: "1", SlotID: "Main-1", Category: "Main", Action: garden.ActionRemove, Reason: garden.ReasonCleared},
				{ObjectID: "2", SlotID: "Main-3", Category: "Main", Action: garden.ActionAdd},
			},
		},
	}
	for _, n := range notifications {
		if err := s.Publish(context.Background(), n); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening stream file: %v", err)
	}
	defer f.Close()

	var got []Notification
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var n Notification
		if err := json.Unmarshal(scanner.Bytes(), &n); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		got = append(got, n)
	}
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if got[0].Dest != garden.DestSingle || got[1].Dest != garden.DestBatch {
		t.Errorf("dests = %s, %s; want single, batch", got[0].Dest, got[1].Dest)
	}
	if got[1].Events[0].Reason != garden.ReasonCleared {
		t.Errorf("reason = %s, want cleared", got[1].Events[0].Reason)
	}
}

func TestStream_NilIsNoOp(t *testing.T) {
	t.Parallel()
	var s *Stream
	if err := s.Publish(context.Background(), Notification{}); err != nil {
		t.Errorf("nil stream Publish: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("nil stream Close: %v", err)
	}
}
