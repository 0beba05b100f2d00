package notify

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Follower tails a JSONL stream file, delivering complete lines appended
// after Start. It watches the file's directory so it also catches the file
// being created or truncated-and-recreated after open.
type Follower struct {
	Path  string
	Lines <-chan string // read-only external channel

	lines   chan string
	done    chan struct{}
	watcher *fsnotify.Watcher
	offset  int64
	partial []byte
}

// NewFollower creates a follower for the stream file at path.
func NewFollower(path string) (*Follower, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("notify: follower watcher: %w", err)
	}
	ch := make(chan string, 64)
	return &Follower{
		Path:    path,
		Lines:   ch,
		lines:   ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins following. Content already in the file is skipped; only
// lines appended afterwards are delivered.
func (f *Follower) Start() error {
	if info, err := os.Stat(f.Path); err == nil {
		f.offset = info.Size()
	}
	if err := f.watcher.Add(filepath.Dir(f.Path)); err != nil {
		return fmt.Errorf("notify: follower watch %s: %w", filepath.Dir(f.Path), err)
	}
	go f.loop()
	return nil
}

// Stop closes the watcher and the Lines channel.
func (f *Follower) Stop() {
	f.watcher.Close()
	<-f.done
	close(f.lines)
}

func (f *Follower) loop() {
	defer close(f.done)
	for {
		select {
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if event.Name != f.Path {
				continue
			}
			if event.Has(fsnotify.Create) {
				// Recreated file: start over from the top.
				f.offset = 0
				f.partial = nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				f.readNew()
			}
		case _, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

// readNew reads everything past the current offset and emits complete
// lines. A trailing partial line is carried until the next write.
func (f *Follower) readNew() {
	file, err := os.Open(f.Path)
	if err != nil {
		return
	}
	defer file.Close()

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return
	}
	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		return
	}
	f.offset += int64(len(data))

	buf := append(f.partial, data...)
	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			break
		}
		line := string(buf[:i])
		buf = buf[i+1:]
		if line != "" {
			f.lines <- line
		}
	}
	f.partial = append([]byte(nil), buf...)
}
