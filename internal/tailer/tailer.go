package tailer

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/atikulmunna/warp/internal/model"
	"github.com/atikulmunna/warp/internal/watcher"
	"github.com/fsnotify/fsnotify"
)

// Tailer reads appended lines from watched build logs and emits RawLine
// values for the processor. Unlike a generic log follower it starts at the
// beginning of each file: a build log only makes sense parsed whole, since
// stream routing and diagnostic continuations depend on every line.
type Tailer struct {
	mu     sync.Mutex
	files  map[string]*trackedFile
	out    chan model.RawLine
	ckpt   *Checkpoint
	events <-chan watcher.Event
	watch  *watcher.Watcher
}

type trackedFile struct {
	path   string
	file   *os.File
	offset int64
}

// New creates a Tailer that reads events from the given Watcher. The
// checkpoint lets a restarted watch session resume where it left off
// instead of re-feeding lines that were already parsed.
func New(w *watcher.Watcher, ckpt *Checkpoint) *Tailer {
	return &Tailer{
		files:  make(map[string]*trackedFile),
		out:    make(chan model.RawLine, 512),
		ckpt:   ckpt,
		events: w.Events,
		watch:  w,
	}
}

// Lines returns the channel where raw log lines are sent.
func (t *Tailer) Lines() <-chan model.RawLine {
	return t.out
}

// Start begins processing watcher events. Blocks until the context is
// cancelled.
func (t *Tailer) Start(ctx context.Context) {
	defer close(t.out)

	// Open the initially watched logs and drain what they already hold.
	for _, p := range t.watch.Paths() {
		t.openFile(p)
		t.readNewLines(p)
	}

	saveTicker := time.NewTicker(5 * time.Second)
	defer saveTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.saveCheckpoint()
			t.closeAll()
			return

		case ev, ok := <-t.events:
			if !ok {
				return
			}
			t.handleEvent(ev)

		case <-saveTicker.C:
			t.saveCheckpoint()
		}
	}
}

func (t *Tailer) handleEvent(ev watcher.Event) {
	switch {
	case ev.Op&fsnotify.Write != 0:
		t.readNewLines(ev.Path)

	case ev.Op&fsnotify.Create != 0:
		// A fresh log appeared, e.g. a new build was started.
		t.openFile(ev.Path)
		t.readNewLines(ev.Path)

	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		// Log replaced or deleted. Close and wait for it to come back.
		t.closeFile(ev.Path)
		go t.reconnect(ev.Path)
	}
}

// openFile opens a log for tailing, resuming from the checkpointed offset
// or the start of the file.
func (t *Tailer) openFile(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.files[path]; exists {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("cannot open %s: %v", path, err)
		return
	}

	var offset int64
	if saved, ok := t.ckpt.Get(path); ok {
		offset = saved
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		log.Printf("cannot seek %s: %v", path, err)
		f.Close()
		return
	}

	t.files[path] = &trackedFile{
		path:   path,
		file:   f,
		offset: offset,
	}
}

// readNewLines reads from the last offset to EOF and emits complete lines.
func (t *Tailer) readNewLines(path string) {
	t.mu.Lock()
	tf, ok := t.files[path]
	if !ok {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	scanner := bufio.NewScanner(tf.file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		t.out <- model.RawLine{Text: scanner.Text(), Source: path}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("read error on %s: %v", path, err)
	}

	pos, _ := tf.file.Seek(0, io.SeekCurrent)
	tf.offset = pos
	t.ckpt.Set(path, pos)
}

func (t *Tailer) closeFile(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tf, ok := t.files[path]; ok {
		tf.file.Close()
		delete(t.files, path)
	}
}

// reconnect polls for a log to reappear after replacement (up to 5
// retries). The checkpoint entry is cleared so the new log is parsed from
// the start.
func (t *Tailer) reconnect(path string) {
	for i := 0; i < 5; i++ {
		time.Sleep(1 * time.Second)
		if _, err := os.Stat(path); err == nil {
			log.Printf("reconnected to replaced log: %s", path)
			t.ckpt.Set(path, 0)
			_ = t.watch.ReWatch(path)
			t.openFile(path)
			t.readNewLines(path)
			return
		}
	}
	log.Printf("gave up reconnecting to %s after 5 retries", path)
}

func (t *Tailer) saveCheckpoint() {
	if err := t.ckpt.Save(); err != nil {
		log.Printf("checkpoint save failed: %v", err)
	}
}

func (t *Tailer) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for path, tf := range t.files {
		tf.file.Close()
		delete(t.files, path)
	}
}
