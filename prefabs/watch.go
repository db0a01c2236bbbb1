package prefabs

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind classifies a changed prefab file.
type ChangeKind uint8

const (
	ChangeSpec ChangeKind = iota + 1
	ChangeScript
)

// Change is a debounced notification that a spec or script file was touched.
type Change struct {
	Path string
	Kind ChangeKind
}

// Watcher reports edits to tuning, scene and script files under a set of roots.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	Events   chan Change
	Errors   chan error
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewWatcher watches every directory below the given roots.
func NewWatcher(debounce time.Duration, roots ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			return w.Add(path)
		})
		if err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	watcher := &Watcher{
		watcher:  w,
		debounce: debounce,
		Events:   make(chan Change, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind, ok := classify(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, seen := last[event.Name]; seen && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- Change{Path: event.Name, Kind: kind}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func classify(path string) (ChangeKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ChangeSpec, true
	case ".tengo":
		return ChangeScript, true
	}
	return 0, false
}
