package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher keeps the latest valid config of one file. Editors often replace
// the file instead of writing it, so the directory is watched.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(Config, error)

	mu      sync.RWMutex
	current Config

	done chan struct{}
	once sync.Once
}

// Watch loads path and reloads it on every change. onChange, if set, is
// called from the watcher goroutine after each reload attempt; on error
// the previous config stays current.
func Watch(path string, onChange func(Config, error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Load(abs)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: cannot watch %s: %w", abs, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("config: cannot watch %s: %w", abs, err)
	}

	w := &Watcher{
		path:     abs,
		watcher:  fw,
		onChange: onChange,
		current:  cfg,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.onChange != nil {
				w.onChange(w.Current(), fmt.Errorf("config: watch %s: %w", w.path, err))
			}
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err == nil {
		var cfg Config
		cfg, err = Parse(data)
		if err == nil {
			w.mu.Lock()
			w.current = cfg
			w.mu.Unlock()
		}
	}
	if err != nil {
		err = fmt.Errorf("config: reload %s: %w", w.path, err)
	}
	if w.onChange != nil {
		w.onChange(w.Current(), err)
	}
}

// Current returns the latest valid config.
func (w *Watcher) Current() Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Close stops watching. It waits for the watcher goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.watcher.Close()
		<-w.done
	})
	return err
}
