package main

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	tea "github.com/charmbracelet/bubbletea"
)

type configChangedMsg struct{}

// watchConfig blocks until the config file is written, then emits a
// configChangedMsg. The Update loop re-arms it after each reload, so
// editing threads.toml while the app runs picks up new slash commands.
// Watching the directory rather than the file survives editors that
// replace the file on save.
func watchConfig(path string) tea.Cmd {
	return func() tea.Msg {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil
		}
		defer watcher.Close()

		dir := filepath.Dir(path)
		if err := watcher.Add(dir); err != nil {
			return nil
		}

		target := filepath.Clean(path)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				// Editors often fire a burst of events per save.
				time.Sleep(150 * time.Millisecond)
				drainEvents(watcher)
				return configChangedMsg{}
			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func drainEvents(watcher *fsnotify.Watcher) {
	for {
		select {
		case <-watcher.Events:
		default:
			return
		}
	}
}
