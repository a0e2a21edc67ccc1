package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"tb-go/internal/tb"
)

// WatchOutline feeds every change of the file at path into an AutoSaver for
// the project until ctx is cancelled. The file's directory is watched rather
// than the file itself so that editors which save by rename are followed.
// An edit still inside its quiet period when WatchOutline returns is dropped.
func (a *TBApp) WatchOutline(ctx context.Context, id, path string, onSave func(tb.Project, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	saver, err := a.NewAutoSaver(id)
	if err != nil {
		return err
	}
	defer saver.Close()
	saver.OnSave(onSave)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	// The current contents count as the first edit.
	if data, err := os.ReadFile(abs); err == nil {
		saver.Edit(string(data))
	}

	a.logger.Info("watching outline", "id", id, "path", abs)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			data, err := os.ReadFile(abs)
			if err != nil {
				a.logger.Warn("reading outline", "path", abs, "error", err)
				continue
			}
			saver.Edit(string(data))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watcher error", "path", abs, "error", err)
		}
	}
}
