// Package vaultwatch observes the vault for file changes made outside the
// bot (desktop Obsidian, sync clients). It only logs: the optimistic
// line check in task completion remains the sole conflict guard, so the
// watcher must never mutate state.
package vaultwatch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch starts an fsnotify watcher on the vault root and logs Markdown file
// events until ctx is cancelled. taskInbox is the vault-relative inbox path;
// out-of-band edits to it get a Warn because cached task lists may be stale.
// New directories created at runtime are added to the watch list;
// dot-prefixed directories (.obsidian, .git) are ignored, matching the task
// scanner's exclusion rule.
func Watch(ctx context.Context, vaultRoot, taskInbox string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, vaultRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", vaultRoot))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories: add to the watch list.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if strings.HasPrefix(filepath.Base(absPath), ".") {
						continue
					}
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					continue
				}
			}

			if !strings.HasSuffix(absPath, ".md") {
				continue
			}
			rel, relErr := filepath.Rel(vaultRoot, absPath)
			if relErr != nil {
				continue
			}

			rel = filepath.ToSlash(rel)

			switch {
			case rel == taskInbox && ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
				logger.Warn("watcher: task inbox edited outside the bot", slog.String("path", rel))
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				logger.Debug("watcher: note changed", slog.String("path", rel), slog.String("op", ev.Op.String()))
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				logger.Info("watcher: note removed", slog.String("path", rel))
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all non-hidden subdirectories to the
// watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		return w.Add(path)
	})
}
