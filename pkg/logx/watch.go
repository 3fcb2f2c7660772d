package logx

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchFile reopens the log file when it is removed or renamed underneath us
// (logrotate, manual cleanup). It blocks until ctx is done.
//
// A non-nil error means the watcher itself broke; callers run this under a
// restart loop.
func (s *Service) WatchFile(ctx context.Context) error {
	path := s.FilePath()
	if path == "" {
		<-ctx.Done()
		return nil
	}
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}

	// debounce: rotation is usually rename + create in quick succession.
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return errors.New("log watcher events closed")
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(200*time.Millisecond, s.reopen)
		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("log watcher errors closed")
			}
			if err != nil {
				return err
			}
		}
	}
}
