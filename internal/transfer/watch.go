package transfer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultSettle is how long a new file must stay quiet before it is imported.
const DefaultSettle = 250 * time.Millisecond

// Watcher imports every .json or .csv file created in a directory.
type Watcher struct {
	dir      string
	importer *Importer
	logger   *zap.Logger
	settle   time.Duration
	onResult func(path string, res Result, err error)
}

type WatcherOption func(*Watcher)

func WithSettle(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// WithResultHook is called after each file import.
func WithResultHook(fn func(path string, res Result, err error)) WatcherOption {
	return func(w *Watcher) { w.onResult = fn }
}

func NewWatcher(dir string, im *Importer, opts ...WatcherOption) *Watcher {
	w := &Watcher{dir: dir, importer: im, logger: im.logger, settle: DefaultSettle}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching import directory", zap.String("dir", w.dir))

	pending := make(map[string]time.Time)
	tick := time.NewTicker(w.settle / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !Supported(event.Name) {
				continue
			}
			switch {
			case event.Op&fsnotify.Create != 0:
				pending[event.Name] = time.Now()
			case event.Op&fsnotify.Write != 0:
				if _, ok := pending[event.Name]; ok {
					pending[event.Name] = time.Now()
				}
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		case now := <-tick.C:
			for path, last := range pending {
				if now.Sub(last) < w.settle {
					continue
				}
				delete(pending, path)
				w.importPath(ctx, path)
			}
		}
	}
}

func (w *Watcher) importPath(ctx context.Context, path string) {
	res, err := w.importer.ImportFile(ctx, path)
	if err != nil {
		w.logger.Error("import failed", zap.String("file", filepath.Base(path)), zap.Error(err))
	} else {
		w.logger.Info(Message(res, nil), zap.String("file", filepath.Base(path)))
	}
	if w.onResult != nil {
		w.onResult(path, res, err)
	}
}
