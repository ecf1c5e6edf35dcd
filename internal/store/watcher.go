package store

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches the state file and signals when another writer replaces it.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	filePath string
	changes  chan struct{}
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewFileWatcher creates a watcher for filePath.
func NewFileWatcher(filePath string, logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		watcher:  watcher,
		logger:   logger,
		filePath: filePath,
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

// Changes returns a channel that receives a value after the file changes.
// Bursts of events are coalesced into one.
func (fw *FileWatcher) Changes() <-chan struct{} {
	return fw.changes
}

// Start begins watching the file for changes.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.running {
		return nil
	}

	// Watch the directory: atomic renames replace the file's inode
	dir := filepath.Dir(fw.filePath)
	if err := fw.watcher.Add(dir); err != nil {
		return err
	}

	fw.running = true
	go fw.watch()
	return nil
}

// watch is the main watch loop.
func (fw *FileWatcher) watch() {
	filename := filepath.Base(fw.filePath)

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.logger.Debug("state file changed", "file", fw.filePath, "op", event.Op.String())
				select {
				case fw.changes <- struct{}{}:
				default:
					// Change already pending
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("file watcher error", "error", err)

		case <-fw.done:
			return
		}
	}
}

// Stop stops the file watcher.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.running {
		return fw.watcher.Close()
	}

	fw.running = false
	close(fw.done)
	return fw.watcher.Close()
}
