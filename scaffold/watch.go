package scaffold

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is how long Watch waits after the last write event
// before re-rendering, when Runner.WatchDebounce is zero.
const DefaultWatchDebounce = 100 * time.Millisecond

// ErrWatcher marks failures of the filesystem watcher itself, as opposed to
// failures rendering a mapping. Notifications carrying it have a zero
// Mapping; such errors are usually transient and watching continues.
var ErrWatcher = errors.New("filesystem watcher")

// WatchFunc is called after every re-render attempt in watch mode, with the
// mapping that changed and the render outcome. Watcher-level errors are
// delivered with a zero Mapping and an error wrapping ErrWatcher.
type WatchFunc func(m Mapping, err error)

// Watch re-renders manifest entries as their template sources change,
// until the context is cancelled. Directories are watched rather than
// individual files, which survives the delete-and-rename write strategy of
// most editors. Events are debounced: editors and os.WriteFile emit
// truncate-then-write pairs, and rendering on the first event of a pair
// would capture a half-written template, so a render happens only once a
// source has been quiet for the debounce interval. Gated-off mappings are
// ignored; gate errors surface through notify on the first settled write to
// the affected source.
func (r *Runner) Watch(ctx context.Context, m *Manifest, notify WatchFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	runner := r.withOverrides(m.Vars)

	debounce := r.WatchDebounce
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	// Index mappings by the cleaned absolute path of their source, and
	// watch each distinct parent directory.
	bySource := make(map[string][]Mapping, len(m.Templates))
	dirs := make(map[string]bool)
	for _, mapping := range m.Templates {
		abs := filepath.Clean(filepath.Join(r.TemplateDir, mapping.Source))
		bySource[abs] = append(bySource[abs], mapping)
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	// pending collects sources touched since the last render; the timer is
	// re-armed on every event so a burst coalesces into one render per
	// source once the burst settles.
	pending := make(map[string]bool)
	var timer *time.Timer
	var settled <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(event.Name)
			if _, tracked := bySource[name]; !tracked {
				continue
			}
			pending[name] = true
			if timer == nil {
				timer = time.NewTimer(debounce)
				settled = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}

		case <-settled:
			timer = nil
			settled = nil
			for _, name := range sortedSources(pending) {
				for _, mapping := range bySource[name] {
					on, err := runner.gate(mapping)
					if err == nil && !on {
						continue
					}
					if err == nil {
						err = runner.RenderFile(mapping.Source, mapping.Target)
					}
					if notify != nil {
						notify(mapping, err)
					}
				}
			}
			pending = make(map[string]bool)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watch errors are usually transient; report and keep going.
			if notify != nil {
				notify(Mapping{}, fmt.Errorf("%w: %v", ErrWatcher, err))
			}
		}
	}
}

// sortedSources returns the pending source paths in stable order.
func sortedSources(pending map[string]bool) []string {
	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
