package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeworks/scaffoldkit/env"
)

func TestRunner_Watch(t *testing.T) {
	r := writeTemplates(t, map[string]string{
		"app.tmpl": "v1 {{NAME}}",
	}, env.Environment{
		Vars:  map[string]string{"NAME": "demo"},
		Conds: map[string]bool{},
	})
	r.WatchDebounce = 50 * time.Millisecond

	m := &Manifest{Templates: []Mapping{{Source: "app.tmpl", Target: "app.txt"}}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rendered := make(chan error, 4)
	done := make(chan error, 1)
	go func() {
		done <- r.Watch(ctx, m, func(_ Mapping, err error) {
			rendered <- err
		})
	}()

	// Give the watcher a moment to register, then touch the template.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(r.TemplateDir, "app.tmpl"), []byte("v2 {{NAME}}"), 0o644))

	select {
	case err := <-rendered:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("no render notification before timeout")
	}

	assert.Equal(t, "v2 demo\n", readOutput(t, r, "app.txt"))

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

// A truncate-then-write sequence must produce one render of the settled
// content, never a render of the empty mid-write state.
func TestRunner_Watch_DebouncesWriteBursts(t *testing.T) {
	r := writeTemplates(t, map[string]string{
		"app.tmpl": "v1 {{NAME}}",
	}, env.Environment{
		Vars:  map[string]string{"NAME": "demo"},
		Conds: map[string]bool{},
	})
	r.WatchDebounce = 150 * time.Millisecond

	m := &Manifest{Templates: []Mapping{{Source: "app.tmpl", Target: "app.txt"}}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rendered := make(chan error, 8)
	go r.Watch(ctx, m, func(_ Mapping, err error) {
		rendered <- err
	})

	time.Sleep(200 * time.Millisecond)

	// Truncate first, then write the new content a moment later, the way
	// editors and os.WriteFile hit the watcher as separate events.
	path := filepath.Join(r.TemplateDir, "app.tmpl")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)
	_, err = f.WriteString("v2 {{NAME}}")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	select {
	case err := <-rendered:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("no render notification before timeout")
	}

	assert.Equal(t, "v2 demo\n", readOutput(t, r, "app.txt"),
		"render must see the settled content, not the truncated file")

	// The burst coalesced: no second render follows.
	select {
	case err := <-rendered:
		t.Fatalf("unexpected extra render notification (err=%v)", err)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestRunner_Watch_IgnoresUnmappedFiles(t *testing.T) {
	r := writeTemplates(t, map[string]string{
		"app.tmpl": "{{NAME}}",
	}, env.Environment{
		Vars:  map[string]string{"NAME": "demo"},
		Conds: map[string]bool{},
	})
	r.WatchDebounce = 20 * time.Millisecond

	m := &Manifest{Templates: []Mapping{{Source: "app.tmpl", Target: "app.txt"}}}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	notified := make(chan struct{}, 1)
	go r.Watch(ctx, m, func(_ Mapping, _ error) {
		select {
		case notified <- struct{}{}:
		default:
		}
	})

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(r.TemplateDir, "unrelated.txt"), []byte("x"), 0o644))

	select {
	case <-notified:
		t.Fatal("unmapped file triggered a render")
	case <-ctx.Done():
	}
}
