package layout_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandrolain/bindtree/pkg/layout"
	"github.com/sandrolain/bindtree/pkg/value"
)

type reload struct {
	layout value.Layout
	err    error
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.yaml")
	if err := os.WriteFile(path, []byte("type: first"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	reloads := make(chan reload, 16)
	done := make(chan error, 1)
	go func() {
		done <- layout.Watch(ctx, path, ev, func(l value.Layout, err error) {
			reloads <- reload{l, err}
		}, layout.WithDebounce(10*time.Millisecond), layout.WithLogger(quiet))
	}()

	// The watcher may not be registered yet.
	waitReload(t, reloads, func() {
		if err := os.WriteFile(path, []byte("type: second"), 0o600); err != nil {
			t.Fatal(err)
		}
	}, func(r reload) bool {
		return r.err == nil && r.layout.Type == "second"
	})

	drain(reloads)
	waitReload(t, reloads, func() {
		if err := os.WriteFile(path, []byte("title: no type"), 0o600); err != nil {
			t.Fatal(err)
		}
	}, func(r reload) bool {
		return r.err != nil
	})

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.yaml")
	if err := os.WriteFile(path, []byte("type: first"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloads := make(chan reload, 16)
	go func() {
		_ = layout.Watch(ctx, path, ev, func(l value.Layout, err error) {
			reloads <- reload{l, err}
		}, layout.WithDebounce(10*time.Millisecond), layout.WithLogger(quiet))
	}()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("type: x"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case r := <-reloads:
		t.Errorf("unexpected reload for another file: %v", r.layout.Type)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "layout.yaml")
	if err := layout.Watch(context.Background(), path, ev, func(value.Layout, error) {}, layout.WithLogger(quiet)); err == nil {
		t.Error("watching a missing directory should fail")
	}
}

// waitReload calls write until a reload satisfying accept arrives.
func waitReload(t *testing.T, reloads <-chan reload, write func(), accept func(reload) bool) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	write()
	for {
		select {
		case r := <-reloads:
			if accept(r) {
				return
			}
		case <-tick.C:
			write()
		case <-deadline:
			t.Fatal("no matching reload within 5s")
		}
	}
}

func drain(reloads <-chan reload) {
	time.Sleep(50 * time.Millisecond)
	for {
		select {
		case <-reloads:
		default:
			return
		}
	}
}
