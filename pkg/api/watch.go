package api

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/kubescenarios/kubescenarios/pkg/catalog"
	"github.com/kubescenarios/kubescenarios/pkg/defaults"
)

// reloadOps are the filesystem operations that can change catalog content.
// Chmod is deliberately absent.
const reloadOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// watchCatalog watches dir and reloads the handler when scenario documents
// or the registry change. Event bursts are debounced so one save triggers
// one reload; a failed reload keeps the last good catalog serving. The
// watch stops when ctx is canceled.
func watchCatalog(ctx context.Context, h *Handler, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()

		debounce := time.NewTimer(defaults.CatalogReloadDebounce)
		if !debounce.Stop() {
			<-debounce.C
		}

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !relevantEvent(event) {
					continue
				}
				slog.Debug("catalog change detected",
					"file", event.Name,
					"op", event.Op.String())
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(defaults.CatalogReloadDebounce)

			case <-debounce.C:
				reloadCatalog(ctx, h, dir)

			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("catalog watcher error", "error", watchErr)

			case <-ctx.Done():
				return
			}
		}
	}()

	slog.Info("watching catalog data directory", "dir", dir)
	return nil
}

// relevantEvent filters the event stream down to document and registry
// changes. Chmod-only events and editor artifacts like swap files are
// ignored.
func relevantEvent(event fsnotify.Event) bool {
	if event.Op&reloadOps == 0 {
		return false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".md", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// reloadCatalog layers a fresh provider over dir and swaps the handler to
// it. The provider must be rebuilt per reload; merged registries are
// cached per provider instance.
func reloadCatalog(ctx context.Context, h *Handler, dir string) {
	loadCtx, cancel := context.WithTimeout(ctx, defaults.CatalogLoadTimeout)
	defer cancel()

	provider, err := catalog.NewDefaultLayeredProvider(dir)
	if err != nil {
		catalogReloads.WithLabelValues("error").Inc()
		slog.Error("catalog reload failed, keeping previous catalog", "dir", dir, "error", err)
		return
	}

	if err := h.Reload(loadCtx, provider); err != nil {
		catalogReloads.WithLabelValues("error").Inc()
		slog.Error("catalog reload failed, keeping previous catalog", "dir", dir, "error", err)
		return
	}
	catalogReloads.WithLabelValues("ok").Inc()

	cat, _ := h.snapshot()
	slog.Info("catalog reloaded", "dir", dir, "scenarios", cat.Len())
}
