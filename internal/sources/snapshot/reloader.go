package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/booksyhq/booksy/internal/domain"
	"github.com/booksyhq/booksy/internal/logger"
	syncer "github.com/booksyhq/booksy/internal/sync"
)

// Reloader re-syncs the snapshot file into its scope on an interval,
// plus on demand through the manual trigger channel.
type Reloader struct {
	loader        *Loader
	mapper        *Mapper
	reconciler    *syncer.Reconciler
	scope         domain.Scope
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewReloader creates a reloader for one snapshot file and scope.
func NewReloader(
	snapshotFile string,
	reconciler *syncer.Reconciler,
	scope domain.Scope,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *Reloader {
	return &Reloader{
		loader:        NewLoader(snapshotFile),
		mapper:        NewMapper(),
		reconciler:    reconciler,
		scope:         scope,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start syncs once immediately, then keeps re-syncing periodically.
func (r *Reloader) Start(ctx context.Context) error {
	if err := r.Reload(ctx); err != nil {
		return fmt.Errorf("initial snapshot sync failed: %w", err)
	}

	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := r.Reload(ctx); err != nil {
					r.logger.Error("failed to re-sync snapshot", logger.Error(err))
				}
			case <-r.manualTrigger:
				r.logger.Info("manual snapshot sync triggered")
				if err := r.Reload(ctx); err != nil {
					r.logger.Error("failed to re-sync snapshot", logger.Error(err))
				}
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader.
func (r *Reloader) Stop() {
	close(r.stopCh)
}

// Reload loads the file, maps it and runs one reconciliation.
func (r *Reloader) Reload(ctx context.Context) error {
	r.logger.Info("syncing snapshot file")

	file, err := r.loader.Load()
	if err != nil {
		return err
	}

	items, err := r.mapper.Map(file)
	if err != nil {
		return err
	}

	res, err := r.reconciler.Reconcile(ctx, r.scope, items)
	if err != nil {
		return fmt.Errorf("snapshot reconciliation failed: %w", err)
	}

	r.logger.Info("snapshot synced",
		logger.Int("created", res.Created),
		logger.Int("updated", res.Updated),
		logger.Int("deleted", res.Deleted))
	return nil
}
