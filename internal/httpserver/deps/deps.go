package deps

import (
	"time"

	"github.com/booksyhq/booksy/internal/bookmarks"
	"github.com/booksyhq/booksy/internal/logger"
	"github.com/booksyhq/booksy/internal/profiles"
	"github.com/booksyhq/booksy/internal/store"
	syncer "github.com/booksyhq/booksy/internal/sync"
)

// Deps is the shared dependency bag handed to every route registrar.
type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	Users      store.UserStore
	Bookmarks  *bookmarks.Service
	Profiles   *profiles.Service
	Reconciler *syncer.Reconciler

	// SnapshotTrigger requests a manual re-sync of the snapshot seed
	// file. Nil when no snapshot file is configured.
	SnapshotTrigger chan struct{}
}
