package workers

import (
	"fmt"

	"github.com/plotnest/syndicate/allocation"
	"github.com/plotnest/syndicate/config"
)

func SnapshotCacheKey(assetID int64) string {
	return fmt.Sprintf("allocation:snapshot:%d", assetID)
}

// SnapshotCacheWorker keeps the public snapshot endpoint's Redis cache
// in step with the allocation engine. Subscribed to the engine's event
// stream; failures only log, the engine state is the source of truth.
type SnapshotCacheWorker struct {
	Engine *allocation.Engine
}

func (w *SnapshotCacheWorker) Handle(event allocation.Event) {
	book, err := w.Engine.Book(event.AssetID)
	if err != nil {
		return
	}

	if err := config.Redis.SetKey(SnapshotCacheKey(event.AssetID), book.Snapshot(), 0); err != nil {
		config.Logger.Errorf("snapshot_cache: failed to refresh asset %d: %v", event.AssetID, err.Error())
	}
}
