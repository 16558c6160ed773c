package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/controllers/entities"
	"github.com/plotnest/syndicate/controllers/helpers"
	"github.com/plotnest/syndicate/types"
	"github.com/plotnest/syndicate/workers"
)

func GetTimestamp(c *fiber.Ctx) error {
	return c.Status(200).JSON(time.Now().Unix())
}

// GetSnapshot serves the allocation state of one asset. Reads go
// through the Redis cache kept warm by the snapshot cache worker; a
// miss falls back to the live book.
func GetSnapshot(c *fiber.Ctx) error {
	assetID, err := strconv.ParseInt(c.Params("asset_id"), 10, 64)
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"allocation.asset.invalid_id"},
		})
	}

	book, err := AllocationEngine.Book(assetID)
	if err != nil {
		status, code := helpers.ErrorCode(err)
		return c.Status(status).JSON(helpers.Errors{Errors: []string{code}})
	}

	var cached []entities.ShareEntity
	if err := config.Redis.GetKey(workers.SnapshotCacheKey(assetID), &cached); err == nil && len(cached) > 0 {
		snapshot := &entities.SnapshotEntity{
			AssetID:     assetID,
			TotalShares: book.TotalShares,
			Shares:      cached,
		}
		for _, share := range cached {
			if share.State != types.ShareStateAvailable {
				snapshot.SlotsFilled++
			}
		}
		return c.Status(200).JSON(snapshot)
	}

	return c.Status(200).JSON(entities.SnapshotEntityFromBook(book))
}
