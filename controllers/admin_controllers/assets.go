package admin_controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/plotnest/syndicate/allocation"
	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/controllers"
	"github.com/plotnest/syndicate/controllers/entities"
	"github.com/plotnest/syndicate/controllers/helpers"
	"github.com/plotnest/syndicate/models"
)

type AssetPayload struct {
	Name        string          `json:"name" validate:"required"`
	Location    string          `json:"location"`
	TotalShares int             `json:"total_shares" validate:"required|min:1"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

func ValidateAssetPayload(payload *AssetPayload) *helpers.Errors {
	e := new(helpers.Errors)

	helpers.Vaildate(payload, e)

	if !payload.TotalPrice.IsPositive() {
		e.Errors = append(e.Errors, "Total Price must be positive")
	}

	if len(e.Errors) > 0 {
		return e
	}

	return nil
}

func GetAssetList(c *fiber.Ctx) error {
	var assets []*models.Asset

	config.DataBase.Find(&assets)

	asset_entities := make([]*entities.AssetEntity, 0)
	for _, asset := range assets {
		asset_entities = append(asset_entities, entities.AssetEntityFromModel(asset))
	}

	return c.Status(200).JSON(asset_entities)
}

// CreateAsset seeds a syndicated asset: the catalog row, its fixed
// share rows and the live share book.
func CreateAsset(c *fiber.Ctx) error {
	payload := new(AssetPayload)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})
	}

	if errors := ValidateAssetPayload(payload); errors != nil {
		return c.Status(422).JSON(errors)
	}

	asset := &models.Asset{
		Name:        payload.Name,
		Location:    payload.Location,
		TotalShares: payload.TotalShares,
		TotalPrice:  payload.TotalPrice,
	}

	err := config.DataBase.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(asset).Error; err != nil {
			return err
		}

		return asset.CreateShares(tx)
	})
	if err != nil {
		config.Logger.Errorf("admin: failed to create asset %s: %v", payload.Name, err.Error())
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.internal_error"},
		})
	}

	controllers.AllocationEngine.AddBook(allocation.NewShareBook(asset.ID, asset.TotalShares, asset.TotalPrice))

	return c.Status(201).JSON(entities.AssetEntityFromModel(asset))
}
