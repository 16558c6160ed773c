package entities

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plotnest/syndicate/models"
)

type AssetEntity struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Location      string          `json:"location"`
	TotalShares   int             `json:"total_shares"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PricePerShare decimal.Decimal `json:"price_per_share"`
	CreatedAt     time.Time       `json:"created_at"`
}

func AssetEntityFromModel(asset *models.Asset) *AssetEntity {
	return &AssetEntity{
		ID:            asset.ID,
		Name:          asset.Name,
		Location:      asset.Location,
		TotalShares:   asset.TotalShares,
		TotalPrice:    asset.TotalPrice,
		PricePerShare: asset.PricePerShare(),
		CreatedAt:     asset.CreatedAt,
	}
}
