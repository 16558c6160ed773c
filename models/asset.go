package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/plotnest/syndicate/allocation"
	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/types"
)

// Asset is one syndicated property. Immutable after creation; the
// catalog collaborator owns everything but the share split.
type Asset struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" validate:"required"`
	Location    string          `json:"location"`
	TotalShares int             `json:"total_shares" validate:"required|min:1"`
	TotalPrice  decimal.Decimal `json:"total_price" validate:"required"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func FindAsset(id int64) (*Asset, error) {
	var asset Asset

	if err := config.DataBase.First(&asset, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &asset, nil
}

// PricePerShare is the floored even split; the last share absorbs the
// rounding remainder.
func (a *Asset) PricePerShare() decimal.Decimal {
	return a.TotalPrice.Div(decimal.NewFromInt(int64(a.TotalShares))).Floor()
}

// CreateShares inserts the asset's fixed share rows.
func (a *Asset) CreateShares(tx *gorm.DB) error {
	prices := allocation.SplitPrice(a.TotalPrice, a.TotalShares)

	for i := 0; i < a.TotalShares; i++ {
		share := &Share{
			AssetID:        a.ID,
			Position:       i + 1,
			State:          types.ShareStateAvailable,
			PriceAllocated: prices[i],
		}
		if err := tx.Create(share).Error; err != nil {
			return err
		}
	}

	return nil
}

// LoadShareBooks rebuilds the in-memory allocation state from durable
// storage at boot, pending invitations included.
func LoadShareBooks(engine *allocation.Engine) error {
	var assets []*Asset
	if err := config.DataBase.Find(&assets).Error; err != nil {
		return err
	}

	for _, asset := range assets {
		book := allocation.NewShareBook(asset.ID, asset.TotalShares, asset.TotalPrice)

		var shares []*Share
		if err := config.DataBase.Where("asset_id = ?", asset.ID).Find(&shares).Error; err != nil {
			return err
		}

		for _, share := range shares {
			if share.State == types.ShareStateAvailable {
				continue
			}

			var tracked *allocation.Invitation

			var invitation Invitation
			err := config.DataBase.
				Where("share_id = ? AND status IN ?", share.ID, []string{types.InvitationPending, types.InvitationAccepted}).
				Order("created_at desc").
				First(&invitation).Error
			if err == nil {
				tracked = invitation.ToAllocation()
			}

			holderRef := ""
			if share.HolderRef.Valid {
				holderRef = share.HolderRef.String
			}

			if err := book.Restore(share.Position, share.State, holderRef, tracked); err != nil {
				return err
			}
		}

		engine.AddBook(book)
	}

	return nil
}
