package models

import (
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/types"
)

var ErrShareStale = errors.New("models: share row changed state underneath")

type Share struct {
	ID             int64            `json:"id" gorm:"primaryKey"`
	AssetID        int64            `json:"asset_id" gorm:"uniqueIndex:idx_shares_asset_position"`
	Position       int              `json:"position" gorm:"uniqueIndex:idx_shares_asset_position"`
	State          types.ShareState `json:"state" gorm:"default:available"`
	HolderRef      sql.NullString   `json:"holder_ref"`
	PriceAllocated decimal.Decimal  `json:"price_allocated"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func FindShare(assetID int64, position int) (*Share, error) {
	var share Share

	if err := config.DataBase.First(&share, "asset_id = ? AND position = ?", assetID, position).Error; err != nil {
		return nil, err
	}

	return &share, nil
}

// PersistTransition writes an allocation transition through to the row.
// The in-memory book already serialized the transition; the state guard
// here only protects against a write racing a crash-recovery reload.
func (s *Share) PersistTransition(from, to types.ShareState, holderRef string) error {
	holder := sql.NullString{String: holderRef, Valid: len(holderRef) > 0}

	result := config.DataBase.Model(&Share{}).
		Where("id = ? AND state = ?", s.ID, from).
		Updates(map[string]interface{}{"state": to, "holder_ref": holder})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrShareStale
	}

	s.State = to
	s.HolderRef = holder

	return nil
}
