package models

import (
	"database/sql"
	"time"

	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/types"
)

type Booking struct {
	ID         uint64             `json:"id" gorm:"primaryKey"`
	AssetID    int64              `json:"asset_id" gorm:"index"`
	BuyerUID   string             `json:"buyer_uid" gorm:"index"`
	Variant    types.PlanVariant  `json:"variant"`
	State      types.BookingState `json:"state" gorm:"default:allocating"`
	CouponCode sql.NullString     `json:"coupon_code"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func FindBooking(id uint64) (*Booking, error) {
	var booking Booking

	if err := config.DataBase.First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &booking, nil
}
