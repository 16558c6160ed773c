package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/models/datatypes"
	"github.com/plotnest/syndicate/payment"
)

// Coupon rows are written by the admin collaborator; this engine only
// reads them.
type Coupon struct {
	ID               uint64               `json:"id" gorm:"primaryKey"`
	Code             string               `json:"code" gorm:"uniqueIndex"`
	PercentOff       decimal.Decimal      `json:"percent_off"`
	ValidFrom        time.Time            `json:"valid_from"`
	ValidTo          time.Time            `json:"valid_to"`
	ApplicableStages datatypes.StageNames `json:"applicable_stages"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

func FindCoupon(code string) (*Coupon, error) {
	var coupon Coupon

	if err := config.DataBase.First(&coupon, "code = ?", code).Error; err != nil {
		return nil, err
	}

	return &coupon, nil
}

func (c *Coupon) ForPayment() payment.Coupon {
	return payment.Coupon{
		Code:             c.Code,
		PercentOff:       c.PercentOff,
		ValidFrom:        c.ValidFrom,
		ValidTo:          c.ValidTo,
		ApplicableStages: c.ApplicableStages,
	}
}
