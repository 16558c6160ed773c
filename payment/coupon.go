package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plotnest/syndicate/types"
)

// Coupon is the validation view of an admin-issued coupon. The engine
// never creates coupons, it only checks the window and the stage list
// before applying one.
type Coupon struct {
	Code             string
	PercentOff       decimal.Decimal
	ValidFrom        time.Time
	ValidTo          time.Time
	ApplicableStages []types.StageName
}

func (c Coupon) WithinWindow(now time.Time) bool {
	return !now.Before(c.ValidFrom) && !now.After(c.ValidTo)
}

func (c Coupon) AppliesTo(stage types.StageName) bool {
	for _, name := range c.ApplicableStages {
		if name == stage {
			return true
		}
	}

	return false
}
