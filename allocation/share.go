package allocation

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/plotnest/syndicate/types"
)

// Share is one allocable slot of a syndicated asset. Every state
// transition happens under the share's own mutex, so contention is
// scoped to a single share: racing callers on one slot serialize,
// callers on different slots of the same asset never touch each other.
type Share struct {
	sync.Mutex

	Position       int
	State          types.ShareState
	HolderRef      string
	PriceAllocated decimal.Decimal
	Invitation     *Invitation
}

// ShareView is an immutable copy handed out to callers; the live Share
// stays inside the book.
type ShareView struct {
	Position       int              `json:"position"`
	State          types.ShareState `json:"state"`
	HolderRef      string           `json:"holder_ref"`
	PriceAllocated decimal.Decimal  `json:"price_allocated"`
	InvitationID   string           `json:"invitation_id,omitempty"`
}

// view must be called with the share lock held.
func (s *Share) view() ShareView {
	v := ShareView{
		Position:       s.Position,
		State:          s.State,
		HolderRef:      s.HolderRef,
		PriceAllocated: s.PriceAllocated,
	}

	if s.Invitation != nil {
		v.InvitationID = s.Invitation.ID.String()
	}

	return v
}

// SplitPrice divides an asset's total price into per-share allocations.
// Each share gets the floored even split, the last share absorbs the
// remainder so the allocations always sum back to the exact total.
func SplitPrice(totalPrice decimal.Decimal, totalShares int) []decimal.Decimal {
	per := totalPrice.Div(decimal.NewFromInt(int64(totalShares))).Floor()

	prices := make([]decimal.Decimal, totalShares)
	for i := range prices {
		prices[i] = per
	}
	prices[totalShares-1] = totalPrice.Sub(per.Mul(decimal.NewFromInt(int64(totalShares - 1))))

	return prices
}
