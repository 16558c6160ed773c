package entities

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plotnest/syndicate/models"
	"github.com/plotnest/syndicate/payment"
	"github.com/plotnest/syndicate/types"
)

type StageEntity struct {
	Name       types.StageName   `json:"name"`
	DueAmount  decimal.Decimal   `json:"due_amount"`
	PaidAmount decimal.Decimal   `json:"paid_amount"`
	Status     types.StageStatus `json:"status"`
}

type BookingEntity struct {
	ID          uint64             `json:"id"`
	AssetID     int64              `json:"asset_id"`
	BuyerUID    string             `json:"buyer_uid"`
	Variant     types.PlanVariant  `json:"variant"`
	State       types.BookingState `json:"state"`
	CouponCode  string             `json:"coupon_code,omitempty"`
	Stages      []StageEntity      `json:"stages"`
	Unallocated decimal.Decimal    `json:"unallocated"`
	Snapshot    *SnapshotEntity    `json:"snapshot,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

func BookingEntityFromModel(booking *models.Booking, plan *payment.Plan) *BookingEntity {
	entity := &BookingEntity{
		ID:          booking.ID,
		AssetID:     booking.AssetID,
		BuyerUID:    booking.BuyerUID,
		Variant:     booking.Variant,
		State:       booking.State,
		Unallocated: plan.Unallocated(),
		CreatedAt:   booking.CreatedAt,
	}

	if booking.CouponCode.Valid {
		entity.CouponCode = booking.CouponCode.String
	}

	for _, stage := range plan.Stages {
		entity.Stages = append(entity.Stages, StageEntity{
			Name:       stage.Name,
			DueAmount:  stage.DueAmount,
			PaidAmount: stage.PaidAmount,
			Status:     stage.Status,
		})
	}

	return entity
}
