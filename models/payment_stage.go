package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/plotnest/syndicate/payment"
	"github.com/plotnest/syndicate/types"
)

type PaymentStage struct {
	ID         uint64            `json:"id" gorm:"primaryKey"`
	BookingID  uint64            `json:"booking_id" gorm:"uniqueIndex:idx_payment_stages_booking_name"`
	Name       types.StageName   `json:"name" gorm:"uniqueIndex:idx_payment_stages_booking_name"`
	Sequence   int               `json:"sequence"`
	DueAmount  decimal.Decimal   `json:"due_amount"`
	PaidAmount decimal.Decimal   `json:"paid_amount" gorm:"default:0.0"`
	Status     types.StageStatus `json:"status" gorm:"default:pending"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// CreatePlanStages materializes a computed plan as stage rows.
func CreatePlanStages(tx *gorm.DB, bookingID uint64, plan *payment.Plan) error {
	for i, stage := range plan.Stages {
		row := &PaymentStage{
			BookingID:  bookingID,
			Name:       stage.Name,
			Sequence:   i + 1,
			DueAmount:  stage.DueAmount,
			PaidAmount: stage.PaidAmount,
			Status:     stage.Status,
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
	}

	return nil
}

// LoadPlan rebuilds the computation-side plan from a booking's rows.
// Reads through tx so callers holding a row lock see their own view.
func LoadPlan(tx *gorm.DB, booking *Booking, totalPrice decimal.Decimal) (*payment.Plan, error) {
	var rows []*PaymentStage

	if err := tx.Where("booking_id = ?", booking.ID).Order("sequence asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	plan := &payment.Plan{
		Variant:    booking.Variant,
		TotalPrice: totalPrice,
	}
	if booking.CouponCode.Valid {
		plan.CouponCode = booking.CouponCode.String
	}

	for _, row := range rows {
		plan.Stages = append(plan.Stages, &payment.Stage{
			Name:       row.Name,
			DueAmount:  row.DueAmount,
			PaidAmount: row.PaidAmount,
			Status:     row.Status,
		})
	}

	return plan, nil
}

// SavePlan writes a mutated plan back to the stage rows.
func SavePlan(tx *gorm.DB, bookingID uint64, plan *payment.Plan) error {
	for _, stage := range plan.Stages {
		err := tx.Model(&PaymentStage{}).
			Where("booking_id = ? AND name = ?", bookingID, stage.Name).
			Updates(map[string]interface{}{
				"due_amount":  stage.DueAmount,
				"paid_amount": stage.PaidAmount,
				"status":      stage.Status,
			}).Error
		if err != nil {
			return err
		}
	}

	return nil
}
