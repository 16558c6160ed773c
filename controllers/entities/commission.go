package entities

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plotnest/syndicate/models"
)

type CommissionEntity struct {
	ID                  uint64          `json:"id"`
	BookingID           uint64          `json:"booking_id"`
	BeneficiaryUID      string          `json:"beneficiary_uid"`
	Level               int             `json:"level"`
	Percentage          decimal.Decimal `json:"percentage"`
	BaseAmount          decimal.Decimal `json:"base_amount"`
	ComputedAmount      decimal.Decimal `json:"computed_amount"`
	SourceTransactionID string          `json:"source_transaction_id"`
	CreatedAt           time.Time       `json:"created_at"`
}

func CommissionEntityFromModel(entry *models.CommissionLedgerEntry) *CommissionEntity {
	return &CommissionEntity{
		ID:                  entry.ID,
		BookingID:           entry.BookingID,
		BeneficiaryUID:      entry.BeneficiaryUID,
		Level:               entry.Level,
		Percentage:          entry.Percentage,
		BaseAmount:          entry.BaseAmount,
		ComputedAmount:      entry.ComputedAmount,
		SourceTransactionID: entry.SourceTransactionID,
		CreatedAt:           entry.CreatedAt,
	}
}
