package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/plotnest/syndicate/commission"
	"github.com/plotnest/syndicate/config"
)

// CommissionLedgerEntry is immutable once written. The composite unique
// index on (source_transaction_id, beneficiary_uid) is what backs the
// settle-once guarantee.
type CommissionLedgerEntry struct {
	ID                  uint64          `json:"id" gorm:"primaryKey"`
	BookingID           uint64          `json:"booking_id" gorm:"index"`
	BeneficiaryUID      string          `json:"beneficiary_uid" gorm:"index;uniqueIndex:idx_commissions_source_beneficiary"`
	Level               int             `json:"level"`
	Percentage          decimal.Decimal `json:"percentage"`
	BaseAmount          decimal.Decimal `json:"base_amount"`
	ComputedAmount      decimal.Decimal `json:"computed_amount"`
	SourceTransactionID string          `json:"source_transaction_id" gorm:"uniqueIndex:idx_commissions_source_beneficiary"`
	CreatedAt           time.Time       `json:"created_at"`
}

// CommissionLedger persists settlement entries for one booking;
// implements commission.Ledger.
type CommissionLedger struct {
	BookingID uint64
}

func (l CommissionLedger) Settled(sourceTransactionID string) (bool, error) {
	var count int64

	err := config.DataBase.Model(&CommissionLedgerEntry{}).
		Where("source_transaction_id = ?", sourceTransactionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (l CommissionLedger) Append(entries []commission.Entry) error {
	err := config.DataBase.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			row := &CommissionLedgerEntry{
				BookingID:           l.BookingID,
				BeneficiaryUID:      entry.BeneficiaryUID,
				Level:               entry.Level,
				Percentage:          entry.Percentage,
				BaseAmount:          entry.BaseAmount,
				ComputedAmount:      entry.ComputedAmount,
				SourceTransactionID: entry.SourceTransactionID,
				CreatedAt:           entry.CreatedAt,
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}

		return nil
	})

	// A concurrent retry that slipped past Settled lands on the unique
	// index; both callers see one set of entries.
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return commission.ErrDuplicateSettlement
	}

	return err
}
