package workers

import (
	"encoding/json"
	"errors"

	"github.com/plotnest/syndicate/commission"
	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/models"
	"github.com/plotnest/syndicate/types"
)

// CommissionSettlerWorker turns paid-stage payloads into commission
// ledger entries. The queue delivers at least once; the engine's
// transaction-id dedupe makes redelivery harmless.
type CommissionSettlerWorker struct {
}

func NewCommissionSettlerWorker() *CommissionSettlerWorker {
	return &CommissionSettlerWorker{}
}

func (w *CommissionSettlerWorker) Process(payload []byte) error {
	var paid types.PaymentPaidPayload

	if err := json.Unmarshal(payload, &paid); err != nil {
		return err
	}

	engine := commission.NewEngine(
		models.MemberReferrals{},
		models.CommissionLedger{BookingID: paid.BookingID},
		config.AppPolicy,
	)

	entries, err := engine.Settle(paid.TransactionID, paid.PayerUID, paid.Amount)
	if errors.Is(err, commission.ErrDuplicateSettlement) {
		config.Logger.Debugf("commission_settler: transaction %s already settled, acking", paid.TransactionID)
		return nil
	}
	if err != nil {
		return err
	}

	base, _ := paid.Amount.Float64()
	config.InfluxDB.NewPoint(
		"commission_settlements",
		map[string]string{"stage": paid.Stage},
		map[string]interface{}{"levels": len(entries), "base_amount": base},
	)

	config.Logger.Infof(
		"commission_settler: settled transaction %s for booking %d, %d ledger entries",
		paid.TransactionID, paid.BookingID, len(entries),
	)

	return nil
}
