package mq_client

import (
	"encoding/json"

	"github.com/plotnest/syndicate/types"
)

// SettlementQueue publishes paid-stage payloads to the commission
// settler; implements booking.Settler.
type SettlementQueue struct{}

func (SettlementQueue) EnqueueSettlement(payload types.PaymentPaidPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return Enqueue("commission_settler", body)
}
