package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/plotnest/syndicate/payment"
	"github.com/plotnest/syndicate/types"
)

var (
	ErrIncompleteAllocation = errors.New("booking: asset shares not fully allocated")
	ErrInvalidTransition    = errors.New("booking: operation not legal in the current state")
)

// Allocator reports allocation progress for an asset.
type Allocator interface {
	SlotsFilled(assetID int64) (filled int, total int, err error)
}

// Settler hands a paid stage over to commission settlement. Delivery is
// at-least-once; the settler side dedupes on the transaction id.
type Settler interface {
	EnqueueSettlement(payload types.PaymentPaidPayload) error
}

// Coordinator drives one booking through
// allocating -> ready_for_payment -> payment_in_progress -> settled.
// It holds no storage of its own; callers load it, run one operation
// and persist the result.
type Coordinator struct {
	BookingID uint64
	AssetID   int64
	BuyerUID  string
	State     types.BookingState
	Plan      *payment.Plan

	allocator Allocator
	settler   Settler
}

func NewCoordinator(bookingID uint64, assetID int64, buyerUID string, state types.BookingState, plan *payment.Plan, allocator Allocator, settler Settler) *Coordinator {
	return &Coordinator{
		BookingID: bookingID,
		AssetID:   assetID,
		BuyerUID:  buyerUID,
		State:     state,
		Plan:      plan,
		allocator: allocator,
		settler:   settler,
	}
}

// AdvanceToPayment closes the allocation phase. It only passes once
// every share of the asset is reserved or confirmed.
func (c *Coordinator) AdvanceToPayment() error {
	if c.State != types.BookingAllocating {
		return ErrInvalidTransition
	}

	filled, total, err := c.allocator.SlotsFilled(c.AssetID)
	if err != nil {
		return err
	}

	if filled < total {
		return ErrIncompleteAllocation
	}

	c.State = types.BookingReadyForPayment

	return nil
}

// Pay applies an optional coupon and records the payment, returning the
// settlement payload for the paid amount. It only mutates the plan and
// the state; the caller persists both and hands the payload to
// EnqueueSettlement afterwards, so a payment that fails to persist never
// pays commissions. Each stage payment settles commissions
// independently; the booking reaches settled once every stage is paid.
func (c *Coordinator) Pay(stage types.StageName, amount decimal.Decimal, coupon *payment.Coupon, now time.Time) (types.PaymentPaidPayload, error) {
	switch c.State {
	case types.BookingReadyForPayment, types.BookingPaymentInProgress:
	default:
		return types.PaymentPaidPayload{}, ErrInvalidTransition
	}

	if coupon != nil {
		if err := c.Plan.ApplyCoupon(stage, *coupon, now); err != nil {
			return types.PaymentPaidPayload{}, err
		}
	}

	if err := c.Plan.MarkPaid(stage, amount); err != nil {
		return types.PaymentPaidPayload{}, err
	}

	c.State = types.BookingPaymentInProgress
	if c.Plan.Settled() {
		c.State = types.BookingSettled
	}

	paid, err := c.Plan.Stage(stage)
	if err != nil {
		return types.PaymentPaidPayload{}, err
	}

	return types.PaymentPaidPayload{
		TransactionID: settlementTransactionID(c.BookingID, stage, paid.PaidAmount),
		BookingID:     c.BookingID,
		PayerUID:      c.BuyerUID,
		Stage:         stage,
		Amount:        amount,
	}, nil
}

// EnqueueSettlement hands a paid-stage payload to the settler. Callers
// invoke it after the plan mutation has been durably persisted.
func (c *Coordinator) EnqueueSettlement(payload types.PaymentPaidPayload) error {
	return c.settler.EnqueueSettlement(payload)
}

// settlementTransactionID is deterministic per booking, stage and
// cumulative paid amount. A client retry replaying the same payment
// recomputes the same id, and the settlement ledger's uniqueness on the
// transaction id turns the duplicate into a no-op.
func settlementTransactionID(bookingID uint64, stage types.StageName, paidAmount decimal.Decimal) string {
	seed := fmt.Sprintf("booking:%d:stage:%s:paid:%s", bookingID, stage, paidAmount.String())

	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}
