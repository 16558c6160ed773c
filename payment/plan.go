package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/types"
)

var (
	ErrUnknownStage        = errors.New("payment: plan has no such stage")
	ErrStageAlreadyPaid    = errors.New("payment: stage already settled")
	ErrInvalidAmount       = errors.New("payment: amount must be positive")
	ErrOverpaymentRejected = errors.New("payment: amount exceeds the stage's outstanding due")
	ErrInvalidCoupon       = errors.New("payment: coupon not applicable")
	ErrCouponConsumed      = errors.New("payment: plan already redeemed a coupon")
)

type Stage struct {
	Name       types.StageName
	DueAmount  decimal.Decimal
	PaidAmount decimal.Decimal
	Status     types.StageStatus
}

func (s *Stage) Outstanding() decimal.Decimal {
	return s.DueAmount.Sub(s.PaidAmount)
}

// Plan is one booking's payment schedule, either the staged standard
// plan or the discounted single-stage full payment. The due amounts are
// derived once from the policy table; afterwards only coupons move them.
type Plan struct {
	Variant    types.PlanVariant
	TotalPrice decimal.Decimal
	Stages     []*Stage
	CouponCode string
}

// NewStandardPlan builds the staged schedule from the policy table.
// The published table does not sum to the asset price (token nets out
// of the advance, the stage percentages reach 90%); the gap is kept
// as-is and reported by Unallocated rather than silently normalized.
func NewStandardPlan(totalPrice decimal.Decimal, policy *config.Policy) *Plan {
	plan := &Plan{
		Variant:    types.PlanStandard,
		TotalPrice: totalPrice,
	}

	for _, sp := range policy.Stages {
		due := sp.Fixed
		if sp.Percent.IsPositive() {
			due = totalPrice.Mul(sp.Percent)
		}
		if sp.CreditToken {
			due = due.Sub(policy.TokenAmount)
			if due.IsNegative() {
				due = decimal.Zero
			}
		}

		plan.Stages = append(plan.Stages, &Stage{
			Name:      sp.Name,
			DueAmount: due,
			Status:    types.StagePending,
		})
	}

	return plan
}

// NewFullPaymentPlan collapses the schedule into one stage with the
// flat upfront discount applied.
func NewFullPaymentPlan(totalPrice decimal.Decimal, policy *config.Policy) *Plan {
	due := totalPrice.Mul(decimal.NewFromInt(1).Sub(policy.FullPaymentDiscount))

	return &Plan{
		Variant:    types.PlanFullPayment,
		TotalPrice: totalPrice,
		Stages: []*Stage{
			{
				Name:      types.StageFullPayment,
				DueAmount: due,
				Status:    types.StagePending,
			},
		},
	}
}

func (p *Plan) Stage(name types.StageName) (*Stage, error) {
	for _, stage := range p.Stages {
		if stage.Name == name {
			return stage, nil
		}
	}

	return nil, ErrUnknownStage
}

// ApplyCoupon discounts a stage's outstanding due. Validation is
// all-or-nothing: any mismatch (window, stage list, already-redeemed
// plan) leaves every due amount untouched.
func (p *Plan) ApplyCoupon(name types.StageName, coupon Coupon, now time.Time) error {
	if len(p.CouponCode) > 0 {
		return ErrCouponConsumed
	}

	stage, err := p.Stage(name)
	if err != nil {
		return err
	}

	if stage.Status == types.StagePaid {
		return ErrInvalidCoupon
	}

	if !coupon.WithinWindow(now) || !coupon.AppliesTo(name) {
		return ErrInvalidCoupon
	}

	discount := stage.Outstanding().Mul(coupon.PercentOff)
	stage.DueAmount = stage.DueAmount.Sub(discount)
	p.CouponCode = coupon.Code

	return nil
}

// MarkPaid records a payment against a stage. Anything beyond the
// outstanding due is rejected whole; the stage settles once paid in
// full.
func (p *Plan) MarkPaid(name types.StageName, amount decimal.Decimal) error {
	stage, err := p.Stage(name)
	if err != nil {
		return err
	}

	if stage.Status == types.StagePaid {
		return ErrStageAlreadyPaid
	}

	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(stage.Outstanding()) {
		return ErrOverpaymentRejected
	}

	stage.PaidAmount = stage.PaidAmount.Add(amount)
	if stage.PaidAmount.Equal(stage.DueAmount) {
		stage.Status = types.StagePaid
	}

	return nil
}

// Total is the sum of all stage dues.
func (p *Plan) Total() decimal.Decimal {
	total := decimal.Zero
	for _, stage := range p.Stages {
		total = total.Add(stage.DueAmount)
	}

	return total
}

// Unallocated is the part of the asset price the schedule does not
// collect: the published 10% residual on the standard plan, the
// discount on the full payment plan.
func (p *Plan) Unallocated() decimal.Decimal {
	return p.TotalPrice.Sub(p.Total())
}

func (p *Plan) Settled() bool {
	for _, stage := range p.Stages {
		if stage.Status != types.StagePaid {
			return false
		}
	}

	return true
}
