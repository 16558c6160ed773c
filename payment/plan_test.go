package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/types"
)

type PlanTestSuite struct {
	suite.Suite
}

func amount(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (s *PlanTestSuite) stageDue(plan *Plan, name types.StageName) decimal.Decimal {
	stage, err := plan.Stage(name)
	s.Require().NoError(err)

	return stage.DueAmount
}

func (s *PlanTestSuite) TestStandardPlanSchedule() {
	plan := NewStandardPlan(amount("1000000"), config.DefaultPolicy())

	s.Len(plan.Stages, 5)
	s.True(s.stageDue(plan, types.StageToken).Equal(amount("5000")))
	s.True(s.stageDue(plan, types.StageAdvance).Equal(amount("195000")))
	s.True(s.stageDue(plan, types.StageRegistration).Equal(amount("500000")))
	s.True(s.stageDue(plan, types.StageMisc).Equal(amount("100000")))
	s.True(s.stageDue(plan, types.StageRental).Equal(amount("100000")))

	// The published table reaches 90% of the price; the residual is
	// reported, not redistributed.
	s.True(plan.Total().Equal(amount("900000")))
	s.True(plan.Unallocated().Equal(amount("100000")))
}

func (s *PlanTestSuite) TestStandardPlanTokenCreditClampsAtZero() {
	policy := config.DefaultPolicy()
	plan := NewStandardPlan(amount("20000"), policy)

	// 20% of 20,000 is 4,000, less than the token credit.
	s.True(s.stageDue(plan, types.StageAdvance).Equal(decimal.Zero))
}

func (s *PlanTestSuite) TestFullPaymentPlan() {
	plan := NewFullPaymentPlan(amount("1000000"), config.DefaultPolicy())

	s.Len(plan.Stages, 1)
	s.Equal(types.StageFullPayment, plan.Stages[0].Name)
	s.True(plan.Stages[0].DueAmount.Equal(amount("800000")))
	s.True(plan.Unallocated().Equal(amount("200000")))
}

func (s *PlanTestSuite) TestMarkPaidPartialThenFull() {
	plan := NewStandardPlan(amount("1000000"), config.DefaultPolicy())

	s.NoError(plan.MarkPaid(types.StageToken, amount("2000")))

	stage, err := plan.Stage(types.StageToken)
	s.Require().NoError(err)
	s.Equal(types.StagePending, stage.Status)
	s.True(stage.Outstanding().Equal(amount("3000")))

	s.NoError(plan.MarkPaid(types.StageToken, amount("3000")))
	s.Equal(types.StagePaid, stage.Status)

	s.ErrorIs(plan.MarkPaid(types.StageToken, amount("1")), ErrStageAlreadyPaid)
}

func (s *PlanTestSuite) TestMarkPaidRejectsOverpayment() {
	plan := NewStandardPlan(amount("1000000"), config.DefaultPolicy())

	err := plan.MarkPaid(types.StageToken, amount("5001"))
	s.ErrorIs(err, ErrOverpaymentRejected)

	stage, findErr := plan.Stage(types.StageToken)
	s.Require().NoError(findErr)
	s.True(stage.PaidAmount.IsZero())
}

func (s *PlanTestSuite) TestMarkPaidRejectsNonPositiveAmounts() {
	plan := NewStandardPlan(amount("1000000"), config.DefaultPolicy())

	s.ErrorIs(plan.MarkPaid(types.StageToken, decimal.Zero), ErrInvalidAmount)
	s.ErrorIs(plan.MarkPaid(types.StageToken, amount("-10")), ErrInvalidAmount)
	s.ErrorIs(plan.MarkPaid("imaginary", amount("10")), ErrUnknownStage)
}

func (s *PlanTestSuite) TestApplyCoupon() {
	plan := NewStandardPlan(amount("1000000"), config.DefaultPolicy())

	coupon := Coupon{
		Code:             "FEST10",
		PercentOff:       amount("0.10"),
		ValidFrom:        time.Now().Add(-time.Hour),
		ValidTo:          time.Now().Add(time.Hour),
		ApplicableStages: []types.StageName{types.StageRegistration},
	}

	s.NoError(plan.ApplyCoupon(types.StageRegistration, coupon, time.Now()))
	s.True(s.stageDue(plan, types.StageRegistration).Equal(amount("450000")))
	s.Equal("FEST10", plan.CouponCode)
}

func (s *PlanTestSuite) TestApplyCouponOutsideWindowLeavesDuesUntouched() {
	plan := NewStandardPlan(amount("1000000"), config.DefaultPolicy())
	before := s.stageDue(plan, types.StageRegistration).String()

	coupon := Coupon{
		Code:             "LATE10",
		PercentOff:       amount("0.10"),
		ValidFrom:        time.Now().Add(-2 * time.Hour),
		ValidTo:          time.Now().Add(-time.Hour),
		ApplicableStages: []types.StageName{types.StageRegistration},
	}

	err := plan.ApplyCoupon(types.StageRegistration, coupon, time.Now())
	s.ErrorIs(err, ErrInvalidCoupon)
	s.Equal(before, s.stageDue(plan, types.StageRegistration).String())
	s.Empty(plan.CouponCode)
}

func (s *PlanTestSuite) TestApplyCouponWrongStageLeavesDuesUntouched() {
	plan := NewStandardPlan(amount("1000000"), config.DefaultPolicy())
	before := s.stageDue(plan, types.StageMisc).String()

	coupon := Coupon{
		Code:             "REG10",
		PercentOff:       amount("0.10"),
		ValidFrom:        time.Now().Add(-time.Hour),
		ValidTo:          time.Now().Add(time.Hour),
		ApplicableStages: []types.StageName{types.StageRegistration},
	}

	err := plan.ApplyCoupon(types.StageMisc, coupon, time.Now())
	s.ErrorIs(err, ErrInvalidCoupon)
	s.Equal(before, s.stageDue(plan, types.StageMisc).String())
}

func (s *PlanTestSuite) TestApplyCouponOncePerPlan() {
	plan := NewStandardPlan(amount("1000000"), config.DefaultPolicy())

	coupon := Coupon{
		Code:             "FEST10",
		PercentOff:       amount("0.10"),
		ValidFrom:        time.Now().Add(-time.Hour),
		ValidTo:          time.Now().Add(time.Hour),
		ApplicableStages: []types.StageName{types.StageRegistration, types.StageMisc},
	}

	s.NoError(plan.ApplyCoupon(types.StageRegistration, coupon, time.Now()))

	err := plan.ApplyCoupon(types.StageMisc, coupon, time.Now())
	s.ErrorIs(err, ErrCouponConsumed)
	s.True(s.stageDue(plan, types.StageMisc).Equal(amount("100000")))
}

func (s *PlanTestSuite) TestApplyCouponRejectsPaidStage() {
	plan := NewStandardPlan(amount("1000000"), config.DefaultPolicy())

	s.NoError(plan.MarkPaid(types.StageToken, amount("5000")))

	coupon := Coupon{
		Code:             "TOK10",
		PercentOff:       amount("0.10"),
		ValidFrom:        time.Now().Add(-time.Hour),
		ValidTo:          time.Now().Add(time.Hour),
		ApplicableStages: []types.StageName{types.StageToken},
	}

	err := plan.ApplyCoupon(types.StageToken, coupon, time.Now())
	s.ErrorIs(err, ErrInvalidCoupon)
}

func (s *PlanTestSuite) TestSettled() {
	plan := NewFullPaymentPlan(amount("1000000"), config.DefaultPolicy())

	s.False(plan.Settled())
	s.NoError(plan.MarkPaid(types.StageFullPayment, amount("800000")))
	s.True(plan.Settled())
}

func TestPlan(t *testing.T) {
	suite.Run(t, new(PlanTestSuite))
}
