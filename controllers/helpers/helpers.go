package helpers

import (
	"errors"

	"github.com/gookit/validate"

	"github.com/plotnest/syndicate/allocation"
	"github.com/plotnest/syndicate/booking"
	"github.com/plotnest/syndicate/models"
	"github.com/plotnest/syndicate/payment"
)

type Errors struct {
	Errors []string `json:"errors"`
}

func (e Errors) Size() int {
	return len(e.Errors)
}

func Vaildate(payload interface{}, err_src *Errors) {
	v := validate.Struct(payload)
	if !v.Validate() {
		for _, errs := range v.Errors.All() {
			for _, err := range errs {
				err_src.Errors = append(err_src.Errors, err)
			}
		}
	}
}

// RequireInvitee checks the refer-form contact an invite-mode reserve
// must carry; phone and location stay optional.
func RequireInvitee(name string, email string, err_src *Errors) {
	if len(name) == 0 || len(email) == 0 {
		err_src.Errors = append(err_src.Errors, "allocation.invitation.missing_invitee")
	}
}

// ErrorCode maps engine errors onto the HTTP status and the
// dot-separated error code the clients key their messages on.
func ErrorCode(err error) (int, string) {
	switch {
	case errors.Is(err, allocation.ErrAssetNotFound):
		return 404, "allocation.asset.not_found"
	case errors.Is(err, allocation.ErrShareNotFound):
		return 404, "allocation.share.not_found"
	case errors.Is(err, allocation.ErrShareUnavailable):
		return 409, "allocation.share.unavailable"
	case errors.Is(err, allocation.ErrShareNotReserved):
		return 409, "allocation.share.not_reserved"
	case errors.Is(err, allocation.ErrInvitationNotFound):
		return 404, "allocation.invitation.not_found"
	case errors.Is(err, allocation.ErrInvitationExpired):
		return 409, "allocation.invitation.expired"
	case errors.Is(err, allocation.ErrInvitationNotPending):
		return 409, "allocation.invitation.not_pending"
	case errors.Is(err, allocation.ErrStaleTransition):
		return 409, "allocation.share.stale_transition"
	case errors.Is(err, booking.ErrIncompleteAllocation):
		return 409, "booking.allocation.incomplete"
	case errors.Is(err, booking.ErrInvalidTransition):
		return 422, "booking.state.invalid_transition"
	case errors.Is(err, payment.ErrUnknownStage):
		return 422, "payment.stage.unknown"
	case errors.Is(err, payment.ErrStageAlreadyPaid):
		return 422, "payment.stage.already_paid"
	case errors.Is(err, payment.ErrInvalidAmount):
		return 422, "payment.amount.invalid"
	case errors.Is(err, payment.ErrOverpaymentRejected):
		return 422, "payment.stage.overpayment"
	case errors.Is(err, payment.ErrInvalidCoupon):
		return 400, "payment.coupon.invalid"
	case errors.Is(err, payment.ErrCouponConsumed):
		return 400, "payment.coupon.consumed"
	case errors.Is(err, models.ErrReferralCycleRejected):
		return 422, "member.referral.cycle_rejected"
	default:
		return 500, "server.internal_error"
	}
}
