package types

import "github.com/shopspring/decimal"

type ShareState = string

var (
	ShareStateAvailable ShareState = "available"
	ShareStateReserved  ShareState = "reserved"
	ShareStateConfirmed ShareState = "confirmed"
)

type ReserveMode = string

var (
	ReserveModeConfirm ReserveMode = "confirm"
	ReserveModeInvite  ReserveMode = "invite"
)

type InvitationStatus = string

var (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationExpired   InvitationStatus = "expired"
	InvitationCancelled InvitationStatus = "cancelled"
)

type StageName = string

var (
	StageToken        StageName = "token"
	StageAdvance      StageName = "advance"
	StageRegistration StageName = "registration"
	StageMisc         StageName = "misc"
	StageRental       StageName = "rental"
	StageFullPayment  StageName = "full_payment"
)

type StageStatus = string

var (
	StagePending StageStatus = "pending"
	StagePaid    StageStatus = "paid"
)

type PlanVariant = string

var (
	PlanStandard    PlanVariant = "standard"
	PlanFullPayment PlanVariant = "full_payment"
)

type BookingState = string

var (
	BookingAllocating        BookingState = "allocating"
	BookingReadyForPayment   BookingState = "ready_for_payment"
	BookingPaymentInProgress BookingState = "payment_in_progress"
	BookingSettled           BookingState = "settled"
)

// PaymentPaidPayload is the message carried from a successful stage
// payment to the commission settler. Delivery is at-least-once, the
// settler dedupes on TransactionID.
type PaymentPaidPayload struct {
	TransactionID string          `json:"transaction_id"`
	BookingID     uint64          `json:"booking_id"`
	PayerUID      string          `json:"payer_uid"`
	Stage         StageName       `json:"stage"`
	Amount        decimal.Decimal `json:"amount"`
}

type InvitationEventPayload struct {
	InvitationID string `json:"invitation_id"`
	AssetID      int64  `json:"asset_id"`
	SharePos     int    `json:"share_position"`
	Status       string `json:"status"`
	InviteeName  string `json:"invitee_name"`
	InviteeEmail string `json:"invitee_email"`
	InviteePhone string `json:"invitee_phone"`
}
