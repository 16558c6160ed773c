package allocation

import (
	"time"

	"github.com/google/uuid"

	"github.com/plotnest/syndicate/types"
)

// Contact is the invitee the referrer filled into the refer form. The
// notification collaborator needs it verbatim, the engine itself only
// stores it.
type Contact struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// Invitation is a referral claim on exactly one share. Terminal
// invitations (accepted, expired, cancelled) are kept for audit and are
// never reused; releasing a share and inviting again mints a new one.
type Invitation struct {
	ID          uuid.UUID
	AssetID     int64
	SharePos    int
	ReferrerUID string
	Invitee     Contact
	Status      types.InvitationStatus
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

func (i *Invitation) LeaseLapsed(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
