package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/plotnest/syndicate/allocation"
	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/types"
)

type Invitation struct {
	ID              uuid.UUID              `json:"id" gorm:"primaryKey;type:uuid"`
	ShareID         int64                  `json:"share_id" gorm:"index"`
	AssetID         int64                  `json:"asset_id" gorm:"index"`
	SharePosition   int                    `json:"share_position"`
	ReferrerUID     string                 `json:"referrer_uid" gorm:"index"`
	InviteeName     string                 `json:"invitee_name"`
	InviteeEmail    string                 `json:"invitee_email"`
	InviteePhone    string                 `json:"invitee_phone"`
	InviteeLocation string                 `json:"invitee_location"`
	Status          types.InvitationStatus `json:"status"`
	CreatedAt       time.Time              `json:"created_at"`
	ExpiresAt       time.Time              `json:"expires_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

func FindInvitation(id uuid.UUID) (*Invitation, error) {
	var invitation Invitation

	if err := config.DataBase.First(&invitation, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &invitation, nil
}

// FromAllocation captures a freshly minted engine invitation for
// persistence.
func FromAllocation(inv *allocation.Invitation, shareID int64) *Invitation {
	return &Invitation{
		ID:              inv.ID,
		ShareID:         shareID,
		AssetID:         inv.AssetID,
		SharePosition:   inv.SharePos,
		ReferrerUID:     inv.ReferrerUID,
		InviteeName:     inv.Invitee.Name,
		InviteeEmail:    inv.Invitee.Email,
		InviteePhone:    inv.Invitee.Phone,
		InviteeLocation: inv.Invitee.Location,
		Status:          inv.Status,
		CreatedAt:       inv.CreatedAt,
		ExpiresAt:       inv.ExpiresAt,
	}
}

// ToAllocation rebuilds the engine-side invitation at boot.
func (i *Invitation) ToAllocation() *allocation.Invitation {
	return &allocation.Invitation{
		ID:          i.ID,
		AssetID:     i.AssetID,
		SharePos:    i.SharePosition,
		ReferrerUID: i.ReferrerUID,
		Invitee: allocation.Contact{
			Name:     i.InviteeName,
			Email:    i.InviteeEmail,
			Phone:    i.InviteePhone,
			Location: i.InviteeLocation,
		},
		Status:    i.Status,
		CreatedAt: i.CreatedAt,
		ExpiresAt: i.ExpiresAt,
	}
}

func (i *Invitation) UpdateStatus(status types.InvitationStatus) error {
	i.Status = status

	return config.DataBase.Model(i).Update("status", status).Error
}
