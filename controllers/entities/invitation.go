package entities

import (
	"time"

	"github.com/plotnest/syndicate/models"
	"github.com/plotnest/syndicate/types"
)

type InvitationEntity struct {
	ID              string                 `json:"id"`
	AssetID         int64                  `json:"asset_id"`
	SharePosition   int                    `json:"share_position"`
	ReferrerUID     string                 `json:"referrer_uid"`
	InviteeName     string                 `json:"invitee_name"`
	InviteeEmail    string                 `json:"invitee_email"`
	InviteePhone    string                 `json:"invitee_phone"`
	InviteeLocation string                 `json:"invitee_location"`
	Status          types.InvitationStatus `json:"status"`
	CreatedAt       time.Time              `json:"created_at"`
	ExpiresAt       time.Time              `json:"expires_at"`
}

func InvitationEntityFromModel(invitation *models.Invitation) *InvitationEntity {
	return &InvitationEntity{
		ID:              invitation.ID.String(),
		AssetID:         invitation.AssetID,
		SharePosition:   invitation.SharePosition,
		ReferrerUID:     invitation.ReferrerUID,
		InviteeName:     invitation.InviteeName,
		InviteeEmail:    invitation.InviteeEmail,
		InviteePhone:    invitation.InviteePhone,
		InviteeLocation: invitation.InviteeLocation,
		Status:          invitation.Status,
		CreatedAt:       invitation.CreatedAt,
		ExpiresAt:       invitation.ExpiresAt,
	}
}
