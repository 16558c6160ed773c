package entities

import (
	"time"

	"github.com/plotnest/syndicate/models"
)

type MemberEntity struct {
	UID             string    `json:"uid"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	ReferralUID     string    `json:"referral_uid,omitempty"`
	DirectReferrals int64     `json:"direct_referrals"`
	CreatedAt       time.Time `json:"created_at"`
}

func MemberEntityFromModel(member *models.Member) *MemberEntity {
	entity := &MemberEntity{
		UID:             member.UID,
		Email:           member.Email,
		Role:            member.Role,
		DirectReferrals: member.DirectReferralsCount(),
		CreatedAt:       member.CreatedAt,
	}

	if member.ReferralUID.Valid {
		entity.ReferralUID = member.ReferralUID.String
	}

	return entity
}
