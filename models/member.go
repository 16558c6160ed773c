package models

import (
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/plotnest/syndicate/config"
)

var ErrReferralCycleRejected = errors.New("models: referral edge rejected, would close a cycle")

// referralWalkBound caps the ancestor walk during cycle detection. Any
// legal chain is far shorter; commissions stop at depth 3 anyway.
const referralWalkBound = 64

type Member struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	UID         string         `json:"uid" gorm:"uniqueIndex"`
	Email       string         `json:"email"`
	Level       int32          `json:"level" gorm:"default:0" validate:"min:0"`
	Role        string         `json:"role"`
	State       string         `json:"state"`
	ReferralUID sql.NullString `json:"referral_uid"`
	Username    sql.NullString `json:"username"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (m *Member) HavingReferraller() bool {
	return m.ReferralUID.Valid
}

// LinkReferrer writes the one-time referral edge supplied by the
// identity provider at signup. An existing edge is immutable; self
// reference and anything that would close a cycle are rejected.
func (m *Member) LinkReferrer(referrerUID string) error {
	if m.HavingReferraller() || len(referrerUID) == 0 {
		return nil
	}

	if referrerUID == m.UID {
		return ErrReferralCycleRejected
	}

	uid := referrerUID
	for i := 0; i < referralWalkBound; i++ {
		var ancestor Member
		if err := config.DataBase.First(&ancestor, "uid = ?", uid).Error; err != nil {
			break
		}
		if !ancestor.ReferralUID.Valid {
			break
		}
		if ancestor.ReferralUID.String == m.UID {
			return ErrReferralCycleRejected
		}
		uid = ancestor.ReferralUID.String
	}

	m.ReferralUID = sql.NullString{String: referrerUID, Valid: true}

	return config.DataBase.Model(m).Update("referral_uid", m.ReferralUID).Error
}

func (m *Member) DirectReferralsCount() int64 {
	var count int64

	config.DataBase.Model(&Member{}).Where("referral_uid = ?", m.UID).Count(&count)

	return count
}

// MemberReferrals resolves referral edges against the members table for
// the commission walk.
type MemberReferrals struct{}

func (MemberReferrals) ReferrerOf(uid string) (string, bool, error) {
	var member Member

	if err := config.DataBase.First(&member, "uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	if !member.ReferralUID.Valid {
		return "", false, nil
	}

	return member.ReferralUID.String, true, nil
}
