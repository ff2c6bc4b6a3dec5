package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefreshTokenModel menyimpan hash SHA-256 refresh token, bukan token mentah.
type RefreshTokenModel struct {
	RefreshTokenID        uuid.UUID  `gorm:"type:uuid;primaryKey;column:refresh_token_id" json:"refresh_token_id"`
	RefreshTokenUserID    uuid.UUID  `gorm:"type:uuid;not null;column:refresh_token_user_id;index" json:"refresh_token_user_id"`
	RefreshTokenHash      string     `gorm:"column:refresh_token_hash;uniqueIndex;not null" json:"-"`
	RefreshTokenExpiresAt time.Time  `gorm:"column:refresh_token_expires_at;not null" json:"refresh_token_expires_at"`
	RefreshTokenRevokedAt *time.Time `gorm:"column:refresh_token_revoked_at" json:"refresh_token_revoked_at,omitempty"`

	RefreshTokenCreatedAt time.Time `gorm:"column:refresh_token_created_at;autoCreateTime" json:"refresh_token_created_at"`
}

func (RefreshTokenModel) TableName() string { return "refresh_tokens" }

func (m *RefreshTokenModel) BeforeCreate(tx *gorm.DB) error {
	if m.RefreshTokenID == uuid.Nil {
		m.RefreshTokenID = uuid.New()
	}
	return nil
}

func (m *RefreshTokenModel) IsUsable(now time.Time) bool {
	return m.RefreshTokenRevokedAt == nil && now.Before(m.RefreshTokenExpiresAt)
}
