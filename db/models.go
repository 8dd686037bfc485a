package db

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID               uint      `gorm:"primaryKey"`
	RegistrationTime time.Time `gorm:"autoCreateTime"`
	Login            string    `gorm:"unique;not null"`
	Username         string    `gorm:"not null"`
	Password         string    `gorm:"size:128;not null"`
}

type RefreshToken struct {
	Token        string    `gorm:"primaryKey"`
	UserID       uint      `gorm:"not null;"`
	User         User      `gorm:"not null;constraint:OnDelete:CASCADE"`
	CreationDate time.Time `gorm:"autoCreateTime"`
}

// Profile holds the authoritative balance. It is only ever adjusted through
// signed deltas, never overwritten, so settlements arriving close together
// cannot lose updates.
type Profile struct {
	UserID  uint            `gorm:"not null;uniqueIndex" json:"user_id"`
	User    User            `gorm:"not null;constraint:OnDelete:CASCADE" json:"-"`
	Balance decimal.Decimal `gorm:"type:numeric(1000,4);default:1000" json:"balance"`
	LastWin decimal.Decimal `gorm:"type:numeric(1000,4);default:0" json:"last_win"`
}

// Round is the settled record of one play-through: stake debited at start,
// payout credited at settlement.
type Round struct {
	ID        uint            `gorm:"primaryKey"`
	Timestamp time.Time       `gorm:"autoCreateTime"`
	UUID      string          `gorm:"not null"`
	Game      string          `gorm:"not null;index"`
	Stake     decimal.Decimal `gorm:"type:numeric(1000,4)"`
	Payout    decimal.Decimal `gorm:"type:numeric(1000,4)"`
	Outcome   string          `gorm:"not null"`

	UserID uint `gorm:"not null;index"`
	User   User `gorm:"not null;constraint:OnDelete:CASCADE"`
}
