package repository

import (
	"time"

	"github.com/lib/pq"
)

type Owner struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    int64 `gorm:"uniqueIndex"`
	CreatedAt time.Time
}

// FilterSettings is the closed set of per-chat moderation toggles.
type FilterSettings struct {
	Captcha  bool `gorm:"default:true"`
	BadWords bool `gorm:"default:false"`
	Links    bool `gorm:"default:false"`
}

type ManagedChat struct {
	ChatID         int64  `gorm:"primaryKey;autoIncrement:false"`
	Title          string `gorm:"size:255"`
	OwnerID        uint   `gorm:"index"`
	Enabled        bool   `gorm:"default:true"`
	FilterSettings `gorm:"embedded"`
	BlockedWords   pq.StringArray `gorm:"type:text[]"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type TemporaryMessage struct {
	ID        int64     `gorm:"primaryKey"`
	ChatID    int64     `gorm:"not null"`
	MessageID string    `gorm:"not null"`
	DeleteAt  time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
