package models

import "time"

// LoyaltyAccount persists a customer's points balance between register runs.
type LoyaltyAccount struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Points    int64     `gorm:"column:points;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LoyaltyAccount) TableName() string { return "loyalty_accounts" }
