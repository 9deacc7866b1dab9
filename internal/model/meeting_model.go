package model

import (
	"time"
)

type Meeting struct {
	Id             string    `gorm:"type:varchar(32);primaryKey"` // MEETING-<n>
	Sequence       int64     `gorm:"not null;uniqueIndex"`
	Department     string    `gorm:"type:varchar(64);not null"`
	Date           string    `gorm:"type:varchar(64)"`
	Time           string    `gorm:"type:varchar(64)"`
	Reason         string    `gorm:"type:text"`
	RequesterId    string    `gorm:"type:varchar(64);index"`
	RequesterName  string    `gorm:"type:varchar(255)"`
	RequesterEmail string    `gorm:"type:varchar(255)"`
	Status         string    `gorm:"type:varchar(16);not null;index"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Meeting) TableName() string {
	return "meetings"
}
