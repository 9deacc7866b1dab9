package model

import (
	"time"
)

type Ticket struct {
	Id             string    `gorm:"type:varchar(32);primaryKey"` // TICKET-<n>
	Sequence       int64     `gorm:"not null;uniqueIndex"`
	Issue          string    `gorm:"type:text;not null"`
	RequesterId    string    `gorm:"type:varchar(64);index"`
	RequesterName  string    `gorm:"type:varchar(255)"`
	RequesterEmail string    `gorm:"type:varchar(255)"`
	Status         string    `gorm:"type:varchar(16);not null;index"`
	Priority       string    `gorm:"type:varchar(16);not null"`
	AssignedTo     string    `gorm:"type:varchar(128)"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Ticket) TableName() string {
	return "tickets"
}
