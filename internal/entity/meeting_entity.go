package entity

import (
	"time"
)

type Meeting struct {
	Id             string
	Sequence       int64
	Department     string
	Date           string
	Time           string
	Reason         string
	RequesterId    string
	RequesterName  string
	RequesterEmail string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
