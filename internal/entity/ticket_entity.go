package entity

import (
	"time"
)

type Ticket struct {
	Id             string
	Sequence       int64
	Issue          string
	RequesterId    string
	RequesterName  string
	RequesterEmail string
	Status         string
	Priority       string
	AssignedTo     string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
