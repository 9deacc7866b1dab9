package dto

import "time"

type TicketResponse struct {
	Id             string     `json:"id"`
	Issue          string     `json:"issue"`
	RequesterId    string     `json:"requester_id,omitempty"`
	RequesterName  string     `json:"requester_name"`
	RequesterEmail string     `json:"requester_email,omitempty"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	AssignedTo     string     `json:"assigned_to"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

type MeetingResponse struct {
	Id             string     `json:"id"`
	Department     string     `json:"department"`
	Date           string     `json:"date"`
	Time           string     `json:"time"`
	Reason         string     `json:"reason"`
	RequesterId    string     `json:"requester_id,omitempty"`
	RequesterName  string     `json:"requester_name"`
	RequesterEmail string     `json:"requester_email,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

type ListRecordsRequest struct {
	Status      string `query:"status" validate:"omitempty,max=16"`
	RequesterId string `query:"requester_id" validate:"omitempty,max=64"`
	Limit       int    `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset      int    `query:"offset" validate:"omitempty,min=0"`
}

type UpdateTicketStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
}

type UpdateMeetingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING SCHEDULED COMPLETED CANCELLED"`
}
