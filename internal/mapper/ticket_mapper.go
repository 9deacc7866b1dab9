package mapper

import (
	"time"

	"enterprise-assistant-be/internal/entity"
	"enterprise-assistant-be/internal/model"
)

type TicketMapper struct{}

func NewTicketMapper() *TicketMapper {
	return &TicketMapper{}
}

func (m *TicketMapper) ToEntity(t *model.Ticket) *entity.Ticket {
	if t == nil {
		return nil
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		u := t.UpdatedAt
		updatedAt = &u
	}

	return &entity.Ticket{
		Id:             t.Id,
		Sequence:       t.Sequence,
		Issue:          t.Issue,
		RequesterId:    t.RequesterId,
		RequesterName:  t.RequesterName,
		RequesterEmail: t.RequesterEmail,
		Status:         t.Status,
		Priority:       t.Priority,
		AssignedTo:     t.AssignedTo,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *TicketMapper) ToModel(t *entity.Ticket) *model.Ticket {
	if t == nil {
		return nil
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.Ticket{
		Id:             t.Id,
		Sequence:       t.Sequence,
		Issue:          t.Issue,
		RequesterId:    t.RequesterId,
		RequesterName:  t.RequesterName,
		RequesterEmail: t.RequesterEmail,
		Status:         t.Status,
		Priority:       t.Priority,
		AssignedTo:     t.AssignedTo,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *TicketMapper) ToEntities(tickets []*model.Ticket) []*entity.Ticket {
	entities := make([]*entity.Ticket, len(tickets))
	for i, t := range tickets {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
