package mapper

import (
	"time"

	"enterprise-assistant-be/internal/entity"
	"enterprise-assistant-be/internal/model"
)

type MeetingMapper struct{}

func NewMeetingMapper() *MeetingMapper {
	return &MeetingMapper{}
}

func (m *MeetingMapper) ToEntity(mt *model.Meeting) *entity.Meeting {
	if mt == nil {
		return nil
	}

	var updatedAt *time.Time
	if !mt.UpdatedAt.IsZero() {
		u := mt.UpdatedAt
		updatedAt = &u
	}

	return &entity.Meeting{
		Id:             mt.Id,
		Sequence:       mt.Sequence,
		Department:     mt.Department,
		Date:           mt.Date,
		Time:           mt.Time,
		Reason:         mt.Reason,
		RequesterId:    mt.RequesterId,
		RequesterName:  mt.RequesterName,
		RequesterEmail: mt.RequesterEmail,
		Status:         mt.Status,
		CreatedAt:      mt.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *MeetingMapper) ToModel(mt *entity.Meeting) *model.Meeting {
	if mt == nil {
		return nil
	}

	var updatedAt time.Time
	if mt.UpdatedAt != nil {
		updatedAt = *mt.UpdatedAt
	}

	return &model.Meeting{
		Id:             mt.Id,
		Sequence:       mt.Sequence,
		Department:     mt.Department,
		Date:           mt.Date,
		Time:           mt.Time,
		Reason:         mt.Reason,
		RequesterId:    mt.RequesterId,
		RequesterName:  mt.RequesterName,
		RequesterEmail: mt.RequesterEmail,
		Status:         mt.Status,
		CreatedAt:      mt.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *MeetingMapper) ToEntities(meetings []*model.Meeting) []*entity.Meeting {
	entities := make([]*entity.Meeting, len(meetings))
	for i, mt := range meetings {
		entities[i] = m.ToEntity(mt)
	}
	return entities
}
