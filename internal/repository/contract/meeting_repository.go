package contract

import (
	"context"

	"enterprise-assistant-be/internal/entity"
	"enterprise-assistant-be/internal/repository/specification"
)

type MeetingRepository interface {
	Create(ctx context.Context, meeting *entity.Meeting) error
	UpdateStatus(ctx context.Context, id string, status string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Meeting, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Meeting, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
