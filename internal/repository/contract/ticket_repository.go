package contract

import (
	"context"

	"enterprise-assistant-be/internal/entity"
	"enterprise-assistant-be/internal/repository/specification"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	UpdateStatus(ctx context.Context, id string, status string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Ticket, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Ticket, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
