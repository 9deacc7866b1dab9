package unitofwork

import (
	"context"

	"enterprise-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	TicketRepository() contract.TicketRepository
	MeetingRepository() contract.MeetingRepository
	SequenceRepository() contract.SequenceRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
}
