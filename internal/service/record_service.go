package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"enterprise-assistant-be/internal/dto"
	"enterprise-assistant-be/internal/entity"
	"enterprise-assistant-be/internal/repository/implementation"
	"enterprise-assistant-be/internal/repository/specification"
	"enterprise-assistant-be/internal/repository/unitofwork"
	"enterprise-assistant-be/pkg/assistant/action"
)

// Sequence names and the first identifier each hands out.
const (
	ticketSequence       = "ticket"
	ticketSequenceStart  = 1001
	meetingSequence      = "meeting"
	meetingSequenceStart = 2001
)

type IRecordService interface {
	action.RecordStore

	ListTickets(ctx context.Context, req *dto.ListRecordsRequest) ([]*dto.TicketResponse, error)
	GetTicket(ctx context.Context, id string) (*dto.TicketResponse, error)
	UpdateTicketStatus(ctx context.Context, id string, status string) (*dto.TicketResponse, error)

	ListMeetings(ctx context.Context, req *dto.ListRecordsRequest) ([]*dto.MeetingResponse, error)
	GetMeeting(ctx context.Context, id string) (*dto.MeetingResponse, error)
	UpdateMeetingStatus(ctx context.Context, id string, status string) (*dto.MeetingResponse, error)
}

type recordService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewRecordService(uowFactory unitofwork.RepositoryFactory) IRecordService {
	return &recordService{uowFactory: uowFactory}
}

// CreateTicket allocates the next TICKET-<n> and stores the ticket in the
// same transaction, so a failed insert never burns a visible number.
func (s *recordService) CreateTicket(ctx context.Context, in action.TicketInput) (action.Created, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return action.Created{}, err
	}
	defer uow.Rollback()

	seq, err := uow.SequenceRepository().Next(ctx, ticketSequence, ticketSequenceStart)
	if err != nil {
		return action.Created{}, fmt.Errorf("allocate ticket id: %w", err)
	}

	ticket := &entity.Ticket{
		Id:             fmt.Sprintf("TICKET-%d", seq),
		Sequence:       seq,
		Issue:          in.Issue,
		RequesterId:    in.Requester.ID,
		RequesterName:  in.Requester.Name,
		RequesterEmail: in.Requester.Email,
		Status:         in.Status,
		Priority:       in.Priority,
		AssignedTo:     in.AssignedTo,
		CreatedAt:      time.Now(),
	}
	if err := uow.TicketRepository().Create(ctx, ticket); err != nil {
		return action.Created{}, fmt.Errorf("create ticket: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return action.Created{}, err
	}

	return action.Created{ID: ticket.Id, CreatedAt: ticket.CreatedAt}, nil
}

func (s *recordService) CreateMeeting(ctx context.Context, in action.MeetingInput) (action.Created, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return action.Created{}, err
	}
	defer uow.Rollback()

	seq, err := uow.SequenceRepository().Next(ctx, meetingSequence, meetingSequenceStart)
	if err != nil {
		return action.Created{}, fmt.Errorf("allocate meeting id: %w", err)
	}

	meeting := &entity.Meeting{
		Id:             fmt.Sprintf("MEETING-%d", seq),
		Sequence:       seq,
		Department:     in.Department,
		Date:           in.Date,
		Time:           in.Time,
		Reason:         in.Reason,
		RequesterId:    in.Requester.ID,
		RequesterName:  in.Requester.Name,
		RequesterEmail: in.Requester.Email,
		Status:         in.Status,
		CreatedAt:      time.Now(),
	}
	if err := uow.MeetingRepository().Create(ctx, meeting); err != nil {
		return action.Created{}, fmt.Errorf("create meeting: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return action.Created{}, err
	}

	return action.Created{ID: meeting.Id, CreatedAt: meeting.CreatedAt}, nil
}

func listSpecs(req *dto.ListRecordsRequest) []specification.Specification {
	specs := []specification.Specification{specification.OrderBy{Field: "sequence", Desc: true}}
	if req == nil {
		return append(specs, specification.Pagination{Limit: 50})
	}
	if req.Status != "" {
		specs = append(specs, specification.ByStatus{Status: req.Status})
	}
	if req.RequesterId != "" {
		specs = append(specs, specification.ByRequesterID{RequesterID: req.RequesterId})
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	return append(specs, specification.Pagination{Limit: limit, Offset: req.Offset})
}

func (s *recordService) ListTickets(ctx context.Context, req *dto.ListRecordsRequest) ([]*dto.TicketResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tickets, err := uow.TicketRepository().FindAll(ctx, listSpecs(req)...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		res = append(res, toTicketResponse(t))
	}
	return res, nil
}

func (s *recordService) GetTicket(ctx context.Context, id string) (*dto.TicketResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ticket, err := uow.TicketRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, fmt.Errorf("ticket %s: %w", id, ErrNotFound)
	}
	return toTicketResponse(ticket), nil
}

func (s *recordService) UpdateTicketStatus(ctx context.Context, id string, status string) (*dto.TicketResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.TicketRepository().UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, implementation.ErrRecordNotFound) {
			return nil, fmt.Errorf("ticket %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return s.GetTicket(ctx, id)
}

func (s *recordService) ListMeetings(ctx context.Context, req *dto.ListRecordsRequest) ([]*dto.MeetingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	meetings, err := uow.MeetingRepository().FindAll(ctx, listSpecs(req)...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		res = append(res, toMeetingResponse(m))
	}
	return res, nil
}

func (s *recordService) GetMeeting(ctx context.Context, id string) (*dto.MeetingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	meeting, err := uow.MeetingRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, fmt.Errorf("meeting %s: %w", id, ErrNotFound)
	}
	return toMeetingResponse(meeting), nil
}

func (s *recordService) UpdateMeetingStatus(ctx context.Context, id string, status string) (*dto.MeetingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.MeetingRepository().UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, implementation.ErrRecordNotFound) {
			return nil, fmt.Errorf("meeting %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return s.GetMeeting(ctx, id)
}

func toTicketResponse(t *entity.Ticket) *dto.TicketResponse {
	return &dto.TicketResponse{
		Id:             t.Id,
		Issue:          t.Issue,
		RequesterId:    t.RequesterId,
		RequesterName:  t.RequesterName,
		RequesterEmail: t.RequesterEmail,
		Status:         t.Status,
		Priority:       t.Priority,
		AssignedTo:     t.AssignedTo,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func toMeetingResponse(m *entity.Meeting) *dto.MeetingResponse {
	return &dto.MeetingResponse{
		Id:             m.Id,
		Department:     m.Department,
		Date:           m.Date,
		Time:           m.Time,
		Reason:         m.Reason,
		RequesterId:    m.RequesterId,
		RequesterName:  m.RequesterName,
		RequesterEmail: m.RequesterEmail,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
