// Package action performs the side effect behind a confirmed issue: an IT
// ticket or an HR meeting request.
package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/internal/pkg/mailer"
	"enterprise-assistant-be/pkg/events"
	"enterprise-assistant-be/pkg/store"
)

// Record defaults.
const (
	TicketStatusOpen      = "OPEN"
	TicketStatusSubmitted = "SUBMITTED"
	TicketPriorityMedium  = "MEDIUM"
	TicketAssignee        = "IT Support Team"

	MeetingStatusPending = "PENDING"
	MeetingDepartmentHR  = "HR"
	ToBeScheduled        = "To be scheduled"

	StatusFailed = "FAILED"
)

const (
	EventTicketCreated    = "TICKET_CREATED"
	EventMeetingRequested = "MEETING_REQUESTED"
)

// Degraded is returned when the record could not be stored.
const Degraded = "I could not complete your request right now. Nothing was created, please try again later."

type TicketInput struct {
	Issue      string
	Requester  store.Requester
	Status     string
	Priority   string
	AssignedTo string
}

type MeetingInput struct {
	Department string
	Date       string
	Time       string
	Reason     string
	Requester  store.Requester
	Status     string
}

// Created identifies a stored record.
type Created struct {
	ID        string
	CreatedAt time.Time
}

// RecordStore persists records and allocates their sequential identifiers.
type RecordStore interface {
	CreateTicket(ctx context.Context, in TicketInput) (Created, error)
	CreateMeeting(ctx context.Context, in MeetingInput) (Created, error)
}

type Notifier interface {
	Send(recipient, subject, htmlBody string) error
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Result struct {
	ID      string `json:"id,omitempty"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Config struct {
	HRMailbox    string
	StoreTimeout time.Duration
	MailTimeout  time.Duration
	EventTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		HRMailbox:    "hr@example.com",
		StoreTimeout: 5 * time.Second,
		MailTimeout:  10 * time.Second,
		EventTimeout: 2 * time.Second,
	}
}

type Executor struct {
	store     RecordStore
	notifier  Notifier
	publisher Publisher
	cfg       Config
	logger    logger.ILogger
	now       func() time.Time
}

// NewExecutor wires the executor. notifier and publisher may be nil.
func NewExecutor(recordStore RecordStore, notifier Notifier, publisher Publisher, cfg Config, log logger.ILogger) *Executor {
	def := DefaultConfig()
	if cfg.HRMailbox == "" {
		cfg.HRMailbox = def.HRMailbox
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = def.StoreTimeout
	}
	if cfg.MailTimeout <= 0 {
		cfg.MailTimeout = def.MailTimeout
	}
	if cfg.EventTimeout <= 0 {
		cfg.EventTimeout = def.EventTimeout
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Executor{
		store:     recordStore,
		notifier:  notifier,
		publisher: publisher,
		cfg:       cfg,
		logger:    log,
		now:       time.Now,
	}
}

// Execute never returns an error: failures become a degraded Result.
func (e *Executor) Execute(ctx context.Context, category store.Category, description string, requester store.Requester) Result {
	requester = requester.Normalize()

	switch category {
	case store.CategoryHRMeeting:
		return e.scheduleMeeting(ctx, description, requester)
	case store.CategoryITIssue:
		return e.createTicket(ctx, description, requester)
	default:
		e.logger.Warn(logger.ModuleAction, "Unsupported action category", map[string]interface{}{"category": category})
		return Result{Status: StatusFailed, Message: Degraded}
	}
}

func (e *Executor) createTicket(ctx context.Context, issue string, requester store.Requester) Result {
	if e.store == nil {
		return Result{Status: StatusFailed, Message: Degraded}
	}

	storeCtx, cancel := context.WithTimeout(ctx, e.cfg.StoreTimeout)
	created, err := e.store.CreateTicket(storeCtx, TicketInput{
		Issue:      issue,
		Requester:  requester,
		Status:     TicketStatusOpen,
		Priority:   TicketPriorityMedium,
		AssignedTo: TicketAssignee,
	})
	cancel()
	if err != nil {
		e.logger.Error(logger.ModuleAction, "Failed to create ticket", map[string]interface{}{"error": err.Error()})
		return Result{Status: StatusFailed, Message: Degraded}
	}

	e.logger.Info(logger.ModuleAction, "Ticket created", map[string]interface{}{
		"ticket_id":    created.ID,
		"requester_id": requester.ID,
	})

	if requester.Email != "" {
		e.notify(requester.Email, fmt.Sprintf("IT Ticket %s Created", created.ID),
			ticketCreatedBody(created.ID, issue, TicketStatusOpen, created.CreatedAt))
	}

	e.publish(ctx, EventTicketCreated, map[string]interface{}{
		"ticket_id":    created.ID,
		"requester_id": requester.ID,
		"priority":     TicketPriorityMedium,
	})

	return Result{
		ID:      created.ID,
		Status:  TicketStatusSubmitted,
		Message: fmt.Sprintf("IT ticket %s has been created (status: %s). Our support team will contact you shortly.", created.ID, TicketStatusSubmitted),
	}
}

func (e *Executor) scheduleMeeting(ctx context.Context, reason string, requester store.Requester) Result {
	if e.store == nil {
		return Result{Status: StatusFailed, Message: Degraded}
	}

	in := MeetingInput{
		Department: MeetingDepartmentHR,
		Date:       ToBeScheduled,
		Time:       ToBeScheduled,
		Reason:     reason,
		Requester:  requester,
		Status:     MeetingStatusPending,
	}

	storeCtx, cancel := context.WithTimeout(ctx, e.cfg.StoreTimeout)
	created, err := e.store.CreateMeeting(storeCtx, in)
	cancel()
	if err != nil {
		e.logger.Error(logger.ModuleAction, "Failed to create meeting request", map[string]interface{}{"error": err.Error()})
		return Result{Status: StatusFailed, Message: Degraded}
	}

	e.logger.Info(logger.ModuleAction, "Meeting requested", map[string]interface{}{
		"meeting_id":   created.ID,
		"requester_id": requester.ID,
	})

	e.notify(e.cfg.HRMailbox, fmt.Sprintf("Meeting Request %s", created.ID), meetingRequestBody(created.ID, in))
	if requester.Email != "" {
		e.notify(requester.Email, fmt.Sprintf("Meeting Request %s Submitted", created.ID),
			meetingSubmittedBody(created.ID, in.Department))
	}

	e.publish(ctx, EventMeetingRequested, map[string]interface{}{
		"meeting_id":   created.ID,
		"requester_id": requester.ID,
		"department":   in.Department,
	})

	return Result{
		ID:     created.ID,
		Status: MeetingStatusPending,
		Message: fmt.Sprintf("Meeting request %s submitted to %s (status: %s). You'll receive a confirmation email shortly.",
			created.ID, in.Department, MeetingStatusPending),
	}
}

// notify sends one email, waiting at most MailTimeout. Failures are logged.
func (e *Executor) notify(recipient, subject, body string) {
	if e.notifier == nil || recipient == "" {
		return
	}

	done := make(chan error, 1)
	go func() { done <- e.notifier.Send(recipient, subject, body) }()

	timer := time.NewTimer(e.cfg.MailTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		switch {
		case err == nil:
		case errors.Is(err, mailer.ErrMailerDisabled):
			e.logger.Debug(logger.ModuleMailer, "Mailer disabled, skipping email", map[string]interface{}{"subject": subject})
		default:
			e.logger.Warn(logger.ModuleMailer, "Email failed", map[string]interface{}{
				"subject": subject,
				"error":   err.Error(),
			})
		}
	case <-timer.C:
		e.logger.Warn(logger.ModuleMailer, "Email timed out", map[string]interface{}{"subject": subject})
	}
}

func (e *Executor) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if e.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, e.cfg.EventTimeout)
	defer cancel()

	err := e.publisher.Publish(pubCtx, events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: e.now(),
	})
	if err != nil {
		e.logger.Warn(logger.ModuleEvents, "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
