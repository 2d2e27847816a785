package booking

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/barberqueue/barberqueue-api/internal/domain/branch"
	"github.com/barberqueue/barberqueue-api/internal/domain/user"
	"github.com/barberqueue/barberqueue-api/internal/pkg/queue"
)

// UserDirectory is the subset of the user repository the booking flow needs
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	ExistsWithRole(ctx context.Context, id int64, role user.Role) (bool, error)
}

// BranchDirectory is the subset of the branch repository the booking flow needs
type BranchDirectory interface {
	GetByID(ctx context.Context, id int64) (*branch.Branch, error)
}

// EventPublisher publishes booking lifecycle events
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event queue.BookingEvent) error
}

// Service contains booking business logic
type Service struct {
	repo      Repository
	users     UserDirectory
	branches  BranchDirectory
	publisher EventPublisher
}

// NewService creates booking service
func NewService(repo Repository, users UserDirectory, branches BranchDirectory, publisher EventPublisher) *Service {
	return &Service{repo: repo, users: users, branches: branches, publisher: publisher}
}

// Create validates the referenced client, staff and branch and creates a
// pending booking. References are checked explicitly rather than trusting
// foreign keys so the caller gets an attributable 4xx error.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Booking, error) {
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, ErrInvalidTimes
	}
	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		return nil, ErrInvalidTimes
	}
	if !endAt.After(startAt) {
		return nil, ErrInvalidTimes
	}

	client, err := s.users.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil || client.Role != user.RoleClient {
		return nil, ErrClientNotFound
	}

	staffExists, err := s.users.ExistsWithRole(ctx, req.StaffID, user.RoleStaff)
	if err != nil {
		return nil, err
	}
	if !staffExists {
		return nil, ErrStaffNotFound
	}

	br, err := s.branches.GetByID(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}
	if br == nil {
		return nil, ErrBranchNotFound
	}

	now := time.Now()
	b := &Booking{
		ClientID:      req.ClientID,
		StaffID:       req.StaffID,
		BranchID:      req.BranchID,
		StartAt:       startAt,
		EndAt:         endAt,
		TotalDuration: req.TotalDuration,
		TotalPrice:    req.TotalPrice,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, queue.EventBookingCreated, b, client, br)
	return b, nil
}

// AttachServices attaches purchased services to an existing booking as one
// all-or-nothing batch. The booking is checked first; a missing booking
// fails before any service lookup happens.
func (s *Service) AttachServices(ctx context.Context, req *AttachServicesRequest) (int64, error) {
	b, err := s.repo.GetByID(ctx, req.BookingID)
	if err != nil {
		return 0, err
	}
	if b == nil {
		return 0, ErrBookingNotFound
	}

	return s.repo.AttachServices(ctx, req.BookingID, req.ServiceIDs)
}

// ChangeStatus applies a status action (confirm, complete, cancel) after
// consulting the transition table.
func (s *Service) ChangeStatus(ctx context.Context, bookingID int64, action string) (*Booking, error) {
	target, ok := actionTargets[action]
	if !ok {
		return nil, ErrUnknownAction
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}

	if !b.Status.CanTransitionTo(target) {
		return nil, &InvalidTransitionError{From: b.Status, Target: target}
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, target); err != nil {
		return nil, err
	}
	b.Status = target
	b.UpdatedAt = time.Now()

	client, _ := s.users.GetByID(ctx, b.ClientID)
	br, _ := s.branches.GetByID(ctx, b.BranchID)
	s.publish(ctx, queue.EventBookingStatusChanged, b, client, br)

	return b, nil
}

// GetByID returns one booking
func (s *Service) GetByID(ctx context.Context, id int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// History returns the caller-scoped booking list: staff see bookings
// assigned to them, everyone else sees bookings they made as a client.
func (s *Service) History(ctx context.Context, userID int64, role string, limit, offset int) ([]Booking, int, error) {
	if role == string(user.RoleStaff) {
		bookings, err := s.repo.HistoryByStaff(ctx, userID, limit, offset)
		if err != nil {
			return nil, 0, err
		}
		total, err := s.repo.CountByStaff(ctx, userID)
		return bookings, total, err
	}

	bookings, err := s.repo.HistoryByClient(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByClient(ctx, userID)
	return bookings, total, err
}

// publish emits a booking event. Best effort: a broker failure is logged
// and never fails the originating request.
func (s *Service) publish(ctx context.Context, eventType string, b *Booking, client *user.User, br *branch.Branch) {
	if s.publisher == nil {
		return
	}

	event := queue.BookingEvent{
		Type:          eventType,
		BookingID:     b.ID,
		ClientID:      b.ClientID,
		StaffID:       b.StaffID,
		BranchID:      b.BranchID,
		StartAt:       b.StartAt.Format(time.RFC3339),
		EndAt:         b.EndAt.Format(time.RFC3339),
		TotalDuration: b.TotalDuration,
		TotalPrice:    strconv.FormatFloat(b.TotalPrice, 'f', 2, 64),
		Status:        string(b.Status),
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if client != nil {
		event.ClientName = client.FullName
		if client.Email.Valid {
			event.ClientEmail = client.Email.String
		}
	}
	if br != nil {
		event.BranchName = br.Name
	}

	if err := s.publisher.PublishBookingEvent(ctx, event); err != nil {
		log.Warn().Err(err).Int64("booking_id", b.ID).Str("event", eventType).Msg("Failed to publish booking event")
	}
}
