package booking

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/barberqueue/barberqueue-api/internal/domain/branch"
	"github.com/barberqueue/barberqueue-api/internal/domain/user"
	"github.com/barberqueue/barberqueue-api/internal/pkg/queue"
)

type fakeRepo struct {
	bookings map[int64]*Booking
	services map[int64]bool
	nextID   int64

	joinRows    []BookingService
	attachCalls int
	statuses    map[int64]Status
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings: make(map[int64]*Booking),
		services: make(map[int64]bool),
		nextID:   1,
		statuses: make(map[int64]Status),
	}
}

func (f *fakeRepo) Create(_ context.Context, b *Booking) error {
	b.ID = f.nextID
	f.nextID++
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepo) AttachServices(_ context.Context, bookingID int64, serviceIDs []int64) (int64, error) {
	f.attachCalls++
	for _, id := range serviceIDs {
		if !f.services[id] {
			return 0, &ServiceNotFoundError{ID: id}
		}
	}
	for _, id := range serviceIDs {
		f.joinRows = append(f.joinRows, BookingService{BookingID: bookingID, ServiceID: id})
	}
	return int64(len(serviceIDs)), nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status Status) error {
	b, ok := f.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = status
	f.statuses[id] = status
	return nil
}

func (f *fakeRepo) HistoryByClient(_ context.Context, clientID int64, _, _ int) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.ClientID == clientID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountByClient(_ context.Context, clientID int64) (int, error) {
	n := 0
	for _, b := range f.bookings {
		if b.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) HistoryByStaff(_ context.Context, staffID int64, _, _ int) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.StaffID == staffID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountByStaff(_ context.Context, staffID int64) (int, error) {
	n := 0
	for _, b := range f.bookings {
		if b.StaffID == staffID {
			n++
		}
	}
	return n, nil
}

type fakeUsers struct {
	users map[int64]*user.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	return f.users[id], nil
}

func (f *fakeUsers) ExistsWithRole(_ context.Context, id int64, role user.Role) (bool, error) {
	u, ok := f.users[id]
	return ok && u.Role == role, nil
}

type fakeBranches struct {
	branches map[int64]*branch.Branch
}

func (f *fakeBranches) GetByID(_ context.Context, id int64) (*branch.Branch, error) {
	return f.branches[id], nil
}

type fakePublisher struct {
	events []queue.BookingEvent
}

func (f *fakePublisher) PublishBookingEvent(_ context.Context, event queue.BookingEvent) error {
	f.events = append(f.events, event)
	return nil
}

func newTestService() (*Service, *fakeRepo, *fakePublisher) {
	repo := newFakeRepo()
	users := &fakeUsers{users: map[int64]*user.User{
		1: {ID: 1, FullName: "Aida Client", Role: user.RoleClient, Email: sql.NullString{String: "aida@example.com", Valid: true}},
		2: {ID: 2, FullName: "Bek Staff", Role: user.RoleStaff},
	}}
	branches := &fakeBranches{branches: map[int64]*branch.Branch{
		3: {ID: 3, Name: "Downtown"},
	}}
	pub := &fakePublisher{}
	return NewService(repo, users, branches, pub), repo, pub
}

func validCreateRequest() *CreateRequest {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	return &CreateRequest{
		StartAt:       start.Format(time.RFC3339),
		EndAt:         start.Add(time.Hour).Format(time.RFC3339),
		TotalDuration: 60,
		TotalPrice:    4500,
		ClientID:      1,
		StaffID:       2,
		BranchID:      3,
	}
}

func TestCreateBooking(t *testing.T) {
	svc, repo, pub := newTestService()

	b, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ID == 0 {
		t.Error("expected booking id to be assigned")
	}
	if b.Status != StatusPending {
		t.Errorf("status = %s, want pending", b.Status)
	}
	if _, ok := repo.bookings[b.ID]; !ok {
		t.Error("booking not persisted")
	}
	if len(pub.events) != 1 || pub.events[0].Type != queue.EventBookingCreated {
		t.Errorf("expected one booking.created event, got %v", pub.events)
	}
	if pub.events[0].ClientEmail != "aida@example.com" {
		t.Errorf("event client email = %q", pub.events[0].ClientEmail)
	}
}

func TestCreateBookingValidatesReferences(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr error
	}{
		{"unknown client", func(r *CreateRequest) { r.ClientID = 99 }, ErrClientNotFound},
		{"staff id is a client", func(r *CreateRequest) { r.StaffID = 1 }, ErrStaffNotFound},
		{"unknown branch", func(r *CreateRequest) { r.BranchID = 99 }, ErrBranchNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			req := validCreateRequest()
			tt.mutate(req)

			if _, err := svc.Create(context.Background(), req); err != tt.wantErr {
				t.Errorf("Create error = %v, want %v", err, tt.wantErr)
			}
			if len(repo.bookings) != 0 {
				t.Error("booking persisted despite invalid reference")
			}
		})
	}
}

func TestCreateBookingRejectsBadTimeWindow(t *testing.T) {
	svc, _, _ := newTestService()
	req := validCreateRequest()
	req.EndAt = req.StartAt

	if _, err := svc.Create(context.Background(), req); err != ErrInvalidTimes {
		t.Errorf("Create error = %v, want ErrInvalidTimes", err)
	}
}

func TestAttachServicesPersistsJoinRows(t *testing.T) {
	svc, repo, _ := newTestService()
	b, _ := svc.Create(context.Background(), validCreateRequest())
	repo.services[10] = true
	repo.services[11] = true

	count, err := svc.AttachServices(context.Background(), &AttachServicesRequest{
		BookingID:  b.ID,
		ServiceIDs: []int64{10, 11},
	})
	if err != nil {
		t.Fatalf("AttachServices: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if len(repo.joinRows) != 2 {
		t.Fatalf("join rows = %d, want 2", len(repo.joinRows))
	}
	for i, want := range []int64{10, 11} {
		row := repo.joinRows[i]
		if row.BookingID != b.ID || row.ServiceID != want {
			t.Errorf("row %d = %+v, want booking %d service %d", i, row, b.ID, want)
		}
	}
}

func TestAttachServicesUnknownServiceRollsBack(t *testing.T) {
	svc, repo, _ := newTestService()
	b, _ := svc.Create(context.Background(), validCreateRequest())
	repo.services[10] = true

	_, err := svc.AttachServices(context.Background(), &AttachServicesRequest{
		BookingID:  b.ID,
		ServiceIDs: []int64{10, 999},
	})
	if err == nil {
		t.Fatal("expected error for unknown service")
	}
	if !strings.Contains(err.Error(), "Service with id 999 does not exist") {
		t.Errorf("error = %q, want it to name service 999", err.Error())
	}
	if len(repo.joinRows) != 0 {
		t.Errorf("join rows = %d, want 0 after rollback", len(repo.joinRows))
	}
}

func TestAttachServicesMissingBookingSkipsServiceLookups(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.services[10] = true

	_, err := svc.AttachServices(context.Background(), &AttachServicesRequest{
		BookingID:  42,
		ServiceIDs: []int64{10},
	})
	if err != ErrBookingNotFound {
		t.Fatalf("error = %v, want ErrBookingNotFound", err)
	}
	if repo.attachCalls != 0 {
		t.Errorf("attach called %d times, want 0 for a missing booking", repo.attachCalls)
	}
}

func TestChangeStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		action  string
		want    Status
		allowed bool
	}{
		{StatusPending, "confirm", StatusConfirmed, true},
		{StatusPending, "cancel", StatusCancelled, true},
		{StatusPending, "complete", StatusCompleted, false},
		{StatusConfirmed, "complete", StatusCompleted, true},
		{StatusConfirmed, "cancel", StatusCancelled, true},
		{StatusConfirmed, "confirm", StatusConfirmed, false},
		{StatusCompleted, "cancel", StatusCancelled, false},
		{StatusCancelled, "complete", StatusCompleted, false},
		{StatusCancelled, "confirm", StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+tt.action, func(t *testing.T) {
			svc, repo, _ := newTestService()
			b, _ := svc.Create(context.Background(), validCreateRequest())
			repo.bookings[b.ID].Status = tt.from

			updated, err := svc.ChangeStatus(context.Background(), b.ID, tt.action)
			if tt.allowed {
				if err != nil {
					t.Fatalf("ChangeStatus: %v", err)
				}
				if updated.Status != tt.want {
					t.Errorf("status = %s, want %s", updated.Status, tt.want)
				}
				return
			}

			var transitionErr *InvalidTransitionError
			if err == nil {
				t.Fatal("expected transition to be rejected")
			}
			if !errors.As(err, &transitionErr) {
				t.Fatalf("error = %T, want *InvalidTransitionError", err)
			}
			if repo.bookings[b.ID].Status != tt.from {
				t.Errorf("status changed to %s on rejected transition", repo.bookings[b.ID].Status)
			}
		})
	}
}

func TestChangeStatusUnknownAction(t *testing.T) {
	svc, _, _ := newTestService()
	b, _ := svc.Create(context.Background(), validCreateRequest())

	if _, err := svc.ChangeStatus(context.Background(), b.ID, "archive"); err != ErrUnknownAction {
		t.Errorf("error = %v, want ErrUnknownAction", err)
	}
}

func TestChangeStatusMissingBooking(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.ChangeStatus(context.Background(), 42, "confirm"); err != ErrBookingNotFound {
		t.Errorf("error = %v, want ErrBookingNotFound", err)
	}
}

func TestChangeStatusPublishesEvent(t *testing.T) {
	svc, _, pub := newTestService()
	b, _ := svc.Create(context.Background(), validCreateRequest())
	pub.events = nil

	if _, err := svc.ChangeStatus(context.Background(), b.ID, "confirm"); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("events = %d, want 1", len(pub.events))
	}
	if pub.events[0].Type != queue.EventBookingStatusChanged || pub.events[0].Status != "confirmed" {
		t.Errorf("event = %+v", pub.events[0])
	}
}

func TestHistoryScopesByRole(t *testing.T) {
	svc, _, _ := newTestService()
	b, _ := svc.Create(context.Background(), validCreateRequest())

	asClient, total, err := svc.History(context.Background(), b.ClientID, "client", 20, 0)
	if err != nil || total != 1 || len(asClient) != 1 {
		t.Fatalf("client history = %d items, total %d, err %v", len(asClient), total, err)
	}

	asStaff, total, err := svc.History(context.Background(), b.StaffID, "staff", 20, 0)
	if err != nil || total != 1 || len(asStaff) != 1 {
		t.Fatalf("staff history = %d items, total %d, err %v", len(asStaff), total, err)
	}

	empty, total, err := svc.History(context.Background(), 77, "client", 20, 0)
	if err != nil || total != 0 || len(empty) != 0 {
		t.Fatalf("unrelated history = %d items, total %d, err %v", len(empty), total, err)
	}
}
