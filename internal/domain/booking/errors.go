package booking

import (
	"errors"
	"fmt"
)

// Booking errors
var (
	ErrBookingNotFound = errors.New("Booking does not exist")
	ErrClientNotFound  = errors.New("client not found")
	ErrStaffNotFound   = errors.New("staff not found")
	ErrBranchNotFound  = errors.New("branch not found")
	ErrInvalidTimes    = errors.New("end time must be after start time")
	ErrUnknownAction   = errors.New("unknown status action")
)

// ServiceNotFoundError identifies which service id in an association request
// was invalid.
type ServiceNotFoundError struct {
	ID int64
}

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("Service with id %d does not exist", e.ID)
}

// InvalidTransitionError is returned when the status transition table
// forbids the requested action from the booking's current status.
type InvalidTransitionError struct {
	From   Status
	Target Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.Target)
}
