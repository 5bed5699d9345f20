package planning

import "errors"

// Validation failures.  All of them are returned before any external write
// is attempted; handlers translate them into 4xx responses.
var (
	// ErrNoTicketSelected is returned when a mutation or booking needs a
	// ticket and none was chosen.
	ErrNoTicketSelected = errors.New("no ticket selected")
	// ErrNoPlannerChosen is returned for mode "existing" without a planner id.
	ErrNoPlannerChosen = errors.New("no planner chosen")
	// ErrPlannerNotFound is returned when the chosen planner is not in the
	// visitor's planner list (deleted meanwhile, or never theirs).
	ErrPlannerNotFound = errors.New("planner not found")
	// ErrDuplicateItem is returned when the item is already in the planner.
	ErrDuplicateItem = errors.New("item already in planner")
	// ErrPlannerTicketMismatch is returned when the chosen planner belongs to
	// a different ticket or day than the selected ticket.
	ErrPlannerTicketMismatch = errors.New("planner does not match the selected ticket")
	ErrUnknownKind           = errors.New("unknown item kind")
	ErrUnknownMode           = errors.New("unknown planner mode")

	// ErrMissingSchedule is returned for a booking without a date or time.
	ErrMissingSchedule    = errors.New("booking date and time are required")
	ErrInvalidSchedule    = errors.New("booking date or time is malformed")
	ErrTicketDateMismatch = errors.New("booking date differs from the ticket's valid day")
	ErrDateInPast         = errors.New("booking date is in the past")
	ErrServiceNotBookable = errors.New("service does not take bookings")
	ErrTicketNotEligible  = errors.New("ticket does not grant this item")
)
