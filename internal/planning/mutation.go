package planning

import (
	"fmt"
	"strings"

	"github.com/lorenzaCara/enjoypark/internal/datekey"
	"github.com/lorenzaCara/enjoypark/internal/model"
)

// Mode selects between starting a planner and extending one.
type Mode string

const (
	ModeNew      Mode = "new"
	ModeExisting Mode = "existing"
)

// Op is the planner write a mutation resolves to.
type Op string

const (
	OpCreate Op = "CREATE"
	OpUpdate Op = "UPDATE"
)

// MutationRequest gathers everything PlanMutation decides on.  Planners is
// the visitor's current planner list as last fetched.
type MutationRequest struct {
	Mode        Mode
	Item        Item
	Ticket      *model.Ticket
	PlannerID   *uint64
	Planners    []model.Planner
	Title       string
	Description string
}

// Mutation is the write the caller should perform.  For OpUpdate the
// payload carries the planner ID.
type Mutation struct {
	Op      Op
	Payload model.Planner
}

// PlanMutation decides how the chosen item is merged into the visitor's
// planners.  It never touches req.Planners.
func PlanMutation(req MutationRequest) (Mutation, error) {
	r, ok := rules[req.Item.Kind]
	if !ok {
		return Mutation{}, fmt.Errorf("%w: %q", ErrUnknownKind, req.Item.Kind)
	}
	if req.Ticket == nil {
		return Mutation{}, ErrNoTicketSelected
	}
	switch req.Mode {
	case ModeNew:
		return planCreate(r, req), nil
	case ModeExisting:
		return planUpdate(r, req)
	}
	return Mutation{}, fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
}

func planCreate(r rule, req MutationRequest) Mutation {
	t := req.Ticket
	day, _ := datekey.ToDateKey(t.ValidFor)
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = DefaultTitle(req.Item)
	}
	desc := req.Description
	if desc == "" {
		desc = r.description(req.Item.Name)
	}
	p := model.Planner{
		TicketID:      t.ID,
		UserID:        t.UserID,
		Title:         title,
		Description:   desc,
		Date:          day,
		AttractionIDs: []uint64{},
		ShowIDs:       []uint64{},
		ServiceIDs:    []uint64{},
	}
	*r.slot(&p) = []uint64{req.Item.ID}
	return Mutation{Op: OpCreate, Payload: p}
}

func planUpdate(r rule, req MutationRequest) (Mutation, error) {
	if req.PlannerID == nil {
		return Mutation{}, ErrNoPlannerChosen
	}
	var target *model.Planner
	for i := range req.Planners {
		if req.Planners[i].ID == *req.PlannerID {
			target = &req.Planners[i]
			break
		}
	}
	if target == nil {
		return Mutation{}, fmt.Errorf("%w: id %d", ErrPlannerNotFound, *req.PlannerID)
	}
	p := target.Clone()
	ids := r.slot(&p)
	for _, id := range *ids {
		if id == req.Item.ID {
			return Mutation{}, fmt.Errorf("%w: %s %d in planner %d", ErrDuplicateItem, req.Item.Kind, id, p.ID)
		}
	}
	// the planner date is checked again here, not only when it was created
	if !matchesTicket(p, *req.Ticket) {
		return Mutation{}, fmt.Errorf("%w: planner %d, ticket %d", ErrPlannerTicketMismatch, p.ID, req.Ticket.ID)
	}
	*ids = append(*ids, req.Item.ID)
	return Mutation{Op: OpUpdate, Payload: p}, nil
}

// DefaultTitle is the planner title used when the visitor leaves it blank.
func DefaultTitle(item Item) string {
	return "Planner for " + item.Name
}
