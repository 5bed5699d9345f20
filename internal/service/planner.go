package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lorenzaCara/enjoypark/internal/model"
	"github.com/lorenzaCara/enjoypark/internal/planning"
	"github.com/lorenzaCara/enjoypark/internal/queue"
)

// Planner drives the "add to planner" flow for attractions, shows and
// services.
type Planner struct {
	Tickets  TicketSource
	Planners PlannerStore
	Catalog  Catalog
	Events   EventPublisher
	Now      func() time.Time
}

// NewPlanner wires a Planner.  A nil events publisher drops events.
func NewPlanner(tickets TicketSource, planners PlannerStore, catalog Catalog, events EventPublisher) *Planner {
	if events == nil {
		events = NopPublisher{}
	}
	return &Planner{Tickets: tickets, Planners: planners, Catalog: catalog, Events: events, Now: time.Now}
}

// Item loads the catalog entry behind kind/id.
func (s *Planner) Item(ctx context.Context, kind planning.ItemKind, id uint64) (planning.Item, error) {
	switch kind {
	case planning.KindAttraction:
		a, err := s.Catalog.GetAttraction(ctx, id)
		if err != nil {
			return planning.Item{}, err
		}
		return planning.AttractionItem(a), nil
	case planning.KindShow:
		sh, err := s.Catalog.GetShow(ctx, id)
		if err != nil {
			return planning.Item{}, err
		}
		return planning.ShowItem(sh), nil
	case planning.KindService:
		sv, err := s.Catalog.GetService(ctx, id)
		if err != nil {
			return planning.Item{}, err
		}
		return planning.ServiceItem(sv), nil
	}
	return planning.Item{}, fmt.Errorf("%w: %q", planning.ErrUnknownKind, kind)
}

// EligibleTickets lists the visitor's tickets that unlock the item.
func (s *Planner) EligibleTickets(ctx context.Context, userID uint64, kind planning.ItemKind, itemID uint64) ([]model.Ticket, error) {
	item, err := s.Item(ctx, kind, itemID)
	if err != nil {
		return nil, err
	}
	tickets, err := s.Tickets.ListPurchasedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return planning.EligibleTickets(item, tickets), nil
}

// Candidates lists the visitor's planners an item picked with ticketID may
// be added to.
func (s *Planner) Candidates(ctx context.Context, userID, ticketID uint64) ([]model.Planner, error) {
	ticket, err := s.ownTicket(ctx, userID, ticketID)
	if err != nil {
		return nil, err
	}
	planners, err := s.Planners.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list planners: %w", err)
	}
	return planning.CandidatePlanners(planners, ticket), nil
}

// Apply performs the planner write described by sel and returns the stored
// planner with the selection reset for the next pick.  On error sel comes
// back untouched.
func (s *Planner) Apply(ctx context.Context, userID uint64, sel planning.Selection) (model.Planner, planning.Selection, error) {
	m, item, err := s.prepare(ctx, userID, sel)
	if err != nil {
		return model.Planner{}, sel, err
	}
	saved, err := s.commit(ctx, m, item)
	if err != nil {
		return model.Planner{}, sel, err
	}
	return saved, sel.Reset(), nil
}

// prepare resolves the selection and decides the write without performing it.
func (s *Planner) prepare(ctx context.Context, userID uint64, sel planning.Selection) (planning.Mutation, planning.Item, error) {
	item, err := s.Item(ctx, sel.Kind, sel.ItemID)
	if err != nil {
		return planning.Mutation{}, planning.Item{}, err
	}
	if sel.TicketID == nil {
		return planning.Mutation{}, item, planning.ErrNoTicketSelected
	}
	ticket, err := s.ownTicket(ctx, userID, *sel.TicketID)
	if err != nil {
		return planning.Mutation{}, item, err
	}
	if !planning.Grants(item, ticket) {
		return planning.Mutation{}, item, fmt.Errorf("%w: ticket %d, %s %d", planning.ErrTicketNotEligible, ticket.ID, item.Kind, item.ID)
	}

	req := planning.MutationRequest{
		Mode:        sel.Mode,
		Item:        item,
		Ticket:      &ticket,
		PlannerID:   sel.PlannerID,
		Title:       sel.Title,
		Description: sel.Description,
	}
	if sel.Mode == planning.ModeExisting {
		if req.Planners, err = s.Planners.ListByUser(ctx, userID); err != nil {
			return planning.Mutation{}, item, fmt.Errorf("list planners: %w", err)
		}
	}
	m, err := planning.PlanMutation(req)
	return m, item, err
}

// commit performs the single write of m and announces it.
func (s *Planner) commit(ctx context.Context, m planning.Mutation, item planning.Item) (model.Planner, error) {
	p := m.Payload
	switch m.Op {
	case planning.OpCreate:
		if err := s.Planners.Create(ctx, &p); err != nil {
			return model.Planner{}, fmt.Errorf("create planner: %w", err)
		}
	case planning.OpUpdate:
		if err := s.Planners.Update(ctx, &p); err != nil {
			return model.Planner{}, fmt.Errorf("update planner %d: %w", p.ID, err)
		}
	}

	ev := queue.PlannerSavedEvent{
		PlannerID: p.ID,
		TicketID:  p.TicketID,
		UserID:    p.UserID,
		Op:        string(m.Op),
		Kind:      string(item.Kind),
		ItemID:    item.ID,
		Date:      p.Date,
		Title:     p.Title,
		SavedAt:   s.now().UTC().Format(time.RFC3339),
	}
	// publish failures do not undo the write
	if err := s.Events.PublishPlannerSaved(ctx, ev); err != nil {
		log.Warn().Err(err).Uint64("planner_id", p.ID).Msg("planner.saved not published")
	}
	log.Info().Str("component", "planner").Str("op", string(m.Op)).
		Uint64("planner_id", p.ID).Uint64("user_id", p.UserID).
		Str("kind", string(item.Kind)).Uint64("item_id", item.ID).Msg("planner saved")
	return p, nil
}

func (s *Planner) ownTicket(ctx context.Context, userID, ticketID uint64) (model.Ticket, error) {
	tickets, err := s.Tickets.ListPurchasedByUser(ctx, userID)
	if err != nil {
		return model.Ticket{}, fmt.Errorf("list tickets: %w", err)
	}
	t, ok := findTicket(tickets, ticketID)
	if !ok {
		return model.Ticket{}, fmt.Errorf("%w: id %d", ErrTicketNotFound, ticketID)
	}
	return t, nil
}

func (s *Planner) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
