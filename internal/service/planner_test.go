package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorenzaCara/enjoypark/internal/model"
	"github.com/lorenzaCara/enjoypark/internal/planning"
)

func TestEligibleTicketsFiltersByKind(t *testing.T) {
	e := newEnv(
		ticketFor(1, model.TicketActive, "2025-06-18"),
		ticketFor(2, model.TicketUsed, "2025-06-18"),
		ticketFor(3, model.TicketActive, "2025-06-19"),
	)
	ctx := context.Background()

	shows, err := e.planner.EligibleTickets(ctx, visitor, planning.KindShow, parade.ID)
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, uint64(1), shows[0].ID)

	rides, err := e.planner.EligibleTickets(ctx, visitor, planning.KindAttraction, coaster.ID)
	require.NoError(t, err)
	require.Len(t, rides, 1)
	assert.Equal(t, uint64(2), rides[0].ID)

	services, err := e.planner.EligibleTickets(ctx, visitor, planning.KindService, bistro.ID)
	require.NoError(t, err)
	assert.Len(t, services, 3)
}

func TestEligibleTicketsUnknownItem(t *testing.T) {
	e := newEnv(ticketFor(1, model.TicketActive, "2025-06-18"))
	_, err := e.planner.EligibleTickets(context.Background(), visitor, planning.KindShow, 999)
	assert.ErrorIs(t, err, errMissing)

	_, err = e.planner.EligibleTickets(context.Background(), visitor, "parking", 1)
	assert.ErrorIs(t, err, planning.ErrUnknownKind)
}

func TestEligibleTicketsSourceError(t *testing.T) {
	e := newEnv()
	e.tickets.err = errors.New("db down")
	_, err := e.planner.EligibleTickets(context.Background(), visitor, planning.KindShow, parade.ID)
	assert.Error(t, err)
}

func TestApplyCreatesThenExtends(t *testing.T) {
	e := newEnv(ticketFor(1, model.TicketActive, "2025-06-18"))
	ctx := context.Background()

	sel := planning.Selection{Kind: planning.KindShow, ItemID: parade.ID, TicketID: ptr(uint64(1)), Mode: planning.ModeNew}
	p, next, err := e.planner.Apply(ctx, visitor, sel)
	require.NoError(t, err)
	assert.Equal(t, "Planner for Night Parade", p.Title)
	assert.Equal(t, "2025-06-18", p.Date)
	assert.Equal(t, []uint64{parade.ID}, p.ShowIDs)
	assert.Equal(t, planning.Selection{Kind: planning.KindShow, ItemID: parade.ID, Mode: planning.ModeNew}, next)
	require.Len(t, e.events.saved, 1)
	assert.Equal(t, "CREATE", e.events.saved[0].Op)

	cands, err := e.planner.Candidates(ctx, visitor, 1)
	require.NoError(t, err)
	require.Len(t, cands, 1)

	sel = planning.Selection{Kind: planning.KindService, ItemID: bistro.ID, TicketID: ptr(uint64(1)), Mode: planning.ModeExisting, PlannerID: ptr(p.ID)}
	up, _, err := e.planner.Apply(ctx, visitor, sel)
	require.NoError(t, err)
	assert.Equal(t, p.ID, up.ID)
	assert.Equal(t, []uint64{bistro.ID}, up.ServiceIDs)
	assert.Equal(t, []uint64{parade.ID}, up.ShowIDs)
	assert.Equal(t, 1, e.planners.creates)
	assert.Equal(t, 1, e.planners.updates)
	assert.Equal(t, "UPDATE", e.events.saved[1].Op)
}

func TestApplyErrorsLeaveSelection(t *testing.T) {
	e := newEnv(
		ticketFor(1, model.TicketActive, "2025-06-18"),
		ticketFor(2, model.TicketActive, "2025-06-19"),
	)
	ctx := context.Background()

	cases := []struct {
		name string
		sel  planning.Selection
		want error
	}{
		{"no ticket", planning.Selection{Kind: planning.KindShow, ItemID: parade.ID, Mode: planning.ModeNew}, planning.ErrNoTicketSelected},
		{"foreign ticket", planning.Selection{Kind: planning.KindShow, ItemID: parade.ID, TicketID: ptr(uint64(77)), Mode: planning.ModeNew}, ErrTicketNotFound},
		{"wrong day", planning.Selection{Kind: planning.KindShow, ItemID: parade.ID, TicketID: ptr(uint64(2)), Mode: planning.ModeNew}, planning.ErrTicketNotEligible},
		{"no planner", planning.Selection{Kind: planning.KindShow, ItemID: parade.ID, TicketID: ptr(uint64(1)), Mode: planning.ModeExisting}, planning.ErrNoPlannerChosen},
		{"unknown planner", planning.Selection{Kind: planning.KindShow, ItemID: parade.ID, TicketID: ptr(uint64(1)), Mode: planning.ModeExisting, PlannerID: ptr(uint64(5))}, planning.ErrPlannerNotFound},
		{"bad mode", planning.Selection{Kind: planning.KindShow, ItemID: parade.ID, TicketID: ptr(uint64(1)), Mode: "later"}, planning.ErrUnknownMode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, back, err := e.planner.Apply(ctx, visitor, tc.sel)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, tc.sel, back)
		})
	}
	assert.Zero(t, e.planners.creates)
	assert.Empty(t, e.events.saved)
}

func TestApplyDuplicateDoesNotWrite(t *testing.T) {
	e := newEnv(ticketFor(1, model.TicketActive, "2025-06-18"))
	ctx := context.Background()
	sel := planning.Selection{Kind: planning.KindShow, ItemID: parade.ID, TicketID: ptr(uint64(1)), Mode: planning.ModeNew}
	p, _, err := e.planner.Apply(ctx, visitor, sel)
	require.NoError(t, err)

	sel.Mode, sel.PlannerID = planning.ModeExisting, ptr(p.ID)
	_, _, err = e.planner.Apply(ctx, visitor, sel)
	assert.ErrorIs(t, err, planning.ErrDuplicateItem)
	assert.Zero(t, e.planners.updates)
}

func TestApplyStoreFailure(t *testing.T) {
	e := newEnv(ticketFor(1, model.TicketActive, "2025-06-18"))
	e.planners.err = errors.New("deadlock")
	sel := planning.Selection{Kind: planning.KindShow, ItemID: parade.ID, TicketID: ptr(uint64(1)), Mode: planning.ModeNew}
	_, back, err := e.planner.Apply(context.Background(), visitor, sel)
	assert.Error(t, err)
	assert.Equal(t, sel, back)
	assert.Empty(t, e.events.saved)
}

func TestApplyPublishFailureKeepsWrite(t *testing.T) {
	e := newEnv(ticketFor(1, model.TicketActive, "2025-06-18"))
	e.events.err = errors.New("broker down")
	sel := planning.Selection{Kind: planning.KindShow, ItemID: parade.ID, TicketID: ptr(uint64(1)), Mode: planning.ModeNew}
	p, _, err := e.planner.Apply(context.Background(), visitor, sel)
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
}

func TestCandidatesForeignTicket(t *testing.T) {
	e := newEnv()
	_, err := e.planner.Candidates(context.Background(), visitor, 1)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}
