package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lorenzaCara/enjoypark/internal/datekey"
	"github.com/lorenzaCara/enjoypark/internal/model"
)

// PlannerRepo persists planners and their item references.  Items live in
// planner_items, one row per (planner, kind, item); insertion order is
// preserved through the row id.
type PlannerRepo struct {
	db *sql.DB
}

// NewPlannerRepo returns a new PlannerRepo bound to the given database.
func NewPlannerRepo(db *sql.DB) *PlannerRepo { return &PlannerRepo{db: db} }

// planner_items.kind values
const (
	itemAttraction = "attraction"
	itemShow       = "show"
	itemService    = "service"
)

const plannerSelect = `SELECT id, ticket_id, user_id, title, description, DATE_FORMAT(date, '%Y-%m-%d') FROM planners`

// ListByUser returns the planners of userID ordered by day, items loaded.
func (r *PlannerRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Planner, error) {
	rows, err := r.db.QueryContext(ctx, plannerSelect+` WHERE user_id = ? ORDER BY date ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	planners, err := scanPlanners(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, r.db, planners); err != nil {
		return nil, err
	}
	return planners, nil
}

// GetByIDForUser returns ErrPlannerNotFound when the planner does not exist
// or belongs to another visitor.
func (r *PlannerRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Planner, error) {
	rows, err := r.db.QueryContext(ctx, plannerSelect+` WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return model.Planner{}, err
	}
	planners, err := scanPlanners(rows)
	if err != nil {
		return model.Planner{}, err
	}
	if len(planners) == 0 {
		return model.Planner{}, ErrPlannerNotFound
	}
	if err := r.loadItems(ctx, r.db, planners); err != nil {
		return model.Planner{}, err
	}
	return planners[0], nil
}

// Create inserts p and its items in one transaction and sets p.ID.
func (r *PlannerRepo) Create(ctx context.Context, p *model.Planner) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const q = `INSERT INTO planners (ticket_id, user_id, title, description, date) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.TicketID, p.UserID, p.Title, p.Description, dayOf(p.Date))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := insertItemsTx(ctx, tx, uint64(id), itemRows(*p)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	p.ID = uint64(id)
	return nil
}

// Update stores p's title, description, date and item lists.  Items are
// only ever added: if the stored planner holds an item p does not, p was
// built from a stale copy and ErrConflict is returned without writing.
// ErrPlannerNotFound and ErrForbidden cover a missing planner and one
// owned by a different visitor.
func (r *PlannerRepo) Update(ctx context.Context, p *model.Planner) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var owner uint64
	err = tx.QueryRowContext(ctx, `SELECT user_id FROM planners WHERE id = ? FOR UPDATE`, p.ID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPlannerNotFound
	}
	if err != nil {
		return err
	}
	if owner != p.UserID {
		return ErrForbidden
	}

	stored := []model.Planner{{ID: p.ID}}
	if err := r.loadItems(ctx, tx, stored); err != nil {
		return err
	}
	have := map[itemRow]bool{}
	for _, it := range itemRows(stored[0]) {
		have[it] = true
	}
	want := map[itemRow]bool{}
	var added []itemRow
	for _, it := range itemRows(*p) {
		want[it] = true
		if !have[it] {
			added = append(added, it)
		}
	}
	for it := range have {
		if !want[it] {
			return fmt.Errorf("%w: planner %d changed since it was read", ErrConflict, p.ID)
		}
	}

	const q = `UPDATE planners SET title = ?, description = ?, date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, p.Title, p.Description, dayOf(p.Date), p.ID); err != nil {
		return err
	}
	if err := insertItemsTx(ctx, tx, p.ID, added); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

type itemRow struct {
	kind string
	id   uint64
}

func itemRows(p model.Planner) []itemRow {
	out := make([]itemRow, 0, len(p.AttractionIDs)+len(p.ShowIDs)+len(p.ServiceIDs))
	for _, id := range p.AttractionIDs {
		out = append(out, itemRow{itemAttraction, id})
	}
	for _, id := range p.ShowIDs {
		out = append(out, itemRow{itemShow, id})
	}
	for _, id := range p.ServiceIDs {
		out = append(out, itemRow{itemService, id})
	}
	return out
}

// insertItemsTx inserts planner_items rows in a single statement.  Passing
// an empty slice has no effect.  A duplicate row becomes ErrConflict.
func insertItemsTx(ctx context.Context, tx *sql.Tx, plannerID uint64, items []itemRow) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO planner_items (planner_id, kind, item_id) VALUES `
	args := make([]interface{}, 0, len(items)*3)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, plannerID, it.kind, it.id)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: planner %d already holds one of the items", ErrConflict, plannerID)
		}
		return err
	}
	return nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// loadItems fills the id lists of planners from planner_items.
func (r *PlannerRepo) loadItems(ctx context.Context, q queryer, planners []model.Planner) error {
	if len(planners) == 0 {
		return nil
	}
	idx := make(map[uint64]int, len(planners))
	args := make([]any, 0, len(planners))
	for i := range planners {
		idx[planners[i].ID] = i
		args = append(args, planners[i].ID)
		planners[i].AttractionIDs = []uint64{}
		planners[i].ShowIDs = []uint64{}
		planners[i].ServiceIDs = []uint64{}
	}
	rows, err := q.QueryContext(ctx,
		`SELECT planner_id, kind, item_id FROM planner_items WHERE planner_id IN (`+placeholders(len(args))+`) ORDER BY id ASC`,
		args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var pid, itemID uint64
		var kind string
		if err := rows.Scan(&pid, &kind, &itemID); err != nil {
			return err
		}
		i, ok := idx[pid]
		if !ok {
			continue
		}
		p := &planners[i]
		switch kind {
		case itemAttraction:
			p.AttractionIDs = append(p.AttractionIDs, itemID)
		case itemShow:
			p.ShowIDs = append(p.ShowIDs, itemID)
		case itemService:
			p.ServiceIDs = append(p.ServiceIDs, itemID)
		}
	}
	return rows.Err()
}

func scanPlanners(rows *sql.Rows) ([]model.Planner, error) {
	defer rows.Close()
	out := []model.Planner{}
	for rows.Next() {
		var p model.Planner
		if err := rows.Scan(&p.ID, &p.TicketID, &p.UserID, &p.Title, &p.Description, &p.Date); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// dayOf reduces a planner date to the key stored in the DATE column.
func dayOf(v string) string {
	k, _ := datekey.ToDateKey(v)
	return k
}
