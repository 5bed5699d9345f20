// Package repository contains data access logic for the park catalog:
// attractions, shows and services.  The catalog is maintained by the
// back office; this service only reads it.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lorenzaCara/enjoypark/internal/model"
)

// CatalogRepo reads attractions, shows and services.
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo constructs a CatalogRepo with the given DB handle.
func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

const (
	attractionCols = `id, name, category, wait_time, location, description`
	// dates are formatted in SQL so the day never goes through a time.Time
	showCols    = `id, title, DATE_FORMAT(date, '%Y-%m-%d'), time, location, description`
	serviceCols = `id, name, type, operating_hours, location`
)

type scanner interface {
	Scan(dest ...any) error
}

func scanAttraction(s scanner) (model.Attraction, error) {
	var a model.Attraction
	err := s.Scan(&a.ID, &a.Name, &a.Category, &a.WaitTime, &a.Location, &a.Description)
	return a, err
}

func scanShow(s scanner) (model.Show, error) {
	var sh model.Show
	err := s.Scan(&sh.ID, &sh.Title, &sh.Date, &sh.Time, &sh.Location, &sh.Description)
	return sh, err
}

func scanService(s scanner) (model.Service, error) {
	var sv model.Service
	var typ string
	err := s.Scan(&sv.ID, &sv.Name, &typ, &sv.OperatingHours, &sv.Location)
	sv.Type = model.ServiceType(typ)
	return sv, err
}

// ListAttractions returns all attractions ordered by name.
func (r *CatalogRepo) ListAttractions(ctx context.Context) ([]model.Attraction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+attractionCols+` FROM attractions ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Attraction{}
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAttraction returns ErrAttractionNotFound when id does not exist.
func (r *CatalogRepo) GetAttraction(ctx context.Context, id uint64) (model.Attraction, error) {
	a, err := scanAttraction(r.db.QueryRowContext(ctx, `SELECT `+attractionCols+` FROM attractions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Attraction{}, ErrAttractionNotFound
	}
	return a, err
}

// ShowQuery filters ListShows.  Zero values mean "no filter"; Date is a
// "YYYY-MM-DD" key.
type ShowQuery struct {
	Title    string
	Date     string
	Page     int
	PageSize int
}

// ListShows returns shows ordered by day and start time, with the total
// number of matches for pagination.
func (r *CatalogRepo) ListShows(ctx context.Context, q ShowQuery) ([]model.Show, int64, error) {
	where := []string{}
	args := []any{}
	if q.Title != "" {
		where = append(where, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Title)+"%")
	}
	if q.Date != "" {
		where = append(where, "date = ?")
		args = append(args, q.Date)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shows WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if q.PageSize <= 0 {
		q.PageSize = 50
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	dataSQL := `SELECT ` + showCols + ` FROM shows WHERE ` + cond + ` ORDER BY date ASC, time ASC, id ASC LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), q.PageSize, (q.Page-1)*q.PageSize)
	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]model.Show, 0, q.PageSize)
	for rows.Next() {
		s, err := scanShow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetShow returns ErrShowNotFound when id does not exist.
func (r *CatalogRepo) GetShow(ctx context.Context, id uint64) (model.Show, error) {
	s, err := scanShow(r.db.QueryRowContext(ctx, `SELECT `+showCols+` FROM shows WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Show{}, ErrShowNotFound
	}
	return s, err
}

// ListServices returns services, optionally restricted to one type.
func (r *CatalogRepo) ListServices(ctx context.Context, typ string) ([]model.Service, error) {
	q := `SELECT ` + serviceCols + ` FROM services`
	args := []any{}
	if typ != "" {
		q += ` WHERE type = ?`
		args = append(args, typ)
	}
	q += ` ORDER BY name ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetService returns ErrServiceNotFound when id does not exist.
func (r *CatalogRepo) GetService(ctx context.Context, id uint64) (model.Service, error) {
	s, err := scanService(r.db.QueryRowContext(ctx, `SELECT `+serviceCols+` FROM services WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Service{}, ErrServiceNotFound
	}
	return s, err
}
