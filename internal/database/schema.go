package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the tables the repositories read and write, in dependency
// order.  Catalog tables are filled by the park back office; this service
// only reads them.
var schema = []struct {
	table string
	ddl   string
}{
	{"attractions", `CREATE TABLE IF NOT EXISTS attractions (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(160) NOT NULL,
    category VARCHAR(60) NOT NULL DEFAULT '',
    wait_time INT NOT NULL DEFAULT 0,
    location VARCHAR(160) NOT NULL DEFAULT '',
    description TEXT NOT NULL
)`},
	{"shows", `CREATE TABLE IF NOT EXISTS shows (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    title VARCHAR(160) NOT NULL,
    date DATE NOT NULL,
    time VARCHAR(8) NOT NULL,
    location VARCHAR(160) NOT NULL DEFAULT '',
    description TEXT NOT NULL,
    KEY idx_shows_date (date)
)`},
	{"services", `CREATE TABLE IF NOT EXISTS services (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(160) NOT NULL,
    type VARCHAR(40) NOT NULL,
    operating_hours VARCHAR(80) NOT NULL DEFAULT '',
    location VARCHAR(160) NOT NULL DEFAULT ''
)`},
	{"ticket_types", `CREATE TABLE IF NOT EXISTS ticket_types (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(120) NOT NULL
)`},
	{"ticket_type_attractions", `CREATE TABLE IF NOT EXISTS ticket_type_attractions (
    ticket_type_id BIGINT UNSIGNED NOT NULL,
    attraction_id BIGINT UNSIGNED NOT NULL,
    PRIMARY KEY (ticket_type_id, attraction_id)
)`},
	{"ticket_type_shows", `CREATE TABLE IF NOT EXISTS ticket_type_shows (
    ticket_type_id BIGINT UNSIGNED NOT NULL,
    show_id BIGINT UNSIGNED NOT NULL,
    PRIMARY KEY (ticket_type_id, show_id)
)`},
	{"ticket_type_services", `CREATE TABLE IF NOT EXISTS ticket_type_services (
    ticket_type_id BIGINT UNSIGNED NOT NULL,
    service_id BIGINT UNSIGNED NOT NULL,
    PRIMARY KEY (ticket_type_id, service_id)
)`},
	{"tickets", `CREATE TABLE IF NOT EXISTS tickets (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    user_id BIGINT UNSIGNED NOT NULL,
    ticket_type_id BIGINT UNSIGNED NOT NULL,
    status ENUM('ACTIVE','USED','EXPIRED') NOT NULL DEFAULT 'ACTIVE',
    valid_for DATETIME NULL,
    KEY idx_tickets_user (user_id)
)`},
	{"planners", `CREATE TABLE IF NOT EXISTS planners (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    ticket_id BIGINT UNSIGNED NOT NULL,
    user_id BIGINT UNSIGNED NOT NULL,
    title VARCHAR(160) NOT NULL,
    description TEXT NOT NULL,
    date DATE NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    KEY idx_planners_user (user_id),
    KEY idx_planners_ticket_date (ticket_id, date)
)`},
	{"planner_items", `CREATE TABLE IF NOT EXISTS planner_items (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    planner_id BIGINT UNSIGNED NOT NULL,
    kind ENUM('attraction','show','service') NOT NULL,
    item_id BIGINT UNSIGNED NOT NULL,
    UNIQUE KEY uq_planner_item (planner_id, kind, item_id)
)`},
	{"service_bookings", `CREATE TABLE IF NOT EXISTS service_bookings (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    service_id BIGINT UNSIGNED NOT NULL,
    ticket_id BIGINT UNSIGNED NULL,
    user_id BIGINT UNSIGNED NULL,
    booking_time DATETIME NOT NULL,
    number_of_people INT NOT NULL,
    special_requests TEXT NULL,
    status ENUM('CONFIRMED') NOT NULL DEFAULT 'CONFIRMED',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    KEY idx_bookings_service_time (service_id, booking_time)
)`},
}

// Migrate creates any missing tables.  Existing tables are left as they are.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("create %s table: %w", s.table, err)
		}
	}
	return nil
}
