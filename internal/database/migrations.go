package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createEventsTable,
		createSingleCurrentEventIndex,
		createPackagesTable,
		createGalaTablesTable,
		createAddonsTable,
		createWorkshopsTable,
		createRegistrationsTable,
		createRegistrationsIndexes,
		createSeatingLayoutsTable,
		createAdminUsersTable,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    year INTEGER NOT NULL,
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP NOT NULL,
    registration_open_date TIMESTAMP,
    registration_close_date TIMESTAMP,
    venue VARCHAR(255) NOT NULL DEFAULT '',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    is_current BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

// At most one active event may carry the current flag; the database backs
// up what SetCurrent enforces transactionally.
const createSingleCurrentEventIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS events_single_current_idx
ON events (is_current)
WHERE is_current = TRUE AND is_active = TRUE;`

const createPackagesTable = `
CREATE TABLE IF NOT EXISTS packages (
    id VARCHAR(64) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    price BIGINT NOT NULL DEFAULT 0,
    description TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (price >= 0)
);`

const createGalaTablesTable = `
CREATE TABLE IF NOT EXISTS gala_tables (
    table_number INTEGER PRIMARY KEY,
    price BIGINT NOT NULL,
    early_bird_price BIGINT NOT NULL DEFAULT 0,
    early_bird_end_date TIMESTAMP,
    seats INTEGER NOT NULL DEFAULT 10,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (price >= 0),
    CHECK (early_bird_price >= 0)
);`

const createAddonsTable = `
CREATE TABLE IF NOT EXISTS addons (
    id VARCHAR(64) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    price BIGINT NOT NULL DEFAULT 0,
    description TEXT,
    kind VARCHAR(20) NOT NULL DEFAULT 'simple',
    sizes JSONB NOT NULL DEFAULT '[]',
    icon VARCHAR(64),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (kind IN ('simple', 'sized', 'transport')),
    CHECK (price >= 0)
);`

const createWorkshopsTable = `
CREATE TABLE IF NOT EXISTS workshops (
    id VARCHAR(64) PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    level VARCHAR(50) NOT NULL DEFAULT 'all',
    capacity INTEGER NOT NULL,
    enrolled INTEGER NOT NULL DEFAULT 0,
    price BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (capacity >= 0),
    CHECK (enrolled >= 0),
    CHECK (enrolled <= capacity)
);`

const createRegistrationsTable = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
CREATE TABLE IF NOT EXISTS registrations (
    id SERIAL PRIMARY KEY,
    reference UUID NOT NULL DEFAULT uuid_generate_v4(),
    event_id INTEGER NOT NULL REFERENCES events(id),
    role VARCHAR(20) NOT NULL,
    package_type VARCHAR(64) NOT NULL,
    leader_info JSONB,
    follower_info JSONB,
    addons JSONB NOT NULL DEFAULT '[]',
    sized_addons JSONB NOT NULL DEFAULT '[]',
    table_number INTEGER,
    wants_workshops BOOLEAN,
    workshop_ids JSONB NOT NULL DEFAULT '[]',
    addons_total BIGINT NOT NULL DEFAULT 0,
    seat_charge BIGINT NOT NULL DEFAULT 0,
    total_amount BIGINT NOT NULL DEFAULT 0,
    payment_status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    payment_method VARCHAR(50),
    payment_id VARCHAR(255),
    order_id VARCHAR(255),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (role IN ('leader', 'follower', 'couple')),
    CHECK (payment_status IN ('PENDING', 'INITIATED', 'COMPLETED', 'FAILED', 'CANCELLED'))
);`

const createRegistrationsIndexes = `
CREATE UNIQUE INDEX IF NOT EXISTS registrations_reference_idx ON registrations (reference);
CREATE INDEX IF NOT EXISTS registrations_event_idx ON registrations (event_id);
CREATE INDEX IF NOT EXISTS registrations_payment_status_idx ON registrations (payment_status, created_at);`

const createSeatingLayoutsTable = `
CREATE TABLE IF NOT EXISTS seating_layouts (
    event_id INTEGER PRIMARY KEY REFERENCES events(id) ON DELETE CASCADE,
    document JSONB NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createAdminUsersTable = `
CREATE TABLE IF NOT EXISTS admin_users (
    id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`
