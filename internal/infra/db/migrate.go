package db

import (
	"database/sql"
)

// MigrateUp creates the schema. Statements are idempotent so the
// migration can run on every startup.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS contents (
    id                     BIGSERIAL PRIMARY KEY,
    kind                   VARCHAR(20) NOT NULL,
    external_id            TEXT NOT NULL DEFAULT '',
    title                  TEXT NOT NULL,
    post_status            VARCHAR(20) NOT NULL DEFAULT 'published',
    objective              TEXT,
    summary                TEXT,
    research_line          TEXT,
    opening_date           TIMESTAMPTZ,
    closing_date           TIMESTAMPTZ,
    contact                TEXT,
    call_status            VARCHAR(20),
    body                   TEXT,
    bullets                TEXT,
    image_ref              TEXT,
    newsletter_batch       INTEGER,
    position               VARCHAR(20),
    featured_attachment_id BIGINT,
    created_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (kind, title)
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS categories (
    id        BIGSERIAL PRIMARY KEY,
    axis      VARCHAR(30) NOT NULL,
    name      TEXT NOT NULL,
    parent_id BIGINT REFERENCES categories(id),
    sequence  INTEGER,
    UNIQUE (axis, name)
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS content_categories (
    content_id  BIGINT NOT NULL REFERENCES contents(id) ON DELETE CASCADE,
    category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
    axis        VARCHAR(30) NOT NULL,
    PRIMARY KEY (content_id, category_id)
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS attachments (
    id         BIGSERIAL PRIMARY KEY,
    content_id BIGINT NOT NULL REFERENCES contents(id) ON DELETE CASCADE,
    source_url TEXT NOT NULL,
    path       TEXT NOT NULL,
    title      TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	// unique(name, payload) backs idempotent one-shot scheduling
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS scheduled_jobs (
    id         BIGSERIAL PRIMARY KEY,
    name       VARCHAR(100) NOT NULL,
    payload    TEXT NOT NULL,
    run_at     TIMESTAMPTZ NOT NULL,
    status     VARCHAR(20) NOT NULL DEFAULT 'pending',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (name, payload)
)`); err != nil {
		return err
	}

	indexes := []string{
		// duplicate fallback lookup
		`CREATE INDEX IF NOT EXISTS idx_contents_kind_external_id ON contents(kind, external_id)`,
		// call transition scan
		`CREATE INDEX IF NOT EXISTS idx_scheduled_jobs_due ON scheduled_jobs(run_at) WHERE status = 'pending'`,
		`CREATE INDEX IF NOT EXISTS idx_attachments_content_id ON attachments(content_id)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_parent_id ON categories(parent_id)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}

// MigrateDown rolls back the schema in reverse dependency order.
// Use with caution: this deletes all data in the affected tables.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS scheduled_jobs`,
		`DROP TABLE IF EXISTS attachments`,
		`DROP TABLE IF EXISTS content_categories`,
		`DROP TABLE IF EXISTS categories CASCADE`,
		`DROP TABLE IF EXISTS contents CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
