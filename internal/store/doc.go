// Package store persists the database side of the three-way mapping:
// one row per troubleshooting article, keyed by a store-assigned id and
// content-addressed by checksum.
//
// Rows are created once on first successful sync and updated in place
// thereafter; this system never deletes them. The checksum column carries
// a UNIQUE index because it is the dedup key for retry safety: a pending
// article whose content already has a row classifies as a no-op.
//
// Two drivers are supported through database/sql: sqlite3 for local and
// test use, mysql for remote deployments. SQLite connections get WAL
// mode, NORMAL synchronous, a busy timeout, and foreign-key enforcement,
// and have schema.sql applied on open. MySQL schemas are provisioned
// out-of-band (schema.sql uses sqlite-only IF NOT EXISTS index DDL).
package store
