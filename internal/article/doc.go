// Package article models one local troubleshooting document: its file
// location, parsed frontmatter, and raw body.
//
// Articles are read fresh from disk on every run; there is no persistent
// in-memory identity across runs. The only piece of sync state an article
// carries is its database_id frontmatter field, which is either a real
// store-assigned identifier or a "pseudo-" placeholder meaning no
// confirmed database row exists yet. The string convention is confined to
// parsing and serialization; everywhere else the ID type makes the
// pending/persisted distinction explicit.
package article
