package article

import "strings"

// pseudoPrefix marks a database_id that is a local placeholder rather
// than a store-assigned identifier.
const pseudoPrefix = "pseudo-"

// ID is the tagged form of an article's database_id frontmatter field.
//
// A pending ID means no confirmed database row exists for the article; a
// persisted ID is the row's real identifier. The zero value is a pending
// ID with an empty placeholder.
type ID struct {
	raw       string
	persisted bool
}

// ParseID interprets a raw database_id value. Values starting with
// "pseudo-" (and empty values) are pending; anything else is persisted.
func ParseID(raw string) ID {
	if raw == "" || strings.HasPrefix(raw, pseudoPrefix) {
		return ID{raw: raw}
	}
	return ID{raw: raw, persisted: true}
}

// PersistedID wraps a store-assigned identifier.
func PersistedID(id string) ID {
	return ID{raw: id, persisted: true}
}

// Persisted reports whether the ID names a confirmed database row.
func (id ID) Persisted() bool {
	return id.persisted
}

// Value returns the store identifier. Only meaningful when Persisted.
func (id ID) Value() string {
	return id.raw
}

// String returns the frontmatter serialization of the ID.
func (id ID) String() string {
	return id.raw
}
