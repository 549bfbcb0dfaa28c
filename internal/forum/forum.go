package forum

import "context"

// DiscussionRef identifies one forum thread. The forum owns these; the
// local system only reads and creates them.
type DiscussionRef struct {
	ID  string
	URL string
}

// Client is the discussion-store surface the reconciler consumes.
//
// Implementations must be safe for concurrent use: one client instance is
// shared read-only across all concurrent article reconciliations.
type Client interface {
	// ListAll returns every discussion in the configured category,
	// following pagination cursors until exhausted.
	ListAll(ctx context.Context) ([]DiscussionRef, error)

	// Create opens a new discussion and returns its reference.
	Create(ctx context.Context, title, body string) (DiscussionRef, error)

	// Update replaces the body of an existing discussion.
	Update(ctx context.Context, id, body string) error
}
