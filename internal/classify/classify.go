// Package classify decides which reconciliation path applies to one local
// article: create a new discussion and row, link a pre-existing
// discussion, update the row if the content changed, or do nothing.
//
// The decision procedure uses the content checksum, not the local pseudo
// id, as the authority on "is this actually new". A pseudo id can be
// stale (a previous run created the row but crashed before the id
// write-back); the checksum lookup catches that case and prevents
// duplicate rows and duplicate threads on retry.
package classify

import (
	"context"
	"fmt"

	"github.com/roach88/kbsync/internal/article"
	"github.com/roach88/kbsync/internal/forum"
)

// Action enumerates the reconciliation paths.
type Action int

const (
	// ActionNone: a row with this content already exists; a previous run
	// completed creation but the local file still carries a pseudo id.
	ActionNone Action = iota

	// ActionCreate: no row, no pre-existing discussion. Create both.
	ActionCreate

	// ActionLink: no row, but the article names a discussion created
	// out-of-band. Create only the row, pointing at that discussion.
	ActionLink

	// ActionUpdate: a row exists; update it (and the discussion) only if
	// the stored checksum differs from the freshly computed one.
	ActionUpdate
)

// String returns the operator-facing name of the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "noop"
	case ActionCreate:
		return "create"
	case ActionLink:
		return "link"
	case ActionUpdate:
		return "update"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Decision is the classifier's result. Discussion is populated only for
// ActionLink.
type Decision struct {
	Action     Action
	Discussion forum.DiscussionRef
}

// UnresolvedReferenceError reports an article that claims a discussion
// URL not present among live discussions. This is a data-integrity
// problem requiring a manual fix, never silently ignored.
type UnresolvedReferenceError struct {
	Path string
	URL  string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s: github_url %q does not match any live discussion", e.Path, e.URL)
}

// ExistsFunc answers whether a database row with the given content
// checksum already exists.
type ExistsFunc func(ctx context.Context, checksum string) (bool, error)

// Classify determines the reconciliation path for a.
//
// checksum must be the freshly computed digest of a.Body. discussions is
// the full live list, fetched once per run. The ordering below guarantees
// at-most-one discussion and at-most-one database row per logical article
// even under repeated runs.
func Classify(ctx context.Context, a *article.Article, checksum string, discussions []forum.DiscussionRef, exists ExistsFunc) (Decision, error) {
	// A real id means the row is assumed to exist; whether anything is
	// written is decided later by comparing stored vs fresh checksums.
	if a.ID.Persisted() {
		return Decision{Action: ActionUpdate}, nil
	}

	// Pseudo id: the checksum lookup is the dedup gate for retries.
	ok, err := exists(ctx, checksum)
	if err != nil {
		return Decision{}, err
	}
	if ok {
		return Decision{Action: ActionNone}, nil
	}

	if url := a.Frontmatter.GithubURL; url != "" {
		for _, d := range discussions {
			if d.URL == url {
				return Decision{Action: ActionLink, Discussion: d}, nil
			}
		}
		return Decision{}, &UnresolvedReferenceError{Path: a.Path, URL: url}
	}

	return Decision{Action: ActionCreate}, nil
}
