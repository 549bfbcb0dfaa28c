package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/roach88/kbsync/internal/article"
	"github.com/roach88/kbsync/internal/classify"
	"github.com/roach88/kbsync/internal/content"
	"github.com/roach88/kbsync/internal/forum"
	"github.com/roach88/kbsync/internal/store"
)

// Database is the store surface the orchestrator consumes. Satisfied by
// *store.Store; fakes substitute it in tests.
type Database interface {
	SelectByChecksum(ctx context.Context, checksum string) (*store.Row, error)
	SelectByID(ctx context.Context, id string) (*store.Row, error)
	InsertArticle(ctx context.Context, row store.Row) (string, error)
	UpdateArticle(ctx context.Context, id, checksum string, updated time.Time) error
}

// Syncer reconciles one article at a time against the database and the
// forum. Construct once and share: all fields are read-only after
// construction, so a single Syncer serves every concurrent reconciliation.
type Syncer struct {
	DB    Database
	Forum forum.Client

	// SiteBaseURL is the article site root used in the attribution
	// footer appended to every discussion body.
	SiteBaseURL string

	// Now supplies row timestamps. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// Reconcile runs the full workflow for one article: classify, act on the
// remote stores, write back the new id if a row was created.
//
// Steps execute strictly in that order. Side effects are additive and
// idempotent: no step deletes data, and the local file is rewritten at
// most once, only to replace a pseudo id.
func (s *Syncer) Reconcile(ctx context.Context, a *article.Article, discussions []forum.DiscussionRef) error {
	if err := s.reconcile(ctx, a, discussions); err != nil {
		return wrapError(a.Path, err)
	}
	return nil
}

func (s *Syncer) reconcile(ctx context.Context, a *article.Article, discussions []forum.DiscussionRef) error {
	checksum, err := content.Checksum(a.Body)
	if err != nil {
		return err
	}

	decision, err := classify.Classify(ctx, a, checksum, discussions, s.rowExists)
	if err != nil {
		return err
	}
	s.logger().Debug("classified article", "file", a.Path, "action", decision.Action)

	switch decision.Action {
	case classify.ActionNone:
		// A previous run created the row but the file still carries a
		// pseudo id. Nothing to do; creating again would duplicate.
		return nil
	case classify.ActionUpdate:
		return s.updateIfChanged(ctx, a, checksum, discussions)
	case classify.ActionCreate, classify.ActionLink:
		return s.createRow(ctx, a, checksum, decision)
	default:
		return fmt.Errorf("unknown classification %v", decision.Action)
	}
}

func (s *Syncer) rowExists(ctx context.Context, checksum string) (bool, error) {
	row, err := s.DB.SelectByChecksum(ctx, checksum)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

// createRow obtains or creates the discussion, inserts the database row,
// and replaces the article's pseudo id with the store-assigned one.
func (s *Syncer) createRow(ctx context.Context, a *article.Article, checksum string, decision classify.Decision) error {
	ref := decision.Discussion
	if decision.Action == classify.ActionCreate {
		var err error
		ref, err = s.Forum.Create(ctx, a.Frontmatter.Title, s.discussionBody(a))
		if err != nil {
			return err
		}
		s.logger().Info("created discussion", "file", a.Path, "url", ref.URL)
	}

	now := s.now()
	id, err := s.DB.InsertArticle(ctx, store.Row{
		Title:       a.Frontmatter.Title,
		API:         a.Frontmatter.API,
		Keywords:    a.Frontmatter.Keywords,
		Topics:      a.Frontmatter.Topics,
		Errors:      a.Frontmatter.Errors,
		GithubURL:   ref.URL,
		Checksum:    checksum,
		DateCreated: s.createdAt(a, now),
		DateUpdated: now,
	})
	if err != nil {
		return err
	}
	s.logger().Info("inserted article row", "file", a.Path, "id", id)

	return article.WriteBackID(a, article.PersistedID(id))
}

// updateIfChanged compares stored vs fresh checksums and, only when they
// differ, pushes the new body to the existing thread and then updates the
// row.
//
// The forum push happens before the row update. The stored checksum is
// what makes re-runs safe: if it were bumped first and the push then
// failed, the next run would see matching checksums and no-op, leaving
// the thread permanently stale. Pushing first means a failure at either
// step leaves the checksums differing, so a re-run retries the whole
// update (the push is a plain overwrite, so repeating it is harmless).
func (s *Syncer) updateIfChanged(ctx context.Context, a *article.Article, checksum string, discussions []forum.DiscussionRef) error {
	row, err := s.DB.SelectByID(ctx, a.ID.Value())
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("no database row for id %s", a.ID.Value())
	}
	if row.Checksum == checksum {
		s.logger().Debug("article unchanged", "file", a.Path)
		return nil
	}

	ref, ok := findByURL(discussions, row.GithubURL)
	if !ok {
		return &classify.UnresolvedReferenceError{Path: a.Path, URL: row.GithubURL}
	}
	if err := s.Forum.Update(ctx, ref.ID, s.discussionBody(a)); err != nil {
		return err
	}

	if err := s.DB.UpdateArticle(ctx, row.ID, checksum, s.now()); err != nil {
		return err
	}
	s.logger().Info("updated article", "file", a.Path, "id", row.ID)
	return nil
}

// discussionBody is the article body plus the canonical-source attribution
// footer. Every body pushed to the forum carries the footer, so a thread
// never exists without its pointer back to the original article.
func (s *Syncer) discussionBody(a *article.Article) string {
	body := strings.TrimRight(string(a.Body), "\n")
	return fmt.Sprintf("%s\n\n---\n\n_This thread mirrors [%s](%s). The article is the canonical source._\n",
		body, a.Frontmatter.Title, s.articleURL(a))
}

func (s *Syncer) articleURL(a *article.Article) string {
	return strings.TrimRight(s.SiteBaseURL, "/") + "/" + a.Slug()
}

// createdAt prefers the authored date_created over the wall clock.
func (s *Syncer) createdAt(a *article.Article, fallback time.Time) time.Time {
	raw := a.Frontmatter.DateCreated
	if raw == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return fallback
}

func (s *Syncer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Syncer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func findByURL(discussions []forum.DiscussionRef, url string) (forum.DiscussionRef, bool) {
	for _, d := range discussions {
		if d.URL == url {
			return d, true
		}
	}
	return forum.DiscussionRef{}, false
}
