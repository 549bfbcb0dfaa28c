package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kbsync/internal/article"
	"github.com/roach88/kbsync/internal/content"
	"github.com/roach88/kbsync/internal/forum"
	"github.com/roach88/kbsync/internal/store"
	"github.com/roach88/kbsync/internal/syncer"
)

// fakeDB is an in-memory syncer.Database that counts every mutation.
// Writes are refused unless allowWrites is set, so dry-run tests catch
// any path that touches the database.
type fakeDB struct {
	rows        map[string]*store.Row
	allowWrites bool
	nextID      int
	insertCalls int
	updateCalls int
}

func (f *fakeDB) SelectByChecksum(ctx context.Context, checksum string) (*store.Row, error) {
	for _, row := range f.rows {
		if row.Checksum == checksum {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) SelectByID(ctx context.Context, id string) (*store.Row, error) {
	if row, ok := f.rows[id]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeDB) InsertArticle(ctx context.Context, row store.Row) (string, error) {
	f.insertCalls++
	if !f.allowWrites {
		return "", errors.New("insert during dry run")
	}
	f.nextID++
	id := "row-" + strconv.Itoa(f.nextID)
	row.ID = id
	f.rows[id] = &row
	return id, nil
}

func (f *fakeDB) UpdateArticle(ctx context.Context, id, checksum string, updated time.Time) error {
	f.updateCalls++
	if !f.allowWrites {
		return errors.New("update during dry run")
	}
	if row, ok := f.rows[id]; ok {
		row.Checksum = checksum
		row.DateUpdated = updated
		return nil
	}
	return errors.New("no such row")
}

// fakeForum is an in-memory forum.Client that counts every mutation.
type fakeForum struct {
	discussions []forum.DiscussionRef
	allowWrites bool
	listErr     error
	createCalls int
	updateCalls int
}

func (f *fakeForum) ListAll(ctx context.Context) ([]forum.DiscussionRef, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]forum.DiscussionRef(nil), f.discussions...), nil
}

func (f *fakeForum) Create(ctx context.Context, title, body string) (forum.DiscussionRef, error) {
	f.createCalls++
	if !f.allowWrites {
		return forum.DiscussionRef{}, errors.New("create during dry run")
	}
	ref := forum.DiscussionRef{
		ID:  "D_" + strconv.Itoa(f.createCalls),
		URL: "https://github.com/acme/help/discussions/" + strconv.Itoa(f.createCalls),
	}
	f.discussions = append(f.discussions, ref)
	return ref, nil
}

func (f *fakeForum) Update(ctx context.Context, id, body string) error {
	f.updateCalls++
	if !f.allowWrites {
		return errors.New("update during dry run")
	}
	return nil
}

func writeTestArticle(t *testing.T, dir, name, databaseID, title, githubURL, body string) *article.Article {
	t.Helper()
	fm := "---\ndatabase_id: " + databaseID + "\ntitle: " + title + "\n"
	if githubURL != "" {
		fm += "github_url: " + githubURL + "\n"
	}
	fm += "---\n"
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(fm+body), 0o644))
	a, err := article.Load(path)
	require.NoError(t, err)
	return a
}

func newTestEnvironment(db *fakeDB, fc *fakeForum, articles []*article.Article) *environment {
	return &environment{
		db: db,
		fc: fc,
		syncer: &syncer.Syncer{
			DB:          db,
			Forum:       fc,
			SiteBaseURL: "https://help.acme.dev/troubleshooting",
		},
		articles: articles,
	}
}

func TestBuildCheckReport_ClassifiesWithoutMutating(t *testing.T) {
	dir := t.TempDir()
	known := writeTestArticle(t, dir, "known.md", "pseudo-1", "Known", "", "# Known\n")
	fresh := writeTestArticle(t, dir, "fresh.md", "pseudo-2", "Fresh", "", "# Fresh\n")
	linked := writeTestArticle(t, dir, "linked.md", "pseudo-3", "Linked",
		"https://github.com/acme/help/discussions/7", "# Linked\n")
	tracked := writeTestArticle(t, dir, "tracked.md", "42", "Tracked", "", "# Tracked\n")
	orphan := writeTestArticle(t, dir, "orphan.md", "pseudo-4", "Orphan",
		"https://github.com/acme/help/discussions/999", "# Orphan\n")

	knownSum, err := content.Checksum(known.Body)
	require.NoError(t, err)
	db := &fakeDB{rows: map[string]*store.Row{
		"row-1": {ID: "row-1", Checksum: knownSum},
		"42":    {ID: "42", Checksum: "stale"},
	}}
	fc := &fakeForum{discussions: []forum.DiscussionRef{
		{ID: "D_7", URL: "https://github.com/acme/help/discussions/7"},
	}}
	env := newTestEnvironment(db, fc, []*article.Article{known, fresh, linked, tracked, orphan})

	report, err := buildCheckReport(context.Background(), env)
	require.NoError(t, err)

	actions := map[string]string{}
	for _, res := range report.Results {
		actions[filepath.Base(res.File)] = res.Action
	}
	assert.Equal(t, "noop", actions["known.md"])
	assert.Equal(t, "create", actions["fresh.md"])
	assert.Equal(t, "link", actions["linked.md"])
	assert.Equal(t, "update", actions["tracked.md"])
	assert.Equal(t, 1, report.Failed)

	require.Len(t, report.Results, 5)
	assert.Contains(t, report.Results[4].Error, "discussions/999")

	// A dry run never writes anywhere.
	assert.Equal(t, 0, db.insertCalls)
	assert.Equal(t, 0, db.updateCalls)
	assert.Equal(t, 0, fc.createCalls)
	assert.Equal(t, 0, fc.updateCalls)
}

func TestBuildCheckReport_MalformedArticleCounted(t *testing.T) {
	dir := t.TempDir()
	bad := writeTestArticle(t, dir, "bad.md", "pseudo-1", "Bad", "", "body \xff\xfe\n")

	db := &fakeDB{rows: map[string]*store.Row{}}
	fc := &fakeForum{}
	env := newTestEnvironment(db, fc, []*article.Article{bad})

	report, err := buildCheckReport(context.Background(), env)
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, 1, report.Failed)
	assert.NotEmpty(t, report.Results[0].Error)
	assert.Equal(t, 0, db.insertCalls)
	assert.Equal(t, 0, fc.createCalls)
}

func TestBuildCheckReport_ListFailure(t *testing.T) {
	db := &fakeDB{rows: map[string]*store.Row{}}
	fc := &fakeForum{listErr: errors.New("api down")}
	env := newTestEnvironment(db, fc, nil)

	_, err := buildCheckReport(context.Background(), env)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReconcileAll_ExitMapping(t *testing.T) {
	t.Run("all succeed", func(t *testing.T) {
		good := writeTestArticle(t, t.TempDir(), "good.md", "pseudo-1", "Good", "", "# Good\n")
		db := &fakeDB{rows: map[string]*store.Row{}, allowWrites: true}
		env := newTestEnvironment(db, &fakeForum{allowWrites: true}, []*article.Article{good})

		require.NoError(t, reconcileAll(context.Background(), env, 1))
		assert.Equal(t, 1, db.insertCalls)
		assert.True(t, good.ID.Persisted())
	})

	t.Run("malformed article fails the run", func(t *testing.T) {
		bad := writeTestArticle(t, t.TempDir(), "bad.md", "pseudo-2", "Bad", "", "body \xff\xfe\n")
		db := &fakeDB{rows: map[string]*store.Row{}, allowWrites: true}
		env := newTestEnvironment(db, &fakeForum{allowWrites: true}, []*article.Article{bad})

		err := reconcileAll(context.Background(), env, 1)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Equal(t, 0, db.insertCalls)
	})
}
