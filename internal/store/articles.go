package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Row is one article record as stored in the database.
type Row struct {
	ID          string
	Title       string
	API         string
	Keywords    []string
	Topics      []string
	Errors      []string
	GithubURL   string
	Checksum    string
	DateCreated time.Time
	DateUpdated time.Time
}

const rowColumns = "id, title, api, keywords, topics, errors, github_url, checksum, date_created, date_updated"

// InsertArticle creates a new row and returns its store-assigned id.
// Called at most once per logical article; the UNIQUE checksum index
// backstops the classifier's dedup check.
func (s *Store) InsertArticle(ctx context.Context, row Row) (string, error) {
	id := row.ID
	if id == "" {
		id = uuid.NewString()
	}

	keywords, topics, errList, err := encodeLists(row)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO articles (`+rowColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, row.Title, row.API, keywords, topics, errList, row.GithubURL,
		row.Checksum, formatTime(row.DateCreated), formatTime(row.DateUpdated))
	if err != nil {
		return "", fmt.Errorf("insert article %q: %w", row.Title, err)
	}
	return id, nil
}

// SelectByChecksum returns the row whose content checksum matches, or
// (nil, nil) when none exists.
func (s *Store) SelectByChecksum(ctx context.Context, checksum string) (*Row, error) {
	return s.selectOne(ctx, "checksum", checksum)
}

// SelectByID returns the row with the given id, or (nil, nil) when none
// exists. An article carrying a real id whose row is missing is a
// data-integrity problem the caller surfaces.
func (s *Store) SelectByID(ctx context.Context, id string) (*Row, error) {
	return s.selectOne(ctx, "id", id)
}

// UpdateArticle replaces the row's checksum and bumps date_updated.
// Rows are updated in place; nothing is ever deleted.
func (s *Store) UpdateArticle(ctx context.Context, id, checksum string, updated time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles SET checksum = ?, date_updated = ? WHERE id = ?
	`, checksum, formatTime(updated), id)
	if err != nil {
		return fmt.Errorf("update article %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update article %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update article %s: no such row", id)
	}
	return nil
}

func (s *Store) selectOne(ctx context.Context, column, value string) (*Row, error) {
	var (
		row                      Row
		api                      sql.NullString
		keywords, topics, errs   sql.NullString
		dateCreated, dateUpdated string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT "+rowColumns+" FROM articles WHERE "+column+" = ?", value,
	).Scan(&row.ID, &row.Title, &api, &keywords, &topics, &errs,
		&row.GithubURL, &row.Checksum, &dateCreated, &dateUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select article by %s: %w", column, err)
	}

	row.API = api.String
	if err := decodeLists(keywords, topics, errs, &row); err != nil {
		return nil, fmt.Errorf("select article by %s: %w", column, err)
	}
	if row.DateCreated, err = parseTime(dateCreated); err != nil {
		return nil, fmt.Errorf("select article by %s: %w", column, err)
	}
	if row.DateUpdated, err = parseTime(dateUpdated); err != nil {
		return nil, fmt.Errorf("select article by %s: %w", column, err)
	}
	return &row, nil
}

// List columns are stored as JSON arrays so they survive both drivers
// without a join table.
func encodeLists(row Row) (keywords, topics, errs string, err error) {
	encode := func(list []string) (string, error) {
		if list == nil {
			list = []string{}
		}
		b, err := json.Marshal(list)
		if err != nil {
			return "", fmt.Errorf("encode list: %w", err)
		}
		return string(b), nil
	}
	if keywords, err = encode(row.Keywords); err != nil {
		return "", "", "", err
	}
	if topics, err = encode(row.Topics); err != nil {
		return "", "", "", err
	}
	if errs, err = encode(row.Errors); err != nil {
		return "", "", "", err
	}
	return keywords, topics, errs, nil
}

func decodeLists(keywords, topics, errs sql.NullString, row *Row) error {
	decode := func(s sql.NullString, dst *[]string) error {
		if !s.Valid || s.String == "" {
			return nil
		}
		return json.Unmarshal([]byte(s.String), dst)
	}
	if err := decode(keywords, &row.Keywords); err != nil {
		return fmt.Errorf("decode keywords: %w", err)
	}
	if err := decode(topics, &row.Topics); err != nil {
		return fmt.Errorf("decode topics: %w", err)
	}
	if err := decode(errs, &row.Errors); err != nil {
		return fmt.Errorf("decode errors: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
