package article

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatter delimiter line.
var delimiter = []byte("---")

// Frontmatter is the structured metadata block at the top of an article.
type Frontmatter struct {
	DatabaseID  string   `yaml:"database_id"`
	Title       string   `yaml:"title"`
	API         string   `yaml:"api,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty"`
	Topics      []string `yaml:"topics,omitempty"`
	Errors      []string `yaml:"errors,omitempty"`
	GithubURL   string   `yaml:"github_url,omitempty"`
	DateCreated string   `yaml:"date_created,omitempty"`
}

// Article is one local troubleshooting document.
type Article struct {
	// Path locates the backing file; it is the handle for the id
	// write-back after a successful creation.
	Path string

	Frontmatter Frontmatter

	// ID is the tagged form of Frontmatter.DatabaseID.
	ID ID

	// Body is the raw document body, frontmatter excluded, byte-for-byte
	// as it appears on disk.
	Body []byte
}

// Slug is the article's URL path segment: the file name without extension.
func (a *Article) Slug() string {
	base := filepath.Base(a.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Parse splits src into frontmatter and body and validates the metadata
// block. The body is preserved verbatim.
func Parse(path string, src []byte) (*Article, error) {
	fm, body, err := splitFrontmatter(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var meta Frontmatter
	if err := yaml.Unmarshal(fm, &meta); err != nil {
		return nil, fmt.Errorf("%s: invalid frontmatter: %w", path, err)
	}
	if meta.Title == "" {
		return nil, fmt.Errorf("%s: frontmatter missing title", path)
	}
	if meta.DatabaseID == "" {
		return nil, fmt.Errorf("%s: frontmatter missing database_id", path)
	}

	return &Article{
		Path:        path,
		Frontmatter: meta,
		ID:          ParseID(meta.DatabaseID),
		Body:        body,
	}, nil
}

// splitFrontmatter separates the leading "---" delimited YAML block from
// the document body. The returned body excludes the delimiter lines but is
// otherwise untouched.
func splitFrontmatter(src []byte) (fm, body []byte, err error) {
	rest, ok := bytes.CutPrefix(src, delimiter)
	if !ok {
		return nil, nil, fmt.Errorf("document does not start with frontmatter delimiter")
	}
	rest, ok = bytes.CutPrefix(rest, []byte("\n"))
	if !ok {
		// Tolerate CRLF on the opening delimiter line.
		rest, ok = bytes.CutPrefix(rest, []byte("\r\n"))
		if !ok {
			return nil, nil, fmt.Errorf("document does not start with frontmatter delimiter")
		}
	}

	end := bytes.Index(rest, append([]byte("\n"), delimiter...))
	if end < 0 {
		return nil, nil, fmt.Errorf("frontmatter delimiter is not closed")
	}
	fm = rest[:end+1]

	body = rest[end+1+len(delimiter):]
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))
	return fm, body, nil
}
