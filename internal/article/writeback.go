package article

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// WriteBackID replaces the database_id field in the article's frontmatter
// with the store-assigned identifier and rewrites the file atomically.
//
// Only the id value changes: every other frontmatter field keeps its
// declared order (and comments), and the body is preserved byte-for-byte.
// The frontmatter block itself is re-serialized, so incidental YAML
// formatting (quoting, indentation) may normalize.
func WriteBackID(a *Article, id ID) error {
	src, err := os.ReadFile(a.Path)
	if err != nil {
		return fmt.Errorf("write-back read %s: %w", a.Path, err)
	}

	fm, body, err := splitFrontmatter(src)
	if err != nil {
		return fmt.Errorf("write-back %s: %w", a.Path, err)
	}

	rewritten, err := replaceDatabaseID(fm, id.String())
	if err != nil {
		return fmt.Errorf("write-back %s: %w", a.Path, err)
	}

	var out bytes.Buffer
	out.WriteString("---\n")
	out.Write(rewritten)
	out.WriteString("---\n")
	out.Write(body)

	if err := atomic.WriteFile(a.Path, &out); err != nil {
		return fmt.Errorf("write-back %s: %w", a.Path, err)
	}

	a.Frontmatter.DatabaseID = id.String()
	a.ID = id
	return nil
}

// replaceDatabaseID edits the database_id scalar in a YAML mapping via the
// node API, which keeps key order and comments intact.
func replaceDatabaseID(fm []byte, id string) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(fm, &doc); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter is not a mapping")
	}

	mapping := doc.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		if key.Value != "database_id" {
			continue
		}
		value.SetString(id)
		return yaml.Marshal(&doc)
	}
	return nil, fmt.Errorf("frontmatter missing database_id")
}
