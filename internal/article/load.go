package article

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// markdownExts lists the file extensions treated as articles.
var markdownExts = map[string]bool{
	".md":  true,
	".mdx": true,
}

// Files enumerates the markdown files under dir, recursively, sorted by
// path so runs see the corpus in a stable order. Hidden directories like
// .git are skipped.
func Files(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if markdownExts[filepath.Ext(path)] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Load reads and parses one article file.
func Load(path string) (*Article, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, src)
}

// LoadDir reads every article under dir.
//
// A file that fails to parse fails the whole load: the corpus is expected
// to be valid before any sync runs (the validate command exists to gate
// that in CI).
func LoadDir(dir string) ([]*Article, error) {
	files, err := Files(dir)
	if err != nil {
		return nil, err
	}

	articles := make([]*Article, 0, len(files))
	for _, path := range files {
		a, err := Load(path)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, nil
}
