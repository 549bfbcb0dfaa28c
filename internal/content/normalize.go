package content

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	markdown "github.com/teekennedy/goldmark-markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/unicode/norm"
)

// MalformedContentError reports a document body that cannot be parsed and
// re-serialized. It aborts only the owning article's sync.
type MalformedContentError struct {
	Reason string
	Err    error
}

func (e *MalformedContentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed content: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed content: %s", e.Reason)
}

func (e *MalformedContentError) Unwrap() error {
	return e.Err
}

// newRoundTripper builds a goldmark instance that re-serializes markdown
// instead of rendering HTML.
//
// The extension set matches what the article corpus actually uses: GFM
// tables, strikethrough, task lists, and autolinks. Embedded UI component
// tags inside article bodies are HTML blocks/spans to the parser and are
// carried through the round-trip verbatim.
//
// The markdown renderer keeps write state, so each Normalize call gets a
// fresh instance rather than sharing one across goroutines.
func newRoundTripper() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRenderer(markdown.NewRenderer()),
	)
}

// Normalize parses src as markdown and re-serializes it canonically.
//
// The output is stable: Normalize(Normalize(x)) == Normalize(x). Heading
// style, list markers, emphasis delimiters, and inter-block spacing all
// collapse to one canonical choice; rendered content is unchanged.
func Normalize(src []byte) ([]byte, error) {
	if !utf8.Valid(src) {
		return nil, &MalformedContentError{Reason: "body is not valid UTF-8"}
	}

	var buf bytes.Buffer
	if err := newRoundTripper().Convert(src, &buf); err != nil {
		return nil, &MalformedContentError{Reason: "markdown round-trip failed", Err: err}
	}

	// NFC so that visually identical text with different codepoint
	// sequences (e.g. composed vs decomposed accents) hashes the same.
	out := norm.NFC.Bytes(buf.Bytes())

	// Canonical form ends with exactly one newline.
	out = bytes.TrimRight(out, "\n")
	out = append(out, '\n')
	return out, nil
}
