// Package pipeline connects the documentation extractor to a build: it
// provides the lifecycle hooks a host calls (build start, per-file
// transform, finalize) and an in-process host that drives them.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/minidoc/internal/associate"
	"github.com/phobologic/minidoc/internal/jsdoc"
	"github.com/phobologic/minidoc/internal/lang"
	"github.com/phobologic/minidoc/internal/model"
	"github.com/phobologic/minidoc/internal/parse"
)

// Extractor turns one source file into its documented entries. It keeps one
// tree-sitter parser per language and is not safe for concurrent use; give
// each goroutine its own.
type Extractor struct {
	matcher   *associate.Matcher
	jsdocOnly bool
	parsers   map[string]*sitter.Parser
}

// NewExtractor returns an Extractor documenting the given kinds.
func NewExtractor(kinds []model.Kind, jsdocOnly bool) *Extractor {
	return &Extractor{
		matcher:   associate.NewMatcher(kinds),
		jsdocOnly: jsdocOnly,
		parsers:   make(map[string]*sitter.Parser),
	}
}

// Extract parses code and returns one entry per documented declaration, in
// AST pre-order. The language is chosen from the extension of id.
func (x *Extractor) Extract(ctx context.Context, id string, code []byte) ([]model.Entry, error) {
	name := lang.ForExtension(filepath.Ext(id))
	if name == "" {
		return nil, fmt.Errorf("%s: %w", id, parse.ErrUnsupported)
	}
	l := lang.Languages[name]

	parser, ok := x.parsers[name]
	if !ok {
		parser = l.NewParser()
		x.parsers[name] = parser
	}

	f, err := parse.Source(ctx, l, parser, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	pool := associate.NewPool(f.Comments, x.jsdocOnly)
	matches := x.matcher.Match(f.Declarations, pool)

	entries := make([]model.Entry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, model.NewEntry(id, m.Declaration, jsdoc.Parse(m.Comment.Text)))
	}
	return entries, nil
}
