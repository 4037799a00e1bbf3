// Package parse turns a source file into its comment list and the
// documentable declarations of its AST, using tree-sitter.
package parse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/minidoc/internal/lang"
	"github.com/phobologic/minidoc/internal/model"
)

var (
	// ErrSyntax is returned when the source does not parse cleanly.
	ErrSyntax = errors.New("syntax error")
	// ErrUnsupported is returned for files with no registered language.
	ErrUnsupported = errors.New("unsupported language")
)

// File is the parsed view of one source file.
type File struct {
	// Comments in source order, line and block.
	Comments []model.Comment
	// Declarations in pre-order (parents before children, left to right).
	Declarations []model.Declaration
}

// Source parses source with the given parser, which must be created for l.
// Offsets in the result are character offsets, not byte offsets.
func Source(ctx context.Context, l *lang.Language, parser *sitter.Parser, source []byte) (*File, error) {
	f := &File{}
	if len(source) == 0 {
		return f, nil
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		row, col := firstError(root)
		return nil, fmt.Errorf("%w at %d:%d", ErrSyntax, row+1, col+1)
	}

	off := newOffsets(source)
	walk(root, func(n *sitter.Node) {
		if n.Type() == "comment" {
			text := lang.NodeText(n, source)
			c := model.Comment{
				Start: off.at(n.StartByte()),
				End:   off.at(n.EndByte()),
			}
			switch {
			case strings.HasPrefix(text, "/*"):
				c.Block = true
				c.Text = strings.TrimSuffix(text[2:], "*/")
			case strings.HasPrefix(text, "//"):
				c.Text = text[2:]
			default:
				return
			}
			f.Comments = append(f.Comments, c)
			return
		}
		if kind := l.KindOf(n); kind != "" {
			f.Declarations = append(f.Declarations, model.Declaration{
				Kind:  kind,
				Name:  lang.DeclarationName(n, source),
				Start: off.at(n.StartByte()),
				End:   off.at(n.EndByte()),
			})
		}
	})

	return f, nil
}

// walk visits n and its descendants in pre-order.
func walk(n *sitter.Node, visit func(*sitter.Node)) {
	visit(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

func firstError(n *sitter.Node) (row, col uint32) {
	if n.IsError() || n.IsMissing() {
		p := n.StartPoint()
		return p.Row, p.Column
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.HasError() || child.IsMissing() {
			return firstError(child)
		}
	}
	p := n.StartPoint()
	return p.Row, p.Column
}

// offsets converts byte offsets into character offsets.
type offsets struct {
	runes []int // nil when the source is pure ASCII
}

func newOffsets(source []byte) offsets {
	ascii := true
	for _, b := range source {
		if b >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return offsets{}
	}

	runes := make([]int, len(source)+1)
	n := 0
	for i := 0; i < len(source); {
		_, size := utf8.DecodeRune(source[i:])
		for j := 0; j < size; j++ {
			runes[i+j] = n
		}
		i += size
		n++
	}
	runes[len(source)] = n
	return offsets{runes: runes}
}

func (o offsets) at(b uint32) int {
	if o.runes == nil {
		return int(b)
	}
	return o.runes[b]
}
