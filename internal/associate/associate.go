// Package associate attaches documentation comments to the declarations
// they describe using positional heuristics over the AST.
package associate

import (
	"github.com/phobologic/minidoc/internal/model"
)

// MaxDistance is the proximity threshold in characters: a comment documents a
// declaration only if the gap between the comment end and the declaration
// start is strictly smaller than this.
const MaxDistance = 300

// Pool is the set of not yet consumed comments of one file, in source order.
// A pool only ever shrinks.
type Pool struct {
	comments []model.Comment
}

// NewPool builds a pool from the block comments in comments. When jsdocOnly is
// set, only /** comments are kept.
func NewPool(comments []model.Comment, jsdocOnly bool) *Pool {
	p := &Pool{}
	for _, c := range comments {
		if !c.Block || (jsdocOnly && !c.IsJsdoc()) {
			continue
		}
		p.comments = append(p.comments, c)
	}
	return p
}

// Len returns the number of unconsumed comments.
func (p *Pool) Len() int {
	return len(p.comments)
}

// Nearest returns the index of the closest comment ending strictly before
// decl starts and within MaxDistance, or -1. The first minimal candidate in
// pool order wins.
func (p *Pool) Nearest(decl model.Declaration) int {
	best := -1
	bestDistance := MaxDistance
	for i, c := range p.comments {
		if c.End >= decl.Start {
			continue
		}
		if d := decl.Start - c.End; d < bestDistance {
			best = i
			bestDistance = d
		}
	}
	return best
}

// Take removes and returns the comment at index i.
func (p *Pool) Take(i int) model.Comment {
	c := p.comments[i]
	p.comments = append(p.comments[:i], p.comments[i+1:]...)
	return c
}

// Match pairs one declaration with the comment consumed for it.
type Match struct {
	Declaration model.Declaration
	Comment     model.Comment
}

// Matcher decides which declarations are documentable.
type Matcher struct {
	kinds map[model.Kind]struct{}
}

// NewMatcher returns a Matcher for the given kinds, or model.DefaultKinds
// when none are given.
func NewMatcher(kinds []model.Kind) *Matcher {
	if len(kinds) == 0 {
		kinds = model.DefaultKinds
	}
	m := &Matcher{kinds: make(map[model.Kind]struct{}, len(kinds))}
	for _, k := range kinds {
		m.kinds[k] = struct{}{}
	}
	return m
}

// Documentable reports whether declarations of kind k are considered.
func (m *Matcher) Documentable(k model.Kind) bool {
	_, ok := m.kinds[k]
	return ok
}

// Match visits decls in the given order, which must be AST pre-order, and
// consumes the nearest comment for each documentable one. A comment taken by
// an earlier declaration is no longer available to later ones.
func (m *Matcher) Match(decls []model.Declaration, pool *Pool) []Match {
	var out []Match
	for _, d := range decls {
		if !m.Documentable(d.Kind) {
			continue
		}
		if pool.Len() == 0 {
			break
		}
		i := pool.Nearest(d)
		if i < 0 {
			continue
		}
		out = append(out, Match{Declaration: d, Comment: pool.Take(i)})
	}
	return out
}
