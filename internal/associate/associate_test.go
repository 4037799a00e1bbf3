package associate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/minidoc/internal/model"
)

func block(start, end int) model.Comment {
	return model.Comment{Start: start, End: end, Text: "* c", Block: true}
}

func decl(kind model.Kind, name string, start, end int) model.Declaration {
	return model.Declaration{Kind: kind, Name: name, Start: start, End: end}
}

func TestNewPoolFiltersLineComments(t *testing.T) {
	t.Parallel()

	comments := []model.Comment{
		{Start: 0, End: 5, Text: " x"},
		block(6, 10),
		{Start: 11, End: 20, Text: " plain ", Block: true},
	}

	assert.Equal(t, 2, NewPool(comments, false).Len())
	assert.Equal(t, 1, NewPool(comments, true).Len())
}

func TestNearest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		comments []model.Comment
		start    int
		want     int
	}{
		{"empty pool", nil, 100, -1},
		{"adjacent", []model.Comment{block(0, 10)}, 11, 0},
		{"closest wins", []model.Comment{block(0, 10), block(20, 30)}, 40, 1},
		{"touching is not preceding", []model.Comment{block(0, 10)}, 10, -1},
		{"after node", []model.Comment{block(50, 60)}, 40, -1},
		{"gap 299 qualifies", []model.Comment{block(0, 1)}, 300, 0},
		{"gap 300 too far", []model.Comment{block(0, 1)}, 301, -1},
		{"equal gap keeps first", []model.Comment{block(0, 10), block(0, 10)}, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &Pool{comments: tt.comments}
			got := p.Nearest(decl(model.MethodDefinition, "m", tt.start, tt.start+5))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchConsumesOnce(t *testing.T) {
	t.Parallel()

	// One comment, two declarations that would both accept it. The outer
	// class is visited first and takes it.
	pool := NewPool([]model.Comment{block(0, 10)}, false)
	decls := []model.Declaration{
		decl(model.ClassDeclaration, "A", 11, 100),
		decl(model.MethodDefinition, "m", 20, 40),
	}

	got := NewMatcher(nil).Match(decls, pool)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Declaration.Name)
	assert.Equal(t, 0, pool.Len())
}

func TestMatchNestedDeclarations(t *testing.T) {
	t.Parallel()

	// Each declaration takes its own nearest comment in visit order.
	pool := NewPool([]model.Comment{block(0, 10), block(20, 30)}, false)
	decls := []model.Declaration{
		decl(model.ClassDeclaration, "A", 12, 200),
		decl(model.MethodDefinition, "m", 35, 60),
	}

	got := NewMatcher(nil).Match(decls, pool)
	require.Len(t, got, 2)
	assert.Equal(t, 10, got[0].Comment.End)
	assert.Equal(t, 30, got[1].Comment.End)
}

func TestMatchSkipsUndocumentableKinds(t *testing.T) {
	t.Parallel()

	pool := NewPool([]model.Comment{block(0, 10)}, false)
	decls := []model.Declaration{
		decl(model.FunctionDeclaration, "f", 11, 30),
		decl(model.MethodDefinition, "m", 40, 60),
	}

	got := NewMatcher(nil).Match(decls, pool)
	require.Len(t, got, 1)
	assert.Equal(t, "m", got[0].Declaration.Name)

	pool = NewPool([]model.Comment{block(0, 10)}, false)
	got = NewMatcher([]model.Kind{model.FunctionDeclaration}).Match(decls, pool)
	require.Len(t, got, 1)
	assert.Equal(t, "f", got[0].Declaration.Name)
}

func TestMatchFarDeclarations(t *testing.T) {
	t.Parallel()

	gap := len(strings.Repeat("x", 400))
	pool := NewPool([]model.Comment{block(0, 10), block(20, 30)}, false)
	decls := []model.Declaration{
		decl(model.MethodDefinition, "a", 30+gap, 30+gap+10),
		decl(model.MethodDefinition, "b", 30+2*gap, 30+2*gap+10),
	}

	assert.Empty(t, NewMatcher(nil).Match(decls, pool))
	assert.Equal(t, 2, pool.Len())
}

func TestPoolMonotonic(t *testing.T) {
	t.Parallel()

	pool := NewPool([]model.Comment{block(0, 5), block(10, 15), block(20, 25)}, false)
	decls := []model.Declaration{
		decl(model.MethodDefinition, "a", 16, 18),
		decl(model.MethodDefinition, "b", 17, 19),
		decl(model.MethodDefinition, "c", 26, 30),
		decl(model.MethodDefinition, "d", 31, 40),
	}

	m := NewMatcher(nil)
	seen := make(map[int]bool)
	prev := pool.Len()
	for _, d := range decls {
		for _, got := range m.Match([]model.Declaration{d}, pool) {
			assert.False(t, seen[got.Comment.End], "comment attached twice")
			seen[got.Comment.End] = true
		}
		assert.LessOrEqual(t, pool.Len(), prev)
		prev = pool.Len()
	}
	assert.Equal(t, 0, pool.Len())
}
