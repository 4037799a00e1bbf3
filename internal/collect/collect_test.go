package collect

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/minidoc/internal/model"
)

func entry(name string) model.Entry {
	return model.NewEntry("a.js", model.Declaration{Kind: model.MethodDefinition, Name: name}, model.Jsdoc{})
}

func TestAppendPreservesOrder(t *testing.T) {
	t.Parallel()

	c := New()
	c.Append(entry("a"), entry("b"))
	c.Append()
	c.Append(entry("c"))

	got := c.Entries()
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "b", got[1].Name)
	assert.Equal(t, "c", got[2].Name)
}

func TestEntriesIsCopy(t *testing.T) {
	t.Parallel()

	c := New()
	c.Append(entry("a"))
	got := c.Entries()
	got[0].Name = "mutated"

	assert.Equal(t, "a", c.Entries()[0].Name)
}

func TestReset(t *testing.T) {
	t.Parallel()

	c := New()
	c.Append(entry("a"))
	c.Reset()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Entries())

	c.Append(entry("b"))
	assert.Equal(t, 1, c.Len())
}

func TestConcurrentAppend(t *testing.T) {
	t.Parallel()

	c := New()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Append(entry(fmt.Sprintf("e%d", i)), entry(fmt.Sprintf("f%d", i)))
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, c.Len())
	// Each batch stays contiguous.
	got := c.Entries()
	for i := 0; i < len(got); i += 2 {
		assert.Equal(t, "e"+got[i].Name[1:], got[i].Name)
		assert.Equal(t, "f"+got[i].Name[1:], got[i+1].Name)
	}
}
