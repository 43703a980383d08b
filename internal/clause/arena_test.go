package clause

import (
	"testing"

	"github.com/gatosat/gatosat/internal/lit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocateGet(t *testing.T) {
	a := NewArena()
	c := NewClause([]lit.Lit{lit.New(0, false), lit.New(1, true)}, false)
	r := a.Allocate(c)
	assert.Same(t, c, a.Get(r))
	assert.Equal(t, 1, a.NumLive())
}

func TestArenaGetPanicsOnFreedRef(t *testing.T) {
	a := NewArena()
	c := NewClause([]lit.Lit{lit.New(0, false)}, false)
	r := a.Allocate(c)
	a.Free(r)
	assert.Panics(t, func() { a.Get(r) })
}

func TestArenaCompactReassignsDenseRefs(t *testing.T) {
	a := NewArena()
	var refs []Ref
	for i := 0; i < 4; i++ {
		refs = append(refs, a.Allocate(NewClause([]lit.Lit{lit.New(lit.Var(i), false)}, false)))
	}
	a.Free(refs[1])
	a.Free(refs[3])

	rewritten := make(map[Ref]Ref)
	a.Compact(a.All(), func(old, new Ref) { rewritten[old] = new })

	require.Equal(t, 2, a.NumLive())
	assert.Equal(t, Ref(0), rewritten[refs[0]])
	assert.Equal(t, Ref(1), rewritten[refs[2]])
	assert.NotContains(t, rewritten, refs[1])
	assert.NotContains(t, rewritten, refs[3])
}

func TestClauseAbstractionAndContains(t *testing.T) {
	c := NewClause([]lit.Lit{lit.New(0, false), lit.New(5, true)}, false)
	assert.True(t, c.Contains(lit.New(0, false)))
	assert.False(t, c.Contains(lit.New(0, true)))
	assert.NotZero(t, c.Abstraction())
}
