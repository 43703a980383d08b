package order

import (
	"testing"

	"github.com/gatosat/gatosat/internal/lit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapPopsHighestActivityFirst(t *testing.T) {
	h := New()
	for v := lit.Var(0); v < 5; v++ {
		h.Grow(v)
	}
	h.SetActivity(0, 1.0)
	h.SetActivity(1, 5.0)
	h.SetActivity(2, 3.0)
	h.SetActivity(3, 4.0)
	h.SetActivity(4, 2.0)
	for v := lit.Var(0); v < 5; v++ {
		h.Push(v)
	}

	var order []lit.Var
	for !h.Empty() {
		order = append(order, h.RemoveMax())
	}
	assert.Equal(t, []lit.Var{1, 3, 2, 4, 0}, order)
}

func TestHeapUpdateReordersAfterActivityChange(t *testing.T) {
	h := New()
	for v := lit.Var(0); v < 3; v++ {
		h.Grow(v)
		h.Push(v)
	}
	h.SetActivity(2, 100.0)
	h.Update(2)
	assert.Equal(t, lit.Var(2), h.RemoveMax())
}

func TestHeapContainsAfterRemoveMax(t *testing.T) {
	h := New()
	h.Grow(0)
	h.Push(0)
	require.True(t, h.Contains(0))
	h.RemoveMax()
	assert.False(t, h.Contains(0))
}

func TestHeapDecreasePanicsWhenAbsent(t *testing.T) {
	h := New()
	h.Grow(0)
	assert.Panics(t, func() { h.Decrease(0) })
}
