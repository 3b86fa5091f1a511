package disjoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newForestWith(n int) *Forest {
	f := New()
	for i := 0; i < n; i++ {
		f.AddElement()
	}
	return f
}

func TestNew(t *testing.T) {
	f := New()

	assert.Equal(t, 0, f.NumberOfLabels())
	assert.Equal(t, 0, f.NumberOfLevels())
	assert.Empty(t, f.Levels())
}

func TestForest_AddElement(t *testing.T) {
	f := New()

	for want := 1; want <= 5; want++ {
		got := f.AddElement()
		require.Equal(t, want, got, "identifiers are assigned sequentially from 1")
		assert.Equal(t, want, f.Find(got), "new elements are roots")
	}
	assert.Equal(t, 5, f.NumberOfLabels())
	assert.Equal(t, 5, f.NumberOfLevels())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, f.Levels())
}

func TestForest_FindSentinel(t *testing.T) {
	f := newForestWith(3)

	tests := []struct {
		name string
		x    int
	}{
		{"zero", 0},
		{"negative", -4},
		{"past end", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, NotFound, f.Find(tt.x))
		})
	}
}

func TestForest_UnionSmallerRootWins(t *testing.T) {
	tests := []struct {
		name string
		a, b int
	}{
		{"smaller first", 2, 5},
		{"larger first", 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newForestWith(5)
			f.Union(tt.a, tt.b)

			assert.Equal(t, 2, f.Find(5))
			assert.Equal(t, 2, f.Find(2))
			assert.Equal(t, []int{1, 2, 3, 4}, f.Levels())
		})
	}
}

func TestForest_UnionRedirectsLosingArgument(t *testing.T) {
	f := newForestWith(4)
	f.Union(3, 4) // 4 -> 3
	require.Equal(t, 3, f.parent[4])

	// 4 resolves to root 3, which loses to root 2; both 3 and the argument 4
	// must point straight at 2.
	f.Union(4, 2)

	assert.Equal(t, 2, f.parent[3])
	assert.Equal(t, 2, f.parent[4])
	assert.Equal(t, 2, f.Find(4))
	assert.Equal(t, []int{1, 2}, f.Levels())
}

func TestForest_UnionIsIdempotent(t *testing.T) {
	f := newForestWith(3)
	f.Union(1, 3)
	before := append([]int(nil), f.parent...)

	f.Union(1, 3)
	f.Union(3, 1)

	assert.Equal(t, before, f.parent)
}

func TestForest_UnionWithZeroIsNoop(t *testing.T) {
	f := newForestWith(2)

	f.Union(0, 2)
	f.Union(1, 0)
	f.Union(0, 0)

	assert.Equal(t, 2, f.NumberOfLevels())
	assert.Equal(t, 1, f.Find(1))
	assert.Equal(t, 2, f.Find(2))
}

func TestForest_ChainedUnions(t *testing.T) {
	f := newForestWith(6)

	f.Union(5, 6)
	f.Union(3, 4)
	f.Union(4, 6)
	f.Union(1, 2)

	assert.Equal(t, 2, f.NumberOfLevels())
	assert.Equal(t, []int{1, 3}, f.Levels())
	for _, x := range []int{3, 4, 5, 6} {
		assert.Equal(t, 3, f.Find(x), "Find(%d)", x)
	}
	assert.Equal(t, 1, f.Find(2))

	f.Union(6, 2)
	assert.Equal(t, []int{1}, f.Levels())
	for x := 1; x <= 6; x++ {
		assert.Equal(t, 1, f.Find(x), "Find(%d)", x)
	}
	assert.Equal(t, 6, f.NumberOfLabels(), "unions never remove elements")
}

func TestForest_NoCycles(t *testing.T) {
	f := newForestWith(50)
	for i := 50; i > 1; i-- {
		f.Union(i, i-1)
		f.Union(i-1, i)
	}

	for x := 1; x <= 50; x++ {
		steps := 0
		for y := x; f.parent[y] >= 0; y = f.parent[y] {
			steps++
			require.LessOrEqual(t, steps, 50, "parent chain from %d does not terminate", x)
		}
	}
	assert.Equal(t, []int{1}, f.Levels())
}
