package labeling

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/pgm-vision/internal/disjoint"
	"github.com/ironsheep/pgm-vision/internal/raster"
)

func gridFrom(t *testing.T, rows [][]int) *raster.Grid {
	t.Helper()
	g, err := raster.FromRows(rows)
	require.NoError(t, err)
	return g
}

func toRows(g *raster.Grid) [][]int {
	out := make([][]int, g.Rows())
	for i := range out {
		out[i] = make([]int, g.Cols())
		for j := range out[i] {
			out[i][j] = g.At(i, j)
		}
	}
	return out
}

// referenceLabels flood-fills foreground pixels using the neighbourhood the
// scan sees (edges plus the NW/SE diagonal) and numbers objects in the raster
// order of their first pixel.
func referenceLabels(g *raster.Grid) ([][]int, int) {
	rows, cols := g.Rows(), g.Cols()
	out := make([][]int, rows)
	for i := range out {
		out[i] = make([]int, cols)
	}
	steps := [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {1, 1}}

	next := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if g.At(i, j) == 0 || out[i][j] != 0 {
				continue
			}
			next++
			stack := [][2]int{{i, j}}
			out[i][j] = next
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for _, s := range steps {
					r, c := p[0]+s[0], p[1]+s[1]
					if g.Inside(r, c) && g.At(r, c) != 0 && out[r][c] == 0 {
						out[r][c] = next
						stack = append(stack, [2]int{r, c})
					}
				}
			}
		}
	}
	return out, next
}

func randomBinary(rng *rand.Rand, rows, cols int, density float64) *raster.Grid {
	g := raster.MustGrid(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if rng.Float64() < density {
				g.Set(i, j, 1)
			}
		}
	}
	g.Levels = 1
	return g
}

func TestLabel_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		input     [][]int
		wantCount int
		want      [][]int
	}{
		{
			name:      "L shape",
			input:     [][]int{{1, 0, 0}, {1, 0, 0}, {1, 1, 1}},
			wantCount: 1,
			want:      [][]int{{1, 0, 0}, {1, 0, 0}, {1, 1, 1}},
		},
		{
			name:      "north-west diagonal touch",
			input:     [][]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 0}},
			wantCount: 1,
			want:      [][]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 0}},
		},
		{
			name:      "single row gap",
			input:     [][]int{{1, 0, 1}},
			wantCount: 2,
			want:      [][]int{{1, 0, 2}},
		},
		{
			name:      "U joined by its base",
			input:     [][]int{{1, 0, 1}, {1, 0, 1}, {1, 1, 1}},
			wantCount: 1,
			want:      [][]int{{1, 0, 1}, {1, 0, 1}, {1, 1, 1}},
		},
		{
			name:      "north-east diagonal stays apart",
			input:     [][]int{{0, 1}, {1, 0}},
			wantCount: 2,
			want:      [][]int{{0, 1}, {2, 0}},
		},
		{
			name:      "all background",
			input:     [][]int{{0, 0, 0}, {0, 0, 0}},
			wantCount: 0,
			want:      [][]int{{0, 0, 0}, {0, 0, 0}},
		},
		{
			name:      "single pixel",
			input:     [][]int{{255}},
			wantCount: 1,
			want:      [][]int{{1}},
		},
		{
			name: "W shape merges three provisional labels",
			input: [][]int{
				{1, 0, 1, 0, 1},
				{1, 0, 1, 0, 1},
				{1, 1, 1, 1, 1},
			},
			wantCount: 1,
			want: [][]int{
				{1, 0, 1, 0, 1},
				{1, 0, 1, 0, 1},
				{1, 1, 1, 1, 1},
			},
		},
		{
			name: "objects numbered by first pixel",
			input: [][]int{
				{0, 0, 0, 1, 1},
				{1, 1, 0, 0, 1},
				{0, 0, 0, 0, 0},
				{1, 0, 1, 1, 0},
			},
			wantCount: 4,
			want: [][]int{
				{0, 0, 0, 1, 1},
				{2, 2, 0, 0, 1},
				{0, 0, 0, 0, 0},
				{3, 0, 4, 4, 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gridFrom(t, tt.input)
			res := Label(g)

			assert.Equal(t, tt.wantCount, res.Count)
			assert.Equal(t, tt.wantCount, g.Levels)
			assert.Equal(t, tt.want, toRows(g))
		})
	}
}

func TestLabel_UsesUnionForLateJoin(t *testing.T) {
	g := gridFrom(t, [][]int{{1, 0, 1}, {1, 0, 1}, {1, 1, 1}})
	res := Label(g)

	assert.Equal(t, 2, res.Provisional, "each arm gets its own provisional label")
	assert.Equal(t, 1, res.Count)
}

func TestLabel_NorthWestBranchUnions(t *testing.T) {
	// At (2,2): NW=(1,1) carries the left object's label while N=(1,2) carries
	// the right arm's label and W is background; the NW/N union must fire.
	g := gridFrom(t, [][]int{
		{1, 0, 1},
		{1, 1, 1},
		{0, 0, 1},
	})
	res := Label(g)

	assert.Equal(t, 1, res.Count)
	assert.Equal(t, [][]int{{1, 0, 1}, {1, 1, 1}, {0, 0, 1}}, toRows(g))
}

func TestLabel_MatchesFloodFill(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for n := 0; n < 200; n++ {
		rows := 1 + rng.Intn(24)
		cols := 1 + rng.Intn(24)
		density := 0.2 + 0.6*rng.Float64()
		g := randomBinary(rng, rows, cols, density)

		want, wantCount := referenceLabels(g)
		res := Label(g)

		require.Equal(t, wantCount, res.Count, "case %d (%dx%d)", n, rows, cols)
		require.Equal(t, want, toRows(g), "case %d (%dx%d)", n, rows, cols)
	}
}

func TestLabel_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for n := 0; n < 100; n++ {
		g := randomBinary(rng, 1+rng.Intn(30), 1+rng.Intn(30), 0.5)
		input := g.Clone()
		res := Label(g)

		seen := make(map[int]bool)
		for i := 0; i < g.Rows(); i++ {
			for j := 0; j < g.Cols(); j++ {
				v := g.At(i, j)
				if input.At(i, j) == 0 {
					require.Zero(t, v, "background must stay 0")
					continue
				}
				require.GreaterOrEqual(t, v, 1)
				require.LessOrEqual(t, v, res.Count)
				seen[v] = true

				// 4-connected neighbours share a label.
				if i > 0 && input.At(i-1, j) != 0 {
					require.Equal(t, v, g.At(i-1, j))
				}
				if j > 0 && input.At(i, j-1) != 0 {
					require.Equal(t, v, g.At(i, j-1))
				}
			}
		}

		// Dense: labels are exactly 1..K.
		require.Len(t, seen, res.Count)
		for l := 1; l <= res.Count; l++ {
			require.True(t, seen[l], "label %d missing", l)
		}
	}
}

func TestLabel_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := randomBinary(rng, 40, 40, 0.55)

	first := g.Clone()
	second := g.Clone()
	r1 := Label(first)
	r2 := Label(second)

	assert.Equal(t, r1, r2)
	assert.True(t, first.Equal(second), "repeated runs must be bit-identical")
}

func TestLabel_EmptyGrid(t *testing.T) {
	g := raster.MustGrid(5, 7)
	res := Label(g)

	assert.Zero(t, res.Count)
	assert.Zero(t, res.Provisional)
	assert.Zero(t, g.Max())
}

func TestLabelBinary_LeavesInputAlone(t *testing.T) {
	g := gridFrom(t, [][]int{{0, 200}, {90, 0}})
	in := g.Clone()

	out, res := LabelBinary(g)

	assert.True(t, g.Equal(in))
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, [][]int{{0, 1}, {2, 0}}, toRows(out))
}

func TestRelabelTable(t *testing.T) {
	f := disjoint.New()
	for i := 0; i < 5; i++ {
		f.AddElement()
	}
	f.Union(4, 2)
	f.Union(5, 3)

	table := NewRelabelTable(f)

	assert.Equal(t, 3, table.Count())
	assert.Equal(t, []int{1, 2, 3}, table.Roots())
	for raw, want := range map[int]int{1: 1, 2: 2, 3: 3, 4: 2, 5: 3} {
		assert.Equal(t, want, table.Lookup(raw), "Lookup(%d)", raw)
	}
	assert.Zero(t, table.Lookup(0))
	assert.Zero(t, table.Lookup(6))
}

func TestRelabelTable_ApplySkipsOutOfRange(t *testing.T) {
	f := disjoint.New()
	f.AddElement()
	f.AddElement()
	f.Union(1, 2)

	g := gridFrom(t, [][]int{{0, 1, 2, 9}})
	NewRelabelTable(f).Apply(g)

	assert.Equal(t, [][]int{{0, 1, 1, 9}}, toRows(g))
}
