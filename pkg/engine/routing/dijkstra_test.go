package routing

import (
	"context"
	"math"
	"testing"

	da "github.com/lintang-b-s/osmroute/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

type point struct {
	x, y int
}

// lattice is the (0..width) x (0..height) grid, horizontal moves cost 1 and vertical moves cost 2.
type lattice struct {
	width, height int
}

func (l lattice) Neighbors(p point) []da.Neighbor[point] {
	res := make([]da.Neighbor[point], 0, 4)
	if p.x < l.width {
		res = append(res, da.NewNeighbor(point{p.x + 1, p.y}, 1))
	}
	if p.x > 0 {
		res = append(res, da.NewNeighbor(point{p.x - 1, p.y}, 1))
	}
	if p.y < l.height {
		res = append(res, da.NewNeighbor(point{p.x, p.y + 1}, 2))
	}
	if p.y > 0 {
		res = append(res, da.NewNeighbor(point{p.x, p.y - 1}, 2))
	}
	return res
}

type arc struct {
	from, to int
	weight   float64
}

// randomSparseGraph directed graph on n vertices, each arc present with probability p, integer weights in [1, maxW].
func randomSparseGraph(seed uint64, n int, p float64, maxW int) (*da.AdjacencyMap[int], []arc) {
	rng := rand.New(rand.NewSource(seed))
	g := da.NewAdjacencyMap[int]()
	arcs := make([]arc, 0)
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			if u == v || rng.Float64() >= p {
				continue
			}
			w := float64(1 + rng.Intn(maxW))
			g.AddEdge(u, v, w)
			arcs = append(arcs, arc{u, v, w})
		}
	}
	return g, arcs
}

// bellmanFord is the reference oracle for single source distances.
func bellmanFord(n int, arcs []arc, source int) []float64 {
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[source] = 0
	for i := 0; i < n-1; i++ {
		changed := false
		for _, a := range arcs {
			if dist[a.from]+a.weight < dist[a.to] {
				dist[a.to] = dist[a.from] + a.weight
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return dist
}

// pathWeight sums the cheapest arc between consecutive path vertices, failing if two of them are not adjacent.
func pathWeight[V comparable](t *testing.T, g da.Graph[V], path []V) float64 {
	t.Helper()
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		best := math.Inf(1)
		for _, nb := range g.Neighbors(path[i]) {
			if nb.Vertex == path[i+1] && nb.Weight < best {
				best = nb.Weight
			}
		}
		require.Falsef(t, math.IsInf(best, 1), "%v and %v are not adjacent", path[i], path[i+1])
		total += best
	}
	return total
}

func TestShortestPathSmallGraph(t *testing.T) {
	g := da.NewAdjacencyMap[string]()
	g.AddUndirectedEdge("a", "b", 7)
	g.AddUndirectedEdge("a", "c", 9)
	g.AddUndirectedEdge("a", "f", 14)
	g.AddUndirectedEdge("b", "c", 10)
	g.AddUndirectedEdge("b", "d", 15)
	g.AddUndirectedEdge("c", "d", 11)
	g.AddUndirectedEdge("c", "f", 2)
	g.AddUndirectedEdge("d", "e", 6)
	g.AddUndirectedEdge("e", "f", 9)
	g.AddEdge("z", "a", 1) // z reaches the graph but nothing reaches z

	testCases := []struct {
		name      string
		source    string
		target    string
		wantDist  float64
		wantPath  []string
		wantFound bool
	}{
		{name: "a to e", source: "a", target: "e", wantDist: 20, wantPath: []string{"a", "c", "f", "e"}, wantFound: true},
		{name: "e to a", source: "e", target: "a", wantDist: 20, wantPath: []string{"e", "f", "c", "a"}, wantFound: true},
		{name: "a to d", source: "a", target: "d", wantDist: 20, wantPath: []string{"a", "c", "d"}, wantFound: true},
		{name: "same vertex", source: "d", target: "d", wantDist: 0, wantPath: []string{"d"}, wantFound: true},
		{name: "one way arc", source: "z", target: "b", wantDist: 8, wantPath: []string{"z", "a", "b"}, wantFound: true},
		{name: "against one way arc", source: "a", target: "z", wantFound: false},
		{name: "vertex without arcs", source: "q", target: "a", wantFound: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			dist, path, found, err := FindShortestPath[string](context.Background(), g, tt.source, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			if !tt.wantFound {
				assert.Nil(t, path)
				assert.Zero(t, dist)
				return
			}
			assert.Equal(t, tt.wantDist, dist)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestShortestPathSameVertexDoesNotExpand(t *testing.T) {
	l := lattice{width: 10, height: 10}
	for _, v := range []point{{0, 0}, {5, 5}, {10, 10}} {
		d := NewDijkstra[point](l)
		dist, path, found, err := d.ShortestPath(context.Background(), v, v)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 0.0, dist)
		assert.Equal(t, []point{v}, path)
		assert.Equal(t, 1, d.NumSettledNodes())
	}
}

func TestShortestPathLattice(t *testing.T) {
	n := 20
	l := lattice{width: n, height: n}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		start := point{rng.Intn(n + 1), rng.Intn(n + 1)}
		end := point{rng.Intn(n + 1), rng.Intn(n + 1)}

		dist, path, found, err := FindShortestPath[point](context.Background(), l, start, end)
		require.NoError(t, err)
		require.True(t, found)

		want := math.Abs(float64(start.x-end.x)) + 2*math.Abs(float64(start.y-end.y))
		assert.Equal(t, want, dist, "%v -> %v", start, end)
		assert.Equal(t, start, path[0])
		assert.Equal(t, end, path[len(path)-1])
		assert.Equal(t, dist, pathWeight[point](t, l, path))
	}
}

func TestShortestPathLatticeFromOrigin(t *testing.T) {
	n := 12
	l := lattice{width: n, height: n}
	for x := 0; x <= n; x++ {
		for y := 0; y <= n; y++ {
			dist, _, found, err := FindShortestPath[point](context.Background(), l, point{0, 0}, point{x, y})
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, float64(x+2*y), dist)
		}
	}
}

func TestShortestPathMatchesBellmanFord(t *testing.T) {
	n := 60
	for seed := uint64(1); seed <= 5; seed++ {
		g, arcs := randomSparseGraph(seed, n, 0.05, 20)
		for s := 0; s < n; s += 7 {
			oracle := bellmanFord(n, arcs, s)
			for target := 0; target < n; target++ {
				dist, path, found, err := FindShortestPath[int](context.Background(), g, s, target)
				require.NoError(t, err)

				if math.IsInf(oracle[target], 1) {
					assert.False(t, found, "seed %d: %d -> %d should be unreachable", seed, s, target)
					assert.Nil(t, path)
					continue
				}

				require.True(t, found, "seed %d: %d -> %d should be reachable", seed, s, target)
				assert.InDelta(t, oracle[target], dist, 1e-9)
				assert.Equal(t, s, path[0])
				assert.Equal(t, target, path[len(path)-1])
				assert.InDelta(t, dist, pathWeight[int](t, g, path), 1e-9)
			}
		}
	}
}

func TestShortestPathDeterministic(t *testing.T) {
	n := 100
	g, _ := randomSparseGraph(42, n, 0.2, 1)
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 200; i++ {
		s, target := rng.Intn(n), rng.Intn(n)

		d1, p1, f1, err := FindShortestPath[int](context.Background(), g, s, target)
		require.NoError(t, err)
		d2, p2, f2, err := FindShortestPath[int](context.Background(), g, s, target)
		require.NoError(t, err)

		assert.Equal(t, f1, f2)
		assert.Equal(t, d1, d2)
		// fixed neighbor order + insertion order tie-break gives the very same path
		assert.Equal(t, p1, p2)
		if f1 {
			assert.Equal(t, d1, pathWeight[int](t, g, p2))
		}
	}
}

func TestShortestPathReuseAndHeapArity(t *testing.T) {
	g, arcs := randomSparseGraph(11, 40, 0.1, 9)
	oracle := bellmanFord(40, arcs, 0)

	for _, d := range []int{2, 3, 4, 8} {
		dijkstra := NewDijkstra[int](g, WithHeapArity(d), WithHeapCapacity(16))
		for target := 0; target < 40; target++ {
			dist, _, found, err := dijkstra.ShortestPath(context.Background(), 0, target)
			require.NoError(t, err)
			if math.IsInf(oracle[target], 1) {
				assert.False(t, found)
				continue
			}
			assert.Equal(t, oracle[target], dist)
		}
	}
}

func TestShortestPathRejectsNegativeWeight(t *testing.T) {
	g := da.NewAdjacencyMap[int]()
	g.AddEdge(0, 1, 1)
	g.AddEdge(1, 2, -3)
	g.AddEdge(2, 3, 1)

	_, path, found, err := FindShortestPath[int](context.Background(), g, 0, 3)
	assert.ErrorIs(t, err, ErrNegativeWeight)
	assert.False(t, found)
	assert.Nil(t, path)

	nan := da.NewAdjacencyMap[int]()
	nan.AddEdge(0, 1, math.NaN())
	_, _, _, err = FindShortestPath[int](context.Background(), nan, 0, 1)
	assert.ErrorIs(t, err, ErrNegativeWeight)
}

func TestShortestPathZeroWeightArcs(t *testing.T) {
	g := da.NewAdjacencyMap[int]()
	g.AddEdge(0, 1, 0)
	g.AddEdge(1, 2, 0)
	g.AddEdge(0, 2, 1)

	dist, path, found, err := FindShortestPath[int](context.Background(), g, 0, 2)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0.0, dist)
	assert.Equal(t, []int{0, 1, 2}, path)
}

func TestShortestPathCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, path, found, err := FindShortestPath[point](ctx, lattice{width: 50, height: 50}, point{0, 0}, point{50, 50})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, found)
	assert.Nil(t, path)
}

func TestShortestPathMaxSettled(t *testing.T) {
	l := lattice{width: 50, height: 50}
	_, _, found, err := FindShortestPath[point](context.Background(), l, point{0, 0}, point{50, 50}, WithMaxSettled(10))
	assert.ErrorIs(t, err, ErrSearchLimitExceeded)
	assert.False(t, found)

	dist, _, found, err := FindShortestPath[point](context.Background(), l, point{0, 0}, point{1, 0}, WithMaxSettled(10))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1.0, dist)
}

func TestShortestPathConcurrentSearches(t *testing.T) {
	n := 80
	g, arcs := randomSparseGraph(5, n, 0.08, 10)
	oracle := bellmanFord(n, arcs, 0)

	var eg errgroup.Group
	for w := 0; w < 8; w++ {
		eg.Go(func() error {
			for target := 0; target < n; target++ {
				dist, _, found, err := FindShortestPath[int](context.Background(), g, 0, target)
				if err != nil {
					return err
				}
				if found != !math.IsInf(oracle[target], 1) || (found && dist != oracle[target]) {
					t.Errorf("target %d: got (%v, %v), want %v", target, dist, found, oracle[target])
				}
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
}

func TestRetrievePathDetectsBrokenChain(t *testing.T) {
	d := NewDijkstra[int](da.NewAdjacencyMap[int]())
	d.reset()

	// 2 -> 1 -> 2 never reaches source 0
	d.finalDist[1] = NewVertexInfo(1, 2, true, nil)
	d.finalDist[2] = NewVertexInfo(2, 1, true, nil)
	_, err := d.retrievePath(0, 2)
	assert.ErrorIs(t, err, ErrBrokenPredecessorChain)

	// missing predecessor
	d.finalDist[3] = NewVertexInfo(3, 0, false, nil)
	_, err = d.retrievePath(0, 3)
	assert.ErrorIs(t, err, ErrBrokenPredecessorChain)
}
