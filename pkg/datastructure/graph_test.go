package datastructure

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lintang-b-s/osmroute/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// two crossing streets:
//
//	      n3
//	      |  "Jalan Kaliurang"
//	n0 -- n1 -- n2   "Jalan Malioboro"
//	      |
//	      n4 -- n5   (unnamed service road n4-n5)
func buildCrossing(t *testing.T) *RoadGraph {
	t.Helper()
	gs := NewGraphStorage()
	n0 := gs.AddVertex(100, 0, 0)
	n1 := gs.AddVertex(101, 0, 1)
	n2 := gs.AddVertex(102, 0, 2)
	n3 := gs.AddVertex(103, 1, 1)
	n4 := gs.AddVertex(104, -1, 1)
	n5 := gs.AddVertex(105, -1, 2)
	gs.AddVertex(106, 5, 5) // on no way

	_, err := gs.AddWay(1, "Jalan Malioboro", "primary", []Index{n0, n1, n2})
	require.NoError(t, err)
	_, err = gs.AddWay(2, "Jalan Kaliurang", "secondary", []Index{n3, n1, n4})
	require.NoError(t, err)
	_, err = gs.AddWay(3, "", "service", []Index{n4, n5, n5})
	require.NoError(t, err)
	// duplicate segment through another way collapses
	_, err = gs.AddWay(4, "Jalan Malioboro", "primary", []Index{n1, n2})
	require.NoError(t, err)

	return gs.Build()
}

func TestGraphStorageBuild(t *testing.T) {
	g := buildCrossing(t)

	assert.Equal(t, 7, g.NumberOfVertices())
	assert.Equal(t, 4, g.NumberOfWays())
	// 5 undirected segments
	assert.Equal(t, 10, g.NumberOfEdges())

	n1, ok := g.VertexByOsmID(101)
	require.True(t, ok)
	nbs := g.Neighbors(n1)
	require.Len(t, nbs, 4)
	for i := 1; i < len(nbs); i++ {
		assert.Less(t, nbs[i-1].Vertex, nbs[i].Vertex)
	}
	for _, nb := range nbs {
		assert.InDelta(t, 1.0, nb.Weight, 1e-12)
	}

	isolated, _ := g.VertexByOsmID(106)
	assert.Empty(t, g.Neighbors(isolated))
	assert.Nil(t, g.Neighbors(Index(1000)))

	assert.Len(t, g.StreetVertices(), 6)
	assert.NotContains(t, g.StreetVertices(), isolated)

	n5, _ := g.VertexByOsmID(105)
	n4, _ := g.VertexByOsmID(104)
	e, ok := g.EdgeBetween(n4, n5)
	require.True(t, ok)
	assert.Equal(t, pkg.UNNAMED_WAY, g.GetWay(e.GetWayID()).GetName())
	_, ok = g.EdgeBetween(n5, n1)
	assert.False(t, ok)
}

func TestGraphVertexWayLinks(t *testing.T) {
	g := buildCrossing(t)
	n1, _ := g.VertexByOsmID(101)

	names := make(map[string]struct{})
	for _, w := range g.WaysOf(n1) {
		names[g.GetWay(w).GetName()] = struct{}{}
	}
	assert.Len(t, g.WaysOf(n1), 3)
	assert.Contains(t, names, "Jalan Malioboro")
	assert.Contains(t, names, "Jalan Kaliurang")

	for w := 0; w < g.NumberOfWays(); w++ {
		for _, v := range g.GetWay(Index(w)).GetNodes() {
			assert.Contains(t, g.WaysOf(v), Index(w))
		}
	}

	bb := g.BoundingBox()
	assert.Equal(t, -1.0, bb.GetMinLat())
	assert.Equal(t, 5.0, bb.GetMaxLon())
	assert.True(t, bb.Contains(0, 1))
}

func TestGraphStorageRejectsBadInput(t *testing.T) {
	gs := NewGraphStorage()
	a := gs.AddVertex(1, 0, 0)
	b := gs.AddVertex(2, 0, 1)
	assert.Equal(t, a, gs.AddVertex(1, 9, 9))

	_, err := gs.AddWay(7, "x", "primary", []Index{a, 42})
	assert.Error(t, err)
	assert.Error(t, gs.AddEdge(a, b, -1, INVALID_WAY_ID))
	assert.Error(t, gs.AddEdge(a, b, math.NaN(), INVALID_WAY_ID))
	assert.NoError(t, gs.AddEdge(a, b, 3, INVALID_WAY_ID))
}

func TestGraphEncodeDecode(t *testing.T) {
	g := buildCrossing(t)

	var buf bytes.Buffer
	require.NoError(t, g.Encode(&buf))
	got, err := DecodeGraph(&buf)
	require.NoError(t, err)

	assert.Equal(t, g.vertices, got.vertices)
	assert.Equal(t, g.ways, got.ways)
	assert.Equal(t, g.firstOut, got.firstOut)
	assert.Equal(t, g.outEdges, got.outEdges)
	assert.Equal(t, g.vertexWays, got.vertexWays)
}

func TestDecodeGraphRejectsMalformedInput(t *testing.T) {
	vertices := "1 0 0\n2 0 1\n3 0 2\n"
	way := "10 1 3 0 1 2\nJalan Solo\n"

	cases := []struct {
		name string
		text string
	}{
		{"negative vertex count", "-1 0 0\n"},
		{"negative arc count", "0 -5 0\n"},
		{"negative way count", "0 0 -2\n"},
		{"count beyond index range", "4294967295 0 0\n"},
		{"missing header field", "3 0\n"},
		{"truncated vertices", "3 0 0\n1 0 0\n"},
		{"way node out of range", "3 0 1\n" + vertices + "10 1 2 0 7\nx\n"},
		{"heads not sorted", "3 2 1\n" + vertices + way + "0 2 1 0\n0 1 1 0\n"},
		{"parallel arc", "3 2 1\n" + vertices + way + "0 1 1 0\n0 1 2 0\n"},
		{"tails not sorted", "3 2 1\n" + vertices + way + "1 0 1 0\n0 1 1 0\n"},
		{"negative tail", "3 1 1\n" + vertices + way + "-1 1 1 0\n"},
		{"head out of range", "3 1 1\n" + vertices + way + "0 3 1 0\n"},
		{"way id out of range", "3 1 1\n" + vertices + way + "0 1 1 1\n"},
		{"negative weight", "3 1 1\n" + vertices + way + "0 1 -1 0\n"},
		{"nan weight", "3 1 1\n" + vertices + way + "0 1 NaN 0\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := DecodeGraph(strings.NewReader(tc.text))
				assert.Error(t, err)
			})
		})
	}
}

func TestDecodeGraphSortedArcs(t *testing.T) {
	text := "3 3 1\n1 0 0\n2 0 1\n3 0 2\n10 1 3 0 1 2\nJalan Solo\n" +
		"0 1 1 0\n0 2 2 4294967295\n1 0 1 0\n"
	g, err := DecodeGraph(strings.NewReader(text))
	require.NoError(t, err)

	e, ok := g.EdgeBetween(0, 1)
	require.True(t, ok)
	assert.Equal(t, Index(0), e.GetWayID())
	e, ok = g.EdgeBetween(0, 2)
	require.True(t, ok)
	assert.Equal(t, INVALID_WAY_ID, e.GetWayID())
	_, ok = g.EdgeBetween(2, 0)
	assert.False(t, ok)
	assert.Equal(t, 2, g.GetOutDegree(0))
	assert.Equal(t, 0, g.GetOutDegree(2))
}

func TestGraphWriteReadFile(t *testing.T) {
	g := buildCrossing(t)
	path := filepath.Join(t.TempDir(), "crossing.graph")

	require.NoError(t, g.WriteGraph(path))
	got, err := ReadGraph(path)
	require.NoError(t, err)
	assert.Equal(t, g.NumberOfEdges(), got.NumberOfEdges())
	assert.Equal(t, g.outEdges, got.outEdges)

	_, err = ReadGraph(filepath.Join(t.TempDir(), "missing.graph"))
	assert.Error(t, err)
}

func TestAdjacencyMap(t *testing.T) {
	am := NewAdjacencyMap[string]()
	am.AddUndirectedEdge("a", "b", 2)
	am.AddEdge("a", "b", 5)
	am.AddEdge("a", "c", 1)

	w, ok := am.Weight("a", "b")
	require.True(t, ok)
	assert.Equal(t, 2.0, w)

	am.AddEdge("a", "b", 1.5)
	w, _ = am.Weight("a", "b")
	assert.Equal(t, 1.5, w)

	am.SortNeighbors(func(x, y string) bool { return x < y })
	assert.Equal(t, []Neighbor[string]{{"b", 1.5}, {"c", 1}}, am.Neighbors("a"))
	assert.Empty(t, am.Neighbors("z"))
	assert.Equal(t, 2, am.NumberOfVertices())
}
