package datastructure

import (
	"math"

	"github.com/lintang-b-s/osmroute/pkg"
)

type Index uint32

const (
	INVALID_VERTEX_ID Index = math.MaxUint32
	INVALID_WAY_ID    Index = math.MaxUint32
)

// Vertex is a street point. identity is its Index in RoadGraph.vertices; coordinates and osm id are payload.
type Vertex struct {
	lat   float64
	lon   float64
	osmId int64
	id    Index
}

func NewVertex(lat, lon float64, osmId int64, id Index) Vertex {
	return Vertex{
		lat:   lat,
		lon:   lon,
		osmId: osmId,
		id:    id,
	}
}

func (v *Vertex) GetID() Index {
	return v.id
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

func (v *Vertex) GetOsmID() int64 {
	return v.osmId
}

// Way is an accepted osm way. nodes are vertex indices in way order.
type Way struct {
	osmId  int64
	name   string
	hwType pkg.OsmHighwayType
	nodes  []Index
	id     Index
}

func NewWay(osmId int64, name string, hwType pkg.OsmHighwayType, nodes []Index, id Index) Way {
	if name == "" {
		name = pkg.UNNAMED_WAY
	}
	return Way{
		osmId:  osmId,
		name:   name,
		hwType: hwType,
		nodes:  nodes,
		id:     id,
	}
}

func (w *Way) GetID() Index {
	return w.id
}

func (w *Way) GetOsmID() int64 {
	return w.osmId
}

func (w *Way) GetName() string {
	return w.name
}

func (w *Way) IsNamed() bool {
	return w.name != pkg.UNNAMED_WAY
}

func (w *Way) GetHighwayType() pkg.OsmHighwayType {
	return w.hwType
}

func (w *Way) GetNodes() []Index {
	return w.nodes
}

type OutEdge struct {
	head   Index
	weight float64
	wayId  Index
}

func NewOutEdge(head Index, weight float64, wayId Index) OutEdge {
	return OutEdge{head: head, weight: weight, wayId: wayId}
}

func (e *OutEdge) GetHead() Index {
	return e.head
}

func (e *OutEdge) GetWeight() float64 {
	return e.weight
}

func (e *OutEdge) GetWayID() Index {
	return e.wayId
}

// RoadGraph is the immutable road network built by GraphStorage.Build.
// outgoing arcs of vertex v are outEdges[firstOut[v]:firstOut[v+1]], sorted by head.
// ways of vertex v are vertexWays[firstWay[v]:firstWay[v+1]].
type RoadGraph struct {
	vertices   []Vertex
	ways       []Way
	firstOut   []Index
	outEdges   []OutEdge
	firstWay   []Index
	vertexWays []Index

	osmIdToVertex map[int64]Index
	boundingBox   *BoundingBox

	sccs      []Index // component id per vertex, nil until RunKosaraju
	numSCCs   int
	symmetric bool
}

func newRoadGraph(vertices []Vertex, ways []Way, firstOut []Index, outEdges []OutEdge) *RoadGraph {
	g := &RoadGraph{
		vertices:      vertices,
		ways:          ways,
		firstOut:      firstOut,
		outEdges:      outEdges,
		osmIdToVertex: make(map[int64]Index, len(vertices)),
		boundingBox:   NewEmptyBoundingBox(),
	}

	for i := range vertices {
		g.osmIdToVertex[vertices[i].osmId] = Index(i)
		g.boundingBox.Extend(vertices[i].lat, vertices[i].lon)
	}

	g.linkVertexWays()
	return g
}

// linkVertexWays builds the vertex -> ways side of the point/way relation from the ways' node lists.
func (g *RoadGraph) linkVertexWays() {
	n := len(g.vertices)
	seen := make(map[[2]Index]struct{})
	counts := make([]Index, n+1)
	pairs := make([][2]Index, 0)
	for wi := range g.ways {
		for _, v := range g.ways[wi].nodes {
			key := [2]Index{v, Index(wi)}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, key)
			counts[v+1]++
		}
	}

	g.firstWay = make([]Index, n+1)
	for v := 0; v < n; v++ {
		g.firstWay[v+1] = g.firstWay[v] + counts[v+1]
	}

	g.vertexWays = make([]Index, len(pairs))
	fill := make([]Index, n)
	copy(fill, g.firstWay[:n])
	for _, p := range pairs {
		g.vertexWays[fill[p[0]]] = p[1]
		fill[p[0]]++
	}
}

func (g *RoadGraph) NumberOfVertices() int {
	return len(g.vertices)
}

// NumberOfEdges. number of directed arcs, an undirected road segment counts twice.
func (g *RoadGraph) NumberOfEdges() int {
	return len(g.outEdges)
}

func (g *RoadGraph) NumberOfWays() int {
	return len(g.ways)
}

func (g *RoadGraph) GetVertex(v Index) *Vertex {
	return &g.vertices[v]
}

func (g *RoadGraph) GetVertexCoordinates(v Index) (float64, float64) {
	return g.vertices[v].lat, g.vertices[v].lon
}

func (g *RoadGraph) GetWay(w Index) *Way {
	return &g.ways[w]
}

func (g *RoadGraph) IsValidVertex(v Index) bool {
	return int(v) < len(g.vertices)
}

// VertexByOsmID maps an osm node id to its vertex.
func (g *RoadGraph) VertexByOsmID(osmId int64) (Index, bool) {
	v, ok := g.osmIdToVertex[osmId]
	return v, ok
}

// WaysOf returns the ways passing through v.
func (g *RoadGraph) WaysOf(v Index) []Index {
	return g.vertexWays[g.firstWay[v]:g.firstWay[v+1]]
}

func (g *RoadGraph) GetOutDegree(v Index) int {
	return int(g.firstOut[v+1] - g.firstOut[v])
}

// StreetVertices returns the vertices that lie on at least one way.
func (g *RoadGraph) StreetVertices() []Index {
	vs := make([]Index, 0, len(g.vertices))
	for v := range g.vertices {
		if g.firstWay[v+1] > g.firstWay[v] {
			vs = append(vs, Index(v))
		}
	}
	return vs
}

func (g *RoadGraph) BoundingBox() *BoundingBox {
	return g.boundingBox
}

func (g *RoadGraph) ForOutEdgesOf(v Index, handle func(e *OutEdge)) {
	for i := g.firstOut[v]; i < g.firstOut[v+1]; i++ {
		handle(&g.outEdges[i])
	}
}

// ForVertices iterates all vertices in index order.
func (g *RoadGraph) ForVertices(handle func(v *Vertex)) {
	for i := range g.vertices {
		handle(&g.vertices[i])
	}
}

// Neighbors implements Graph[Index].
func (g *RoadGraph) Neighbors(v Index) []Neighbor[Index] {
	if !g.IsValidVertex(v) {
		return nil
	}
	nbs := make([]Neighbor[Index], 0, g.GetOutDegree(v))
	g.ForOutEdgesOf(v, func(e *OutEdge) {
		nbs = append(nbs, NewNeighbor(e.head, e.weight))
	})
	return nbs
}

// EdgeBetween returns the arc u->v if it exists.
func (g *RoadGraph) EdgeBetween(u, v Index) (*OutEdge, bool) {
	out := g.outEdges[g.firstOut[u]:g.firstOut[u+1]]
	lo, hi := 0, len(out)
	for lo < hi {
		mid := (lo + hi) / 2
		if out[mid].head < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(out) && out[lo].head == v {
		return &out[lo], true
	}
	return nil, false
}
