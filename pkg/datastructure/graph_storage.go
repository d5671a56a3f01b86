package datastructure

import (
	"fmt"
	"math"
	"sort"

	"github.com/lintang-b-s/osmroute/pkg"
	"github.com/lintang-b-s/osmroute/pkg/geo"
)

type rawEdge struct {
	from, to Index
	weight   float64
	wayId    Index
}

// GraphStorage collects vertices and ways while a road network is being parsed.
// it is the only mutable stage; Build freezes it into a RoadGraph.
type GraphStorage struct {
	vertices []Vertex
	ways     []Way
	edges    []rawEdge
	osmIdMap map[int64]Index
}

func NewGraphStorage() *GraphStorage {
	return &GraphStorage{
		vertices: make([]Vertex, 0),
		ways:     make([]Way, 0),
		edges:    make([]rawEdge, 0),
		osmIdMap: make(map[int64]Index),
	}
}

func NewGraphStorageWithSize(numberOfEdges, numberOfVertices int) *GraphStorage {
	return &GraphStorage{
		vertices: make([]Vertex, 0, numberOfVertices),
		ways:     make([]Way, 0),
		edges:    make([]rawEdge, 0, numberOfEdges),
		osmIdMap: make(map[int64]Index, numberOfVertices),
	}
}

// AddVertex registers a point. adding the same osm id twice returns the first vertex.
func (gs *GraphStorage) AddVertex(osmId int64, lat, lon float64) Index {
	if v, ok := gs.osmIdMap[osmId]; ok {
		return v
	}
	id := Index(len(gs.vertices))
	gs.vertices = append(gs.vertices, NewVertex(lat, lon, osmId, id))
	gs.osmIdMap[osmId] = id
	return id
}

func (gs *GraphStorage) GetVertexByOsmID(osmId int64) (Index, bool) {
	v, ok := gs.osmIdMap[osmId]
	return v, ok
}

func (gs *GraphStorage) NumberOfVertices() int {
	return len(gs.vertices)
}

// AddWay registers a way over already added vertices and connects each consecutive pair of its nodes
// with an undirected segment weighted by the flat euclidean distance of their coordinates.
func (gs *GraphStorage) AddWay(osmId int64, name, highway string, nodes []Index) (Index, error) {
	for _, v := range nodes {
		if int(v) >= len(gs.vertices) {
			return INVALID_WAY_ID, fmt.Errorf("way %d references unknown vertex %d", osmId, v)
		}
	}

	wayId := Index(len(gs.ways))
	wayNodes := make([]Index, len(nodes))
	copy(wayNodes, nodes)
	gs.ways = append(gs.ways, NewWay(osmId, name, pkg.GetHighwayType(highway), wayNodes, wayId))

	for i := 0; i+1 < len(wayNodes); i++ {
		u, v := wayNodes[i], wayNodes[i+1]
		if u == v {
			continue
		}
		w := geo.EuclideanDistance(gs.vertices[u].lat, gs.vertices[u].lon, gs.vertices[v].lat, gs.vertices[v].lon)
		gs.edges = append(gs.edges, rawEdge{from: u, to: v, weight: w, wayId: wayId})
	}
	return wayId, nil
}

// AddEdge adds an undirected segment directly, for graphs that do not come from osm ways.
func (gs *GraphStorage) AddEdge(u, v Index, weight float64, wayId Index) error {
	if int(u) >= len(gs.vertices) || int(v) >= len(gs.vertices) {
		return fmt.Errorf("edge %d-%d references unknown vertex", u, v)
	}
	if weight < 0 || math.IsNaN(weight) {
		return fmt.Errorf("edge %d-%d has invalid weight %v", u, v, weight)
	}
	gs.edges = append(gs.edges, rawEdge{from: u, to: v, weight: weight, wayId: wayId})
	return nil
}

// Build freezes the storage. every segment becomes two arcs, duplicate arcs between the same pair
// collapse to the cheapest one, and each adjacency list is sorted by head.
func (gs *GraphStorage) Build() *RoadGraph {
	n := len(gs.vertices)
	arcs := make([]rawEdge, 0, 2*len(gs.edges))
	for _, e := range gs.edges {
		arcs = append(arcs, e, rawEdge{from: e.to, to: e.from, weight: e.weight, wayId: e.wayId})
	}

	sort.SliceStable(arcs, func(i, j int) bool {
		if arcs[i].from != arcs[j].from {
			return arcs[i].from < arcs[j].from
		}
		if arcs[i].to != arcs[j].to {
			return arcs[i].to < arcs[j].to
		}
		return arcs[i].weight < arcs[j].weight
	})

	firstOut := make([]Index, n+1)
	outEdges := make([]OutEdge, 0, len(arcs))
	for i, a := range arcs {
		if i > 0 && arcs[i-1].from == a.from && arcs[i-1].to == a.to {
			continue
		}
		outEdges = append(outEdges, NewOutEdge(a.to, a.weight, a.wayId))
		firstOut[a.from+1]++
	}
	for v := 0; v < n; v++ {
		firstOut[v+1] += firstOut[v]
	}

	vertices := make([]Vertex, n)
	copy(vertices, gs.vertices)
	ways := make([]Way, len(gs.ways))
	copy(ways, gs.ways)

	return newRoadGraph(vertices, ways, firstOut, outEdges)
}
