package datastructure

import "sort"

// Neighbor is one outgoing arc of a vertex: the head vertex and the non-negative cost of traversing to it.
type Neighbor[V comparable] struct {
	Vertex V
	Weight float64
}

func NewNeighbor[V comparable](v V, weight float64) Neighbor[V] {
	return Neighbor[V]{Vertex: v, Weight: weight}
}

// Graph is everything a shortest path search needs from a graph.
// Neighbors must return the same arcs for the same vertex while a search is running;
// a vertex without outgoing arcs returns an empty slice.
type Graph[V comparable] interface {
	Neighbors(v V) []Neighbor[V]
}

// AdjacencyMap is a map backed Graph. Not safe for concurrent writes; concurrent reads are fine once built.
type AdjacencyMap[V comparable] struct {
	adj map[V][]Neighbor[V]
}

func NewAdjacencyMap[V comparable]() *AdjacencyMap[V] {
	return &AdjacencyMap[V]{adj: make(map[V][]Neighbor[V])}
}

// AddEdge adds the directed arc u->v. if u->v already exists the smaller weight is kept.
func (a *AdjacencyMap[V]) AddEdge(u, v V, weight float64) {
	for i, nb := range a.adj[u] {
		if nb.Vertex == v {
			if weight < nb.Weight {
				a.adj[u][i].Weight = weight
			}
			return
		}
	}
	a.adj[u] = append(a.adj[u], NewNeighbor(v, weight))
}

func (a *AdjacencyMap[V]) AddUndirectedEdge(u, v V, weight float64) {
	a.AddEdge(u, v, weight)
	a.AddEdge(v, u, weight)
}

func (a *AdjacencyMap[V]) Neighbors(v V) []Neighbor[V] {
	return a.adj[v]
}

func (a *AdjacencyMap[V]) NumberOfVertices() int {
	return len(a.adj)
}

// Weight returns the weight of arc u->v.
func (a *AdjacencyMap[V]) Weight(u, v V) (float64, bool) {
	for _, nb := range a.adj[u] {
		if nb.Vertex == v {
			return nb.Weight, true
		}
	}
	return 0, false
}

// SortNeighbors orders every adjacency list with less, so neighbor enumeration order does not depend on insertion.
func (a *AdjacencyMap[V]) SortNeighbors(less func(x, y V) bool) {
	for _, nbs := range a.adj {
		sort.SliceStable(nbs, func(i, j int) bool {
			return less(nbs[i].Vertex, nbs[j].Vertex)
		})
	}
}
