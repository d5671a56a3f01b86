package routing

import (
	da "github.com/lintang-b-s/osmroute/pkg/datastructure"
)

// VertexInfo is the search label of a vertex: distance from the source, predecessor and its heap node.
type VertexInfo[V comparable] struct {
	travelTime float64
	parent     V
	hasParent  bool
	heapNode   *da.PriorityQueueNode[V]
}

func NewVertexInfo[V comparable](travelTime float64, parent V, hasParent bool,
	heapNode *da.PriorityQueueNode[V]) *VertexInfo[V] {
	return &VertexInfo[V]{
		travelTime: travelTime,
		parent:     parent,
		hasParent:  hasParent,
		heapNode:   heapNode,
	}
}

func (vi *VertexInfo[V]) GetTravelTime() float64 {
	return vi.travelTime
}

func (vi *VertexInfo[V]) GetParent() V {
	return vi.parent
}

func (vi *VertexInfo[V]) HasParent() bool {
	return vi.hasParent
}

func (vi *VertexInfo[V]) GetHeapNode() *da.PriorityQueueNode[V] {
	return vi.heapNode
}

func (vi *VertexInfo[V]) UpdateTravelTime(travelTime float64) {
	vi.travelTime = travelTime
}

func (vi *VertexInfo[V]) UpdateParent(parent V) {
	vi.parent = parent
	vi.hasParent = true
}
