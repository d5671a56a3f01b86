package guidance

import "github.com/lintang-b-s/osmroute/pkg/datastructure"

type Graph interface {
	GetVertex(v datastructure.Index) *datastructure.Vertex
	GetWay(w datastructure.Index) *datastructure.Way
	WaysOf(v datastructure.Index) []datastructure.Index
	EdgeBetween(u, v datastructure.Index) (*datastructure.OutEdge, bool)
}
