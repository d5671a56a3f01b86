package guidance

import (
	"sort"
	"strings"

	"github.com/lintang-b-s/osmroute/pkg"
	"github.com/lintang-b-s/osmroute/pkg/datastructure"
)

type PathStep struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// VertexLabel names a vertex by the named ways it lies on, sorted and comma separated.
// a vertex on unnamed ways only is labelled "unnamed".
func VertexLabel(graph Graph, v datastructure.Index) string {
	seen := make(map[string]struct{})
	names := make([]string, 0, 2)
	for _, wId := range graph.WaysOf(v) {
		way := graph.GetWay(wId)
		if !way.IsNamed() {
			continue
		}
		if _, ok := seen[way.GetName()]; ok {
			continue
		}
		seen[way.GetName()] = struct{}{}
		names = append(names, way.GetName())
	}
	if len(names) == 0 {
		return pkg.UNNAMED_WAY
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func DescribePath(graph Graph, path []datastructure.Index) []PathStep {
	steps := make([]PathStep, len(path))
	for i, v := range path {
		vertex := graph.GetVertex(v)
		steps[i] = PathStep{
			Label: VertexLabel(graph, v),
			Lat:   vertex.GetLat(),
			Lon:   vertex.GetLon(),
		}
	}
	return steps
}
