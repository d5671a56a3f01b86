package spatialindex

import (
	"errors"
	"math"

	"github.com/lintang-b-s/osmroute/pkg/datastructure"
	"github.com/lintang-b-s/osmroute/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

var ErrNoNearbyVertex = errors.New("no street vertex within search radius")

type Rtree struct {
	tr *rtree.RTreeG[datastructure.Index]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[datastructure.Index]
	return &Rtree{
		tr: &tr,
	}
}

// Build indexes every street vertex of the graph as a point.
func (rt *Rtree) Build(graph *datastructure.RoadGraph, log *zap.Logger) {
	log.Info("Building R-tree spatial index...")
	for _, v := range graph.StreetVertices() {
		lat, lon := graph.GetVertexCoordinates(v)
		rt.tr.Insert([2]float64{lon, lat}, [2]float64{lon, lat}, v)
	}
	log.Info("R-tree spatial index built.", zap.Int("items", rt.tr.Len()))
}

// SearchWithinRadius returns the vertices inside the bounding box of the circle of radius km around (qLat, qLon).
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []datastructure.Index {
	lower, upper := boundingBoxAround(qLat, qLon, radius)

	results := make([]datastructure.Index, 0, 10)
	rt.tr.Search(lower, upper,
		func(min, max [2]float64, data datastructure.Index) bool {
			results = append(results, data)
			return true
		})
	return results
}

// Nearest snaps (qLat, qLon) to the closest street vertex within radius km, measured on the sphere.
func (rt *Rtree) Nearest(qLat, qLon, radius float64) (datastructure.Index, float64, error) {
	lower, upper := boundingBoxAround(qLat, qLon, radius)

	best := datastructure.INVALID_VERTEX_ID
	bestDist := math.Inf(1)
	rt.tr.Search(lower, upper,
		func(min, max [2]float64, data datastructure.Index) bool {
			d := geo.GreatCircleDistance(qLat, qLon, min[1], min[0])
			if d < bestDist || (d == bestDist && data < best) {
				best, bestDist = data, d
			}
			return true
		})

	if best == datastructure.INVALID_VERTEX_ID || bestDist > radius {
		return datastructure.INVALID_VERTEX_ID, 0, ErrNoNearbyVertex
	}
	return best, bestDist, nil
}

// boundingBoxAround returns the (lon, lat) corners of the box enclosing the circle of radius km.
func boundingBoxAround(qLat, qLon, radius float64) ([2]float64, [2]float64) {
	lowerLat, _ := geo.GetDestinationPoint(qLat, qLon, 180, radius)
	upperLat, _ := geo.GetDestinationPoint(qLat, qLon, 0, radius)
	_, lowerLon := geo.GetDestinationPoint(qLat, qLon, 270, radius)
	_, upperLon := geo.GetDestinationPoint(qLat, qLon, 90, radius)
	return [2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat}
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}
