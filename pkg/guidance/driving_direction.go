package guidance

import (
	"github.com/lintang-b-s/osmroute/pkg"
	"github.com/lintang-b-s/osmroute/pkg/datastructure"
	"github.com/lintang-b-s/osmroute/pkg/geo"
	"github.com/lintang-b-s/osmroute/pkg/util"
)

// Segment is a maximal run of consecutive path edges sharing a street name.
type Segment struct {
	StreetName string  `json:"street_name"`
	Turn       string  `json:"turn"`
	Heading    string  `json:"heading"`
	From       int     `json:"from"` // position in the path
	To         int     `json:"to"`
	Distance   float64 `json:"distance"`
	LengthKm   float64 `json:"length_km"`
}

type DirectionBuilder struct {
	graph    Graph
	segments []Segment
	curr     *Segment

	prevFinalBearing float64
}

func NewDirectionBuilder(graph Graph) *DirectionBuilder {
	return &DirectionBuilder{
		graph:    graph,
		segments: make([]Segment, 0),
	}
}

// GroupByWay splits a vertex path into street segments. a path with less than two vertices has none.
func GroupByWay(graph Graph, path []datastructure.Index) []Segment {
	db := NewDirectionBuilder(graph)
	for i := 0; i+1 < len(path); i++ {
		db.addEdge(i, path[i], path[i+1])
	}
	return db.finish()
}

func (db *DirectionBuilder) addEdge(pos int, tailId, headId datastructure.Index) {
	tail := db.graph.GetVertex(tailId)
	head := db.graph.GetVertex(headId)

	streetName := pkg.UNNAMED_WAY
	if e, ok := db.graph.EdgeBetween(tailId, headId); ok && e.GetWayID() != datastructure.INVALID_WAY_ID {
		streetName = db.graph.GetWay(e.GetWayID()).GetName()
	}

	bearing := computeInitialBearing(tail.GetLat(), tail.GetLon(), head.GetLat(), head.GetLon())
	dist := geo.EuclideanDistance(tail.GetLat(), tail.GetLon(), head.GetLat(), head.GetLon())
	distKm := geo.CalculateHaversineDistance(tail.GetLat(), tail.GetLon(), head.GetLat(), head.GetLon())

	if db.curr == nil || db.curr.StreetName != streetName {
		turn := DEPART
		if db.curr != nil {
			turn = getTurnDirection(db.prevFinalBearing, bearing)
			db.segments = append(db.segments, *db.curr)
		}
		db.curr = &Segment{
			StreetName: streetName,
			Turn:       turn.String(),
			Heading:    geo.CompassDirection(util.RadiansToDegree(bearing)),
			From:       pos,
			To:         pos,
		}
	}

	db.curr.To = pos + 1
	db.curr.Distance += dist
	db.curr.LengthKm += distKm
	db.prevFinalBearing = bearing
}

func (db *DirectionBuilder) finish() []Segment {
	if db.curr != nil {
		db.segments = append(db.segments, *db.curr)
		db.curr = nil
	}
	return db.segments
}
