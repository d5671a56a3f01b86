package usecases

import (
	"context"

	"github.com/lintang-b-s/osmroute/pkg/datastructure"
	"github.com/lintang-b-s/osmroute/pkg/engine"
	"golang.org/x/exp/rand"
)

type RoutingEngine interface {
	GetGraph() *datastructure.RoadGraph
	ShortestPathByCoord(ctx context.Context, origLat, origLon, dstLat, dstLon float64) (engine.Route, bool, error)
	RandomConnectedPair(ctx context.Context, rng *rand.Rand, attempts int) (engine.Route, error)
}
