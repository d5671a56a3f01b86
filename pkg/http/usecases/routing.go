package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lintang-b-s/osmroute/pkg/datastructure"
	"github.com/lintang-b-s/osmroute/pkg/engine"
	"github.com/lintang-b-s/osmroute/pkg/geo"
	"github.com/lintang-b-s/osmroute/pkg/guidance"
	"github.com/lintang-b-s/osmroute/pkg/spatialindex"
	"github.com/lintang-b-s/osmroute/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

var ErrPathNotFound = errors.New("path not found")

type RouteResult struct {
	Distance   float64
	DistanceKm float64
	Polyline   string
	Steps      []guidance.PathStep
	Segments   []guidance.Segment
}

type RoutingService struct {
	log            *zap.Logger
	engine         RoutingEngine
	randomAttempts int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRoutingService(log *zap.Logger, engine RoutingEngine, randomAttempts int) *RoutingService {
	return &RoutingService{
		log:            log,
		engine:         engine,
		randomAttempts: randomAttempts,
		rng:            rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func (rs *RoutingService) ShortestPath(ctx context.Context, origLat, origLon, dstLat, dstLon float64) (RouteResult, error) {
	route, found, err := rs.engine.ShortestPathByCoord(ctx, origLat, origLon, dstLat, dstLon)
	if errors.Is(err, spatialindex.ErrNoNearbyVertex) {
		return RouteResult{}, util.WrapErrorf(err, util.ErrBadParamInput, "origin or destination is too far from any road")
	} else if err != nil {
		return RouteResult{}, util.WrapErrorf(err, util.ErrInternalServerError, "%s", util.MessageInternalServerError)
	}
	if !found {
		return RouteResult{}, util.WrapErrorf(ErrPathNotFound, util.ErrNotFound, "no path found from %f,%f to %f,%f",
			origLat, origLon, dstLat, dstLon)
	}
	return rs.describe(route), nil
}

// RandomRoute picks two random connected street vertices and routes between them.
func (rs *RoutingService) RandomRoute(ctx context.Context) (RouteResult, error) {
	rs.mu.Lock()
	seed := rs.rng.Uint64()
	rs.mu.Unlock()

	route, err := rs.engine.RandomConnectedPair(ctx, rand.New(rand.NewSource(seed)), rs.randomAttempts)
	if errors.Is(err, engine.ErrNoConnectedPair) || errors.Is(err, engine.ErrEmptyStreetGraph) {
		return RouteResult{}, util.WrapErrorf(err, util.ErrNotFound, "no connected pair of vertices found")
	} else if err != nil {
		return RouteResult{}, util.WrapErrorf(err, util.ErrInternalServerError, "%s", util.MessageInternalServerError)
	}
	return rs.describe(route), nil
}

func (rs *RoutingService) describe(route engine.Route) RouteResult {
	graph := rs.engine.GetGraph()

	coords := make([]geo.Coordinate, len(route.Path))
	for i, v := range route.Path {
		lat, lon := graph.GetVertexCoordinates(v)
		coords[i] = geo.NewCoordinate(lat, lon)
	}

	segments := guidance.GroupByWay(graph, route.Path)
	distKm := 0.0
	for _, s := range segments {
		distKm += s.LengthKm
	}

	rs.log.Debug("route described", zap.Int("vertices", len(route.Path)), zap.Int("segments", len(segments)))

	return RouteResult{
		Distance:   route.Distance,
		DistanceKm: util.RoundFloat(distKm, 3),
		Polyline:   geo.PolylineFromCoords(coords),
		Steps:      guidance.DescribePath(graph, route.Path),
		Segments:   segments,
	}
}

var _ RoutingEngine = (*engine.Engine)(nil)
var _ guidance.Graph = (*datastructure.RoadGraph)(nil)
