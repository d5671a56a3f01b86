package engine

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/osmroute/pkg/concurrent"
	da "github.com/lintang-b-s/osmroute/pkg/datastructure"
	"github.com/lintang-b-s/osmroute/pkg/engine/routing"
	"github.com/lintang-b-s/osmroute/pkg/spatialindex"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

var (
	ErrInvalidVertex    = errors.New("vertex is not part of the road graph")
	ErrNoConnectedPair  = errors.New("no connected pair of street vertices found")
	ErrEmptyStreetGraph = errors.New("road graph has no street vertices")
)

// Route is a found shortest path on the road graph.
type Route struct {
	Source   da.Index
	Target   da.Index
	Distance float64
	Path     []da.Index
}

type routeKey struct {
	source, target da.Index
}

type Query struct {
	Id     int
	Source da.Index
	Target da.Index
}

type BatchResult struct {
	Id    int
	Route Route
	Found bool
	Err   error
}

// Engine answers shortest path queries on one immutable road graph. safe for concurrent use.
type Engine struct {
	graph      *da.RoadGraph
	rtree      *spatialindex.Rtree
	snapRadius float64 // km
	logger     *zap.Logger
	routeCache *lru.Cache[routeKey, Route]
	searchOpts []routing.Option
}

const (
	defaultSnapRadius = 0.5
	maxHeapPrealloc   = 1 << 12 // frontier capacity reserved per search, at most
)

// NewEngine loads the road graph written by the preprocessor.
func NewEngine(graphFilePath string, cacheSize int, logger *zap.Logger, searchOpts ...routing.Option) (*Engine, error) {
	logger.Info("Reading graph from ", zap.String("graphFilePath", graphFilePath))
	graph, err := da.ReadGraph(graphFilePath)
	if err != nil {
		return nil, err
	}
	return NewEngineDirect(graph, cacheSize, logger, searchOpts...)
}

func NewEngineDirect(graph *da.RoadGraph, cacheSize int, logger *zap.Logger, searchOpts ...routing.Option) (*Engine, error) {
	e := &Engine{
		graph:      graph,
		rtree:      spatialindex.NewRtree(),
		snapRadius: defaultSnapRadius,
		logger:     logger,
		searchOpts: append([]routing.Option{routing.WithHeapCapacity(min(graph.NumberOfVertices(), maxHeapPrealloc))},
			searchOpts...),
	}
	e.rtree.Build(graph, logger)
	graph.RunKosaraju()
	if cacheSize > 0 {
		cache, err := lru.New[routeKey, Route](cacheSize)
		if err != nil {
			return nil, err
		}
		e.routeCache = cache
	}

	logger.Info("routing engine ready",
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("arcs", graph.NumberOfEdges()),
		zap.Int("ways", graph.NumberOfWays()),
		zap.Int("sccs", graph.NumberOfSCCs()),
		zap.Int("largestScc", graph.LargestSCCSize()))
	if bb := graph.BoundingBox(); !bb.IsEmpty() {
		logger.Info("road graph bounding box",
			zap.Float64("minLat", bb.GetMinLat()), zap.Float64("minLon", bb.GetMinLon()),
			zap.Float64("maxLat", bb.GetMaxLat()), zap.Float64("maxLon", bb.GetMaxLon()))
	}
	return e, nil
}

func (e *Engine) GetGraph() *da.RoadGraph {
	return e.graph
}

// SetSnapRadius sets how far (km) from a query coordinate a street vertex may be.
func (e *Engine) SetSnapRadius(radius float64) {
	e.snapRadius = radius
}

// SnapToVertex returns the street vertex nearest to (lat, lon).
func (e *Engine) SnapToVertex(lat, lon float64) (da.Index, error) {
	v, _, err := e.rtree.Nearest(lat, lon, e.snapRadius)
	if err != nil {
		return da.INVALID_VERTEX_ID, fmt.Errorf("snap %f,%f: %w", lat, lon, err)
	}
	return v, nil
}

// ShortestPath. found is false (with nil error) when t cannot be reached from s.
func (e *Engine) ShortestPath(ctx context.Context, s, t da.Index) (Route, bool, error) {
	if !e.graph.IsValidVertex(s) || !e.graph.IsValidVertex(t) {
		return Route{}, false, fmt.Errorf("%w: %d -> %d", ErrInvalidVertex, s, t)
	}

	key := routeKey{s, t}
	if e.routeCache != nil {
		if route, ok := e.routeCache.Get(key); ok {
			route.Path = append([]da.Index(nil), route.Path...)
			return route, true, nil
		}
	}

	if e.graph.Disconnected(s, t) {
		return Route{}, false, nil
	}

	dijkstra := routing.NewDijkstra[da.Index](e.graph, e.searchOpts...)
	dist, path, found, err := dijkstra.ShortestPath(ctx, s, t)
	if err != nil {
		return Route{}, false, err
	}

	e.logger.Debug("shortest path search done",
		zap.Uint32("source", uint32(s)), zap.Uint32("target", uint32(t)),
		zap.Bool("found", found), zap.Int("settled", dijkstra.NumSettledNodes()))

	if !found {
		return Route{}, false, nil
	}

	route := Route{Source: s, Target: t, Distance: dist, Path: path}
	if e.routeCache != nil {
		cached := route
		cached.Path = append([]da.Index(nil), path...)
		e.routeCache.Add(key, cached)
	}
	return route, true, nil
}

// ShortestPathByOsmID looks the endpoints up by osm node id.
func (e *Engine) ShortestPathByOsmID(ctx context.Context, sOsmId, tOsmId int64) (Route, bool, error) {
	s, ok := e.graph.VertexByOsmID(sOsmId)
	if !ok {
		return Route{}, false, fmt.Errorf("%w: osm node %d", ErrInvalidVertex, sOsmId)
	}
	t, ok := e.graph.VertexByOsmID(tOsmId)
	if !ok {
		return Route{}, false, fmt.Errorf("%w: osm node %d", ErrInvalidVertex, tOsmId)
	}
	return e.ShortestPath(ctx, s, t)
}

// ShortestPathByCoord snaps both coordinates to their nearest street vertices first.
func (e *Engine) ShortestPathByCoord(ctx context.Context, origLat, origLon, dstLat, dstLon float64) (Route, bool, error) {
	s, err := e.SnapToVertex(origLat, origLon)
	if err != nil {
		return Route{}, false, err
	}
	t, err := e.SnapToVertex(dstLat, dstLon)
	if err != nil {
		return Route{}, false, err
	}
	return e.ShortestPath(ctx, s, t)
}

// RandomConnectedPair draws random street vertices until it finds two distinct connected ones.
func (e *Engine) RandomConnectedPair(ctx context.Context, rng *rand.Rand, attempts int) (Route, error) {
	streetVertices := e.graph.StreetVertices()
	if len(streetVertices) == 0 {
		return Route{}, ErrEmptyStreetGraph
	}

	for i := 0; i < attempts; i++ {
		s := streetVertices[rng.Intn(len(streetVertices))]
		t := streetVertices[rng.Intn(len(streetVertices))]
		if s == t {
			continue
		}
		route, found, err := e.ShortestPath(ctx, s, t)
		if err != nil {
			return Route{}, err
		}
		if found {
			e.logger.Debug("random connected pair found", zap.Int("attempts", i+1))
			return route, nil
		}
	}
	return Route{}, fmt.Errorf("%w after %d attempts", ErrNoConnectedPair, attempts)
}

// ShortestPathBatch answers independent queries concurrently. results are in the order of queries.
func (e *Engine) ShortestPathBatch(ctx context.Context, queries []Query, numWorkers int) []BatchResult {
	type job struct {
		pos   int
		query Query
	}
	type result struct {
		pos int
		res BatchResult
	}

	jobs := make([]job, len(queries))
	for i, q := range queries {
		jobs[i] = job{pos: i, query: q}
	}

	results := concurrent.ProcessAll(numWorkers, jobs, func(j job) result {
		route, found, err := e.ShortestPath(ctx, j.query.Source, j.query.Target)
		return result{pos: j.pos, res: BatchResult{Id: j.query.Id, Route: route, Found: found, Err: err}}
	})

	ordered := make([]BatchResult, len(queries))
	for _, r := range results {
		ordered[r.pos] = r.res
	}
	return ordered
}
