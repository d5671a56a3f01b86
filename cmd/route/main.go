package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lintang-b-s/osmroute/pkg/datastructure"
	"github.com/lintang-b-s/osmroute/pkg/engine"
	"github.com/lintang-b-s/osmroute/pkg/guidance"
	"github.com/lintang-b-s/osmroute/pkg/logger"
	"github.com/lintang-b-s/osmroute/pkg/osmparser"
	"github.com/lintang-b-s/osmroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

var (
	mapFile   = flag.String("map_file", "", "openstreetmap file (.osm or .osm.pbf), parsed instead of the graph file")
	graphFile = flag.String("graph_file", "", "graph file written by the preprocessor, defaults to GRAPH_FILE")

	fromOsm = flag.Int64("from", 0, "osm node id of the origin")
	toOsm   = flag.Int64("to", 0, "osm node id of the destination")

	originLat = flag.Float64("origin_lat", 0, "origin latitude, used with -origin_lon")
	originLon = flag.Float64("origin_lon", 0, "origin longitude")
	dstLat    = flag.Float64("destination_lat", 0, "destination latitude, used with -destination_lon")
	dstLon    = flag.Float64("destination_lon", 0, "destination longitude")

	random   = flag.Bool("random", false, "route between two random connected street vertices")
	seed     = flag.Uint64("seed", 0, "seed of -random, 0 picks one from the clock")
	attempts = flag.Int("attempts", 1000, "vertex pairs tried by -random")
	segments = flag.Bool("segments", false, "print the route grouped by street instead of vertex by vertex")
	batch    = flag.Int("batch", 0, "answer this many random vertex pairs on SEARCH_WORKERS goroutines and print a summary")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	graph, err := loadGraph(logger)
	if err != nil {
		logger.Fatal("load road graph", zap.Error(err))
	}

	eng, err := engine.NewEngineDirect(graph, 0, logger)
	if err != nil {
		logger.Fatal("create engine", zap.Error(err))
	}
	eng.SetSnapRadius(viper.GetFloat64("SNAP_RADIUS"))

	if *batch > 0 {
		runBatch(context.Background(), eng, logger)
		return
	}

	route, found, err := query(context.Background(), eng)
	if err != nil {
		logger.Fatal("shortest path query", zap.Error(err))
	}
	if !found {
		fmt.Println("no path found")
		os.Exit(1)
	}

	printRoute(graph, route)
}

func loadGraph(logger *zap.Logger) (*datastructure.RoadGraph, error) {
	if *mapFile != "" {
		return osmparser.NewOSMParser(logger).Parse(*mapFile)
	}
	path := *graphFile
	if path == "" {
		path = viper.GetString("GRAPH_FILE")
	}
	return datastructure.ReadGraph(path)
}

func newRng() *rand.Rand {
	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(s))
}

func query(ctx context.Context, eng *engine.Engine) (engine.Route, bool, error) {
	switch {
	case *random:
		route, err := eng.RandomConnectedPair(ctx, newRng(), *attempts)
		return route, err == nil, err
	case *fromOsm != 0 || *toOsm != 0:
		return eng.ShortestPathByOsmID(ctx, *fromOsm, *toOsm)
	default:
		return eng.ShortestPathByCoord(ctx, *originLat, *originLon, *dstLat, *dstLon)
	}
}

func printRoute(graph *datastructure.RoadGraph, route engine.Route) {
	if *segments {
		for _, s := range guidance.GroupByWay(graph, route.Path) {
			fmt.Printf("%s %s heading %s for %.3f km\n", s.Turn, s.StreetName, s.Heading, s.LengthKm)
		}
	} else {
		for _, step := range guidance.DescribePath(graph, route.Path) {
			fmt.Printf("%s [%.3f %.3f]\n", step.Label, step.Lat, step.Lon)
		}
	}
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("distance: %v (%d vertices)\n", route.Distance, len(route.Path))
}

func runBatch(ctx context.Context, eng *engine.Engine, logger *zap.Logger) {
	streetVertices := eng.GetGraph().StreetVertices()
	if len(streetVertices) == 0 {
		logger.Fatal("road graph has no street vertices")
	}

	rng := newRng()
	queries := make([]engine.Query, *batch)
	for i := range queries {
		queries[i] = engine.Query{
			Id:     i,
			Source: streetVertices[rng.Intn(len(streetVertices))],
			Target: streetVertices[rng.Intn(len(streetVertices))],
		}
	}

	start := time.Now()
	results := eng.ShortestPathBatch(ctx, queries, viper.GetInt("SEARCH_WORKERS"))
	elapsed := time.Since(start)

	found, failed := 0, 0
	totalDist := 0.0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			logger.Warn("query failed", zap.Int("id", r.Id), zap.Error(r.Err))
		case r.Found:
			found++
			totalDist += r.Route.Distance
		}
	}

	fmt.Printf("queries: %d, found: %d, unreachable: %d, failed: %d\n", len(results), found,
		len(results)-found-failed, failed)
	if found > 0 {
		fmt.Printf("average distance: %v\n", totalDist/float64(found))
	}
	fmt.Printf("elapsed: %v (%v per query)\n", elapsed, elapsed/time.Duration(len(results)))
}
