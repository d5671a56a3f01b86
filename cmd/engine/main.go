package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/osmroute/pkg/engine"
	"github.com/lintang-b-s/osmroute/pkg/engine/routing"
	"github.com/lintang-b-s/osmroute/pkg/http"
	"github.com/lintang-b-s/osmroute/pkg/http/usecases"
	"github.com/lintang-b-s/osmroute/pkg/logger"
	"github.com/lintang-b-s/osmroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	routeCacheSize = flag.Int("route_cache_size", 4096, "number of shortest path results kept in the lru cache")
	useRateLimit   = flag.Bool("rate_limit", false, "limit requests per second to RATE_LIMIT_RPS")
	randomAttempts = flag.Int("random_attempts", 1000, "vertex pairs tried by /api/randomRoute before giving up")
	maxSettled     = flag.Int("max_settled", 0, "abort a search after this many settled vertices, 0 means no limit")
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

	routingEngine, err := engine.NewEngine(viper.GetString("GRAPH_FILE"), *routeCacheSize, logger,
		routing.WithMaxSettled(*maxSettled))
	if err != nil {
		panic(err)
	}
	routingEngine.SetSnapRadius(viper.GetFloat64("SNAP_RADIUS"))

	api := http.NewServer(logger)

	routingService := usecases.NewRoutingService(logger, routingEngine, *randomAttempts)
	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}
	if _, err := api.Use(ctx, logger, *useRateLimit, routingService); err != nil {
		panic(err)
	}

	signal := http.GracefulShutdown()

	logger.Info("osmroute Routing Engine Server Stopped", zap.String("signal", signal.String()))
	cleanup()
	if err := api.Wait(); err != nil && err != context.Canceled {
		logger.Error("server exited with error", zap.Error(err))
	}
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
