package controllers

import (
	"context"

	"github.com/lintang-b-s/osmroute/pkg/http/usecases"
)

type RoutingService interface {
	ShortestPath(ctx context.Context, origLat, origLon, dstLat, dstLon float64) (usecases.RouteResult, error)
	RandomRoute(ctx context.Context) (usecases.RouteResult, error)
}
