package controllers

import (
	"github.com/lintang-b-s/osmroute/pkg/guidance"
	"github.com/lintang-b-s/osmroute/pkg/http/usecases"
)

type shortestPathRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"min=-180,max=180"`
}

type shortestPathResponse struct {
	Path       string              `json:"path"`
	Dist       float64             `json:"distance"`
	DistKm     float64             `json:"distance_km"`
	Steps      []guidance.PathStep `json:"steps"`
	Segments   []guidance.Segment  `json:"segments"`
	NumVertice int                 `json:"num_vertices"`
}

func NewShortestPathResponse(route usecases.RouteResult) shortestPathResponse {
	return shortestPathResponse{
		Path:       route.Polyline,
		Dist:       route.Distance,
		DistKm:     route.DistanceKm,
		Steps:      route.Steps,
		Segments:   route.Segments,
		NumVertice: len(route.Steps),
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
