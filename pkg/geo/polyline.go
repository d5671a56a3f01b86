package geo

import (
	"github.com/twpayne/go-polyline"
)

// PolylineFromCoords encodes coords with the google polyline algorithm (lat, lon order).
func PolylineFromCoords(coords []Coordinate) string {
	s := make([][]float64, 0, len(coords))
	for _, c := range coords {
		s = append(s, []float64{c.Lat, c.Lon})
	}
	return string(polyline.EncodeCoords(s))
}

// CoordsFromPolyline decodes a polyline produced by PolylineFromCoords.
func CoordsFromPolyline(p string) ([]Coordinate, error) {
	decoded, _, err := polyline.DecodeCoords([]byte(p))
	if err != nil {
		return nil, err
	}
	coords := make([]Coordinate, 0, len(decoded))
	for _, c := range decoded {
		coords = append(coords, NewCoordinate(c[0], c[1]))
	}
	return coords, nil
}
