package geo

import (
	"math"

	"github.com/lintang-b-s/osmroute/pkg/util"
)

// BearingTo. initial bearing in degrees [0, 360) when leaving p1 towards p2.
// https://www.movable-type.co.uk/scripts/latlong.html
func BearingTo(p1Lat, p1Lon, p2Lat, p2Lon float64) float64 {
	dLon := util.DegreeToRadians(p2Lon - p1Lon)

	lat1 := util.DegreeToRadians(p1Lat)
	lat2 := util.DegreeToRadians(p2Lat)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Mod(radToDeg(math.Atan2(y, x))+360, 360.0)
}

var compassPoints = [...]string{"north", "northeast", "east", "southeast", "south", "southwest", "west", "northwest"}

// CompassDirection. nearest of the eight compass points for a bearing in degrees.
func CompassDirection(bearing float64) string {
	idx := int(math.Round(math.Mod(bearing+360, 360)/45.0)) % len(compassPoints)
	return compassPoints[idx]
}
