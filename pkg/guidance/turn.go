package guidance

import (
	"math"

	"github.com/lintang-b-s/osmroute/pkg/geo"
	"github.com/lintang-b-s/osmroute/pkg/util"
)

type TurnSign int

const (
	DEPART TurnSign = iota
	CONTINUE_ON_STREET
	TURN_SLIGHT_LEFT
	TURN_SLIGHT_RIGHT
	TURN_LEFT
	TURN_RIGHT
	TURN_SHARP_LEFT
	TURN_SHARP_RIGHT
)

func (t TurnSign) String() string {
	switch t {
	case DEPART:
		return "depart"
	case CONTINUE_ON_STREET:
		return "continue"
	case TURN_SLIGHT_LEFT:
		return "turn slight left"
	case TURN_SLIGHT_RIGHT:
		return "turn slight right"
	case TURN_LEFT:
		return "turn left"
	case TURN_RIGHT:
		return "turn right"
	case TURN_SHARP_LEFT:
		return "turn sharp left"
	default:
		return "turn sharp right"
	}
}

// https://www.movable-type.co.uk/scripts/latlong.html
// initial bearing in radians (bearing from a to b with meridian line crossing a)
func computeInitialBearing(lat1, lon1, lat2, lon2 float64) float64 {
	return util.DegreeToRadians(geo.BearingTo(lat1, lon1, lat2, lon2))
}

/*
alignInitialBearing. handle the case where initialBearing-prevInitialBearing > 180° or < -180°.

e.g. prevInitialBearing 20° and initialBearing 350° is a left turn, not a 330° right turn.
fix: prevInitialBearing + 360°. the mirrored case adds 360° to initialBearing.
*/
func alignInitialBearing(prevInitialBearing, initialBearing float64) (float64, float64) {
	dif := util.RadiansToDegree(initialBearing) - util.RadiansToDegree(prevInitialBearing)
	if dif > 180 {
		prevInitialBearing += 2 * math.Pi
	} else if dif < -180 {
		initialBearing += 2 * math.Pi
	}
	return prevInitialBearing, initialBearing
}

// getTurnDirection classifies the change of heading between two consecutive bearings (radians).
func getTurnDirection(prevInitialBearing, initialBearing float64) TurnSign {
	prevInitialBearing, initialBearing = alignInitialBearing(prevInitialBearing, initialBearing)
	delta := initialBearing - prevInitialBearing
	deltaDegree := util.RadiansToDegree(math.Abs(delta))
	if deltaDegree < 12 {
		return CONTINUE_ON_STREET
	} else if deltaDegree < 40 {
		if delta < 0 {
			return TURN_SLIGHT_LEFT
		}
		return TURN_SLIGHT_RIGHT
	} else if deltaDegree < 105 {
		if delta < 0 {
			return TURN_LEFT
		}
		return TURN_RIGHT
	} else if delta < 0 {
		return TURN_SHARP_LEFT
	}
	return TURN_SHARP_RIGHT
}
