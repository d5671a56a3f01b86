package pkg

const (
	INF_WEIGHT float64 = 1e15

	// label for ways without a name tag
	UNNAMED_WAY = "unnamed"
)

type OsmHighwayType uint8

// highway tag values accepted as drivable road network.
const (
	MOTORWAY OsmHighwayType = iota
	MOTORWAY_LINK
	MOTORWAY_JUNCTION
	TRUNK
	TRUNK_LINK
	PRIMARY
	PRIMARY_LINK
	SECONDARY
	SECONDARY_LINK
	TERTIARY
	TERTIARY_LINK
	RESIDENTIAL
	LIVING_STREET
	SERVICE
	TRACK
	RACEWAY
	GIVE_WAY
	TRAFFIC_SIGNALS
	CROSSING
	UNKNOWN
)

var highwayTypes = map[string]OsmHighwayType{
	"motorway":          MOTORWAY,
	"motorway_link":     MOTORWAY_LINK,
	"motorway_junction": MOTORWAY_JUNCTION,
	"trunk":             TRUNK,
	"trunk_link":        TRUNK_LINK,
	"primary":           PRIMARY,
	"primary_link":      PRIMARY_LINK,
	"secondary":         SECONDARY,
	"secondary_link":    SECONDARY_LINK,
	"tertiary":          TERTIARY,
	"tertiary_link":     TERTIARY_LINK,
	"residential":       RESIDENTIAL,
	"living_street":     LIVING_STREET,
	"service":           SERVICE,
	"track":             TRACK,
	"raceway":           RACEWAY,
	"give_way":          GIVE_WAY,
	"traffic_signals":   TRAFFIC_SIGNALS,
	"crossing":          CROSSING,
}

func GetHighwayType(roadType string) OsmHighwayType {
	if hw, ok := highwayTypes[roadType]; ok {
		return hw
	}
	return UNKNOWN
}

// IsAcceptedHighway. true if the highway tag value belongs to the road network we route on.
func IsAcceptedHighway(roadType string) bool {
	_, ok := highwayTypes[roadType]
	return ok
}
