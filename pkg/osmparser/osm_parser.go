package osmparser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lintang-b-s/osmroute/pkg"
	"github.com/lintang-b-s/osmroute/pkg/datastructure"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"go.uber.org/zap"
)

type NodeCoord struct {
	lat float64
	lon float64
}

func NewNodeCoord(lat, lon float64) NodeCoord {
	return NodeCoord{lat, lon}
}

type osmWay struct {
	id      int64
	name    string
	highway string
	nodes   []int64
}

// OsmParser turns osm ways and nodes into a road graph. only ways with an accepted highway tag are kept,
// and only the nodes those ways reference become vertices.
type OsmParser struct {
	logger *zap.Logger

	wayNodeMap      map[int64]struct{}
	acceptedNodeMap map[int64]NodeCoord
	ways            []osmWay

	numSkippedRefs int
}

func NewOSMParser(logger *zap.Logger) *OsmParser {
	return &OsmParser{
		logger:          logger,
		wayNodeMap:      make(map[int64]struct{}),
		acceptedNodeMap: make(map[int64]NodeCoord),
		ways:            make([]osmWay, 0),
	}
}

func (p *OsmParser) SetAcceptedNodeMap(acceptedNodeMap map[int64]NodeCoord) {
	p.acceptedNodeMap = acceptedNodeMap
}

// NumSkippedRefs number of way node references dropped because the node was not in the input.
func (p *OsmParser) NumSkippedRefs() int {
	return p.numSkippedRefs
}

// Parse reads an .osm (xml) or .osm.pbf file, chosen by extension.
func (p *OsmParser) Parse(mapFile string) (*datastructure.RoadGraph, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	format := FormatXML
	if strings.HasSuffix(mapFile, ".pbf") {
		format = FormatPBF
	}
	return p.ParseReader(context.Background(), f, format)
}

type Format int

const (
	FormatXML Format = iota
	FormatPBF
)

func newScanner(ctx context.Context, r io.Reader, format Format) osm.Scanner {
	if format == FormatPBF {
		return osmpbf.New(ctx, r, 1)
	}
	return osmxml.New(ctx, r)
}

// ParseReader scans the input twice: the first pass collects accepted ways, the second pass
// the coordinates of the nodes they reference.
func (p *OsmParser) ParseReader(ctx context.Context, r io.ReadSeeker, format Format) (*datastructure.RoadGraph, error) {
	scanner := newScanner(ctx, r, format)
	countWays := 0
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}

		way := o.(*osm.Way)
		if len(way.Nodes) < 2 || !acceptOsmWay(way) {
			continue
		}
		if (countWays+1)%50000 == 0 {
			p.logger.Sugar().Infof("scanning openstreetmap ways: %d...", countWays+1)
		}
		countWays++

		nodes := make([]int64, 0, len(way.Nodes))
		for _, node := range way.Nodes {
			nodes = append(nodes, int64(node.ID))
			p.wayNodeMap[int64(node.ID)] = struct{}{}
		}

		p.ways = append(p.ways, osmWay{
			id:      int64(way.ID),
			name:    wayName(way),
			highway: way.Tags.Find("highway"),
			nodes:   nodes,
		})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("scan osm ways: %w", err)
	}
	scanner.Close()

	_, err := r.Seek(0, io.SeekStart)
	if err != nil {
		return nil, err
	}

	scanner = newScanner(ctx, r, format)
	defer scanner.Close()
	countNodes := 0
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeNode {
			continue
		}
		node := o.(*osm.Node)
		if _, ok := p.wayNodeMap[int64(node.ID)]; !ok {
			continue
		}
		if (countNodes+1)%500000 == 0 {
			p.logger.Sugar().Infof("scanning openstreetmap nodes: %d...", countNodes+1)
		}
		countNodes++
		p.acceptedNodeMap[int64(node.ID)] = NewNodeCoord(node.Lat, node.Lon)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan osm nodes: %w", err)
	}

	graph := p.BuildGraph()

	p.logger.Info("road graph built",
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("arcs", graph.NumberOfEdges()),
		zap.Int("ways", graph.NumberOfWays()),
		zap.Int("skippedNodeRefs", p.numSkippedRefs))
	return graph, nil
}

// BuildGraph links the collected ways to their nodes and freezes the result.
func (p *OsmParser) BuildGraph() *datastructure.RoadGraph {
	gs := datastructure.NewGraphStorageWithSize(len(p.wayNodeMap), len(p.acceptedNodeMap))

	for _, way := range p.ways {
		present := make([]int64, 0, len(way.nodes))
		for _, nodeID := range way.nodes {
			if _, ok := p.acceptedNodeMap[nodeID]; !ok {
				p.numSkippedRefs++
				p.logger.Warn("way references missing node",
					zap.Int64("wayID", way.id), zap.Int64("nodeID", nodeID))
				continue
			}
			present = append(present, nodeID)
		}
		// vertices are only created for ways that still form a segment
		if len(present) < 2 {
			continue
		}

		wNodes := make([]datastructure.Index, len(present))
		for i, nodeID := range present {
			coord := p.acceptedNodeMap[nodeID]
			wNodes[i] = gs.AddVertex(nodeID, coord.lat, coord.lon)
		}

		if _, err := gs.AddWay(way.id, way.name, way.highway, wNodes); err != nil {
			p.logger.Warn("skipping way", zap.Int64("wayID", way.id), zap.Error(err))
		}
	}

	return gs.Build()
}

// AddWay registers a way directly, for callers that already hold parsed osm data.
func (p *OsmParser) AddWay(wayID int64, name, highway string, nodes []int64) {
	if name == "" {
		name = pkg.UNNAMED_WAY
	}
	p.ways = append(p.ways, osmWay{id: wayID, name: name, highway: highway, nodes: nodes})
	for _, n := range nodes {
		p.wayNodeMap[n] = struct{}{}
	}
}

func wayName(way *osm.Way) string {
	if name := way.Tags.Find("name"); name != "" {
		return name
	}
	return pkg.UNNAMED_WAY
}

func acceptOsmWay(way *osm.Way) bool {
	return pkg.IsAcceptedHighway(way.Tags.Find("highway"))
}
