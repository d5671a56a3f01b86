package osmparser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lintang-b-s/osmroute/pkg"
	"github.com/lintang-b-s/osmroute/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testOsm = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="0.0" lon="0.0"/>
  <node id="2" lat="0.0" lon="0.001"/>
  <node id="3" lat="0.0" lon="0.002"/>
  <node id="4" lat="0.001" lon="0.001"/>
  <node id="5" lat="0.002" lon="0.001"/>
  <node id="6" lat="0.5" lon="0.5"/>
  <node id="7" lat="0.003" lon="0.003"/>
  <node id="8" lat="0.004" lon="0.003"/>
  <way id="10">
    <nd ref="1"/>
    <nd ref="2"/>
    <nd ref="3"/>
    <tag k="highway" v="residential"/>
    <tag k="name" v="Jalan Malioboro"/>
  </way>
  <way id="11">
    <nd ref="2"/>
    <nd ref="4"/>
    <nd ref="5"/>
    <nd ref="99"/>
    <tag k="highway" v="primary"/>
  </way>
  <way id="12">
    <nd ref="3"/>
    <nd ref="6"/>
    <tag k="highway" v="footway"/>
    <tag k="name" v="Trotoar"/>
  </way>
  <way id="13">
    <nd ref="7"/>
    <nd ref="8"/>
    <tag k="highway" v="service"/>
    <tag k="name" v="Gang Buntu"/>
  </way>
  <way id="14">
    <nd ref="1"/>
    <tag k="highway" v="primary"/>
  </way>
</osm>`

func parseTestOsm(t *testing.T) (*datastructure.RoadGraph, *OsmParser) {
	t.Helper()
	p := NewOSMParser(zap.NewNop())
	g, err := p.ParseReader(context.Background(), strings.NewReader(testOsm), FormatXML)
	require.NoError(t, err)
	return g, p
}

func TestParseKeepsOnlyStreetNodes(t *testing.T) {
	g, p := parseTestOsm(t)

	// node 6 is only on a footway
	assert.Equal(t, 7, g.NumberOfVertices())
	_, ok := g.VertexByOsmID(6)
	assert.False(t, ok)
	// ways 10, 11, 13
	assert.Equal(t, 3, g.NumberOfWays())
	// 1-2, 2-3, 2-4, 4-5, 7-8
	assert.Equal(t, 10, g.NumberOfEdges())
	assert.Equal(t, 1, p.NumSkippedRefs())
}

func TestParseEuclideanWeights(t *testing.T) {
	g, _ := parseTestOsm(t)

	v1, _ := g.VertexByOsmID(1)
	v2, _ := g.VertexByOsmID(2)
	v4, _ := g.VertexByOsmID(4)

	e, ok := g.EdgeBetween(v1, v2)
	require.True(t, ok)
	assert.InDelta(t, 0.001, e.GetWeight(), 1e-12)

	back, ok := g.EdgeBetween(v2, v1)
	require.True(t, ok)
	assert.Equal(t, e.GetWeight(), back.GetWeight())

	e, ok = g.EdgeBetween(v2, v4)
	require.True(t, ok)
	assert.InDelta(t, 0.001, e.GetWeight(), 1e-12)
	assert.Equal(t, pkg.UNNAMED_WAY, g.GetWay(e.GetWayID()).GetName())
	assert.Equal(t, pkg.PRIMARY, g.GetWay(e.GetWayID()).GetHighwayType())
}

func TestParseLinksPointsAndWays(t *testing.T) {
	g, _ := parseTestOsm(t)

	v2, _ := g.VertexByOsmID(2)
	names := make([]string, 0)
	for _, w := range g.WaysOf(v2) {
		names = append(names, g.GetWay(w).GetName())
	}
	assert.ElementsMatch(t, []string{"Jalan Malioboro", pkg.UNNAMED_WAY}, names)

	v7, _ := g.VertexByOsmID(7)
	require.Len(t, g.WaysOf(v7), 1)
	way := g.GetWay(g.WaysOf(v7)[0])
	assert.Equal(t, "Gang Buntu", way.GetName())
	assert.Equal(t, int64(13), way.GetOsmID())
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.osm")
	require.NoError(t, os.WriteFile(path, []byte(testOsm), 0644))

	g, err := NewOSMParser(zap.NewNop()).Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 7, g.NumberOfVertices())

	_, err = NewOSMParser(zap.NewNop()).Parse(filepath.Join(t.TempDir(), "missing.osm"))
	assert.Error(t, err)
}

func TestBuildGraphFromAddedWays(t *testing.T) {
	p := NewOSMParser(zap.NewNop())
	p.SetAcceptedNodeMap(map[int64]NodeCoord{
		1: NewNodeCoord(0, 0),
		2: NewNodeCoord(3, 4),
	})
	p.AddWay(1, "", "primary", []int64{1, 2})
	g := p.BuildGraph()

	assert.Equal(t, 2, g.NumberOfVertices())
	nbs := g.Neighbors(0)
	require.Len(t, nbs, 1)
	assert.InDelta(t, 5.0, nbs[0].Weight, 1e-12)
}

func TestBuildGraphSkipsCollapsedWay(t *testing.T) {
	p := NewOSMParser(zap.NewNop())
	p.SetAcceptedNodeMap(map[int64]NodeCoord{
		1: NewNodeCoord(0, 0),
		2: NewNodeCoord(0, 0.001),
		3: NewNodeCoord(1, 1),
	})
	p.AddWay(1, "Jalan Solo", "primary", []int64{1, 2})
	// node 4 is missing, so only node 3 survives
	p.AddWay(2, "Jalan Buntu", "residential", []int64{3, 4})
	g := p.BuildGraph()

	assert.Equal(t, 2, g.NumberOfVertices())
	assert.Equal(t, 1, g.NumberOfWays())
	_, ok := g.VertexByOsmID(3)
	assert.False(t, ok)
	assert.Len(t, g.StreetVertices(), g.NumberOfVertices())
	assert.Equal(t, 1, p.NumSkippedRefs())
}
