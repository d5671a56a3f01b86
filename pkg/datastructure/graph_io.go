package datastructure

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/osmroute/pkg"
)

// graph file layout (bzip2 compressed text):
//
//	<numVertices> <numArcs> <numWays>
//	<osmId> <lat> <lon>                          numVertices lines
//	<osmId> <hwType> <k> <node_1> ... <node_k>   numWays lines, each followed by a line holding the way name
//	<tail> <head> <weight> <wayId>               numArcs lines, grouped by tail in increasing order
func (g *RoadGraph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	if err := g.Encode(bz); err != nil {
		bz.Close()
		return err
	}
	return bz.Close()
}

func (g *RoadGraph) Encode(out io.Writer) error {
	w := bufio.NewWriter(out)

	fmt.Fprintf(w, "%d %d %d\n", len(g.vertices), len(g.outEdges), len(g.ways))

	for vId := range g.vertices {
		v := g.vertices[vId]
		latF := strconv.FormatFloat(v.lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(v.lon, 'f', -1, 64)
		fmt.Fprintf(w, "%d %s %s\n", v.osmId, latF, lonF)
	}

	for _, way := range g.ways {
		fmt.Fprintf(w, "%d %d %d", way.osmId, way.hwType, len(way.nodes))
		for _, n := range way.nodes {
			fmt.Fprintf(w, " %d", n)
		}
		fmt.Fprintf(w, "\n%s\n", strings.ReplaceAll(way.name, "\n", " "))
	}

	for u := 0; u < len(g.vertices); u++ {
		for i := g.firstOut[u]; i < g.firstOut[u+1]; i++ {
			e := g.outEdges[i]
			weightF := strconv.FormatFloat(e.weight, 'g', -1, 64)
			fmt.Fprintf(w, "%d %d %s %d\n", u, e.head, weightF, e.wayId)
		}
	}

	return w.Flush()
}

func ReadGraph(filename string) (*RoadGraph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	g, err := DecodeGraph(bz)
	if err != nil {
		return nil, fmt.Errorf("read graph %s: %w", filename, err)
	}
	return g, nil
}

// counts above this are not preallocated up front; slices grow as lines are actually read.
const maxPrealloc = 1 << 20

func DecodeGraph(in io.Reader) (*RoadGraph, error) {
	br := bufio.NewReader(in)

	header, err := readFields(br, 3)
	if err != nil {
		return nil, err
	}
	counts, err := parseInts(header)
	if err != nil {
		return nil, err
	}
	numVertices, numArcs, numWays := counts[0], counts[1], counts[2]
	for _, c := range counts[:3] {
		if c < 0 || int64(c) >= int64(INVALID_VERTEX_ID) {
			return nil, fmt.Errorf("invalid header counts %d %d %d", numVertices, numArcs, numWays)
		}
	}

	vertices := make([]Vertex, 0, min(numVertices, maxPrealloc))
	for i := 0; i < numVertices; i++ {
		ff, err := readFields(br, 3)
		if err != nil {
			return nil, err
		}
		osmId, err := strconv.ParseInt(ff[0], 10, 64)
		if err != nil {
			return nil, err
		}
		lat, err := strconv.ParseFloat(ff[1], 64)
		if err != nil {
			return nil, err
		}
		lon, err := strconv.ParseFloat(ff[2], 64)
		if err != nil {
			return nil, err
		}
		vertices = append(vertices, NewVertex(lat, lon, osmId, Index(i)))
	}

	ways := make([]Way, 0, min(numWays, maxPrealloc))
	for i := 0; i < numWays; i++ {
		ff, err := readFields(br, 3)
		if err != nil {
			return nil, err
		}
		osmId, err := strconv.ParseInt(ff[0], 10, 64)
		if err != nil {
			return nil, err
		}
		nums, err := parseInts(ff[1:])
		if err != nil {
			return nil, err
		}
		hwType, k := nums[0], nums[1]
		if len(nums) != k+2 {
			return nil, fmt.Errorf("way %d: expected %d nodes, got %d", osmId, k, len(nums)-2)
		}
		nodes := make([]Index, k)
		for j := 0; j < k; j++ {
			if nums[j+2] < 0 || nums[j+2] >= numVertices {
				return nil, fmt.Errorf("way %d: node %d out of range", osmId, nums[j+2])
			}
			nodes[j] = Index(nums[j+2])
		}
		name, err := readLine(br)
		if err != nil {
			return nil, err
		}
		ways = append(ways, NewWay(osmId, name, pkg.OsmHighwayType(hwType), nodes, Index(i)))
	}

	firstOut := make([]Index, numVertices+1)
	outEdges := make([]OutEdge, 0, min(numArcs, maxPrealloc))
	prevTail, prevHead := -1, -1
	for i := 0; i < numArcs; i++ {
		ff, err := readFields(br, 4)
		if err != nil {
			return nil, err
		}
		tail, err := strconv.Atoi(ff[0])
		if err != nil {
			return nil, err
		}
		head, err := strconv.Atoi(ff[1])
		if err != nil {
			return nil, err
		}
		weight, err := strconv.ParseFloat(ff[2], 64)
		if err != nil {
			return nil, err
		}
		wayId, err := strconv.ParseUint(ff[3], 10, 32)
		if err != nil {
			return nil, err
		}
		if tail < 0 || tail < prevTail || tail >= numVertices || head < 0 || head >= numVertices {
			return nil, fmt.Errorf("arc %d: invalid endpoints %d -> %d", i, tail, head)
		}
		// EdgeBetween binary searches each adjacency list by head.
		if tail == prevTail && head <= prevHead {
			return nil, fmt.Errorf("arc %d: heads of vertex %d not strictly increasing", i, tail)
		}
		if weight < 0 || math.IsNaN(weight) {
			return nil, fmt.Errorf("arc %d: invalid weight %v", i, weight)
		}
		if Index(wayId) != INVALID_WAY_ID && wayId >= uint64(numWays) {
			return nil, fmt.Errorf("arc %d: way %d out of range", i, wayId)
		}
		prevTail, prevHead = tail, head
		firstOut[tail+1]++
		outEdges = append(outEdges, NewOutEdge(Index(head), weight, Index(wayId)))
	}
	for v := 0; v < numVertices; v++ {
		firstOut[v+1] += firstOut[v]
	}

	return newRoadGraph(vertices, ways, firstOut, outEdges), nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if err != io.EOF || len(line) == 0 {
			return "", err
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func readFields(br *bufio.Reader, min int) ([]string, error) {
	line, err := readLine(br)
	if err != nil {
		return nil, err
	}
	ff := strings.Fields(line)
	if len(ff) < min {
		return nil, fmt.Errorf("malformed line %q: expected at least %d fields", line, min)
	}
	return ff, nil
}

func parseInts(ff []string) ([]int, error) {
	nums := make([]int, len(ff))
	for i, f := range ff {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		nums[i] = n
	}
	return nums, nil
}
