package routing

import (
	"context"
	"errors"
	"fmt"
	"math"

	da "github.com/lintang-b-s/osmroute/pkg/datastructure"
	"github.com/lintang-b-s/osmroute/pkg/util"
)

var (
	ErrNegativeWeight         = errors.New("negative or NaN edge weight")
	ErrBrokenPredecessorChain = errors.New("predecessor chain does not reach the source")
	ErrSearchLimitExceeded    = errors.New("search settled more vertices than allowed")
)

type options struct {
	heapArity    int
	heapCapacity int
	maxSettled   int
}

type Option func(*options)

// WithHeapArity sets d of the d-ary heap used as frontier. default 4.
func WithHeapArity(d int) Option {
	return func(o *options) {
		o.heapArity = d
	}
}

// WithHeapCapacity preallocates room for n frontier entries at the start of every search.
func WithHeapCapacity(n int) Option {
	return func(o *options) {
		o.heapCapacity = n
	}
}

// WithMaxSettled aborts a search with ErrSearchLimitExceeded after n vertices are finalized. 0 means no limit.
func WithMaxSettled(n int) Option {
	return func(o *options) {
		o.maxSettled = n
	}
}

// Dijkstra is a point to point uniform cost search over any Graph.
//
// every vertex moves unseen -> frontier -> finalized and never back. frontier vertices with equal
// tentative distance are finalized in the order their distance was last set (insertion order),
// so the returned path is reproducible for a fixed graph and neighbor order.
//
// a Dijkstra value is not safe for concurrent use; concurrent searches on the same graph need
// one Dijkstra each (or FindShortestPath), the graph itself is only read.
type Dijkstra[V comparable] struct {
	graph da.Graph[V]
	opts  options

	forwardInfo map[V]*VertexInfo[V] // frontier
	finalDist   map[V]*VertexInfo[V] // finalized
	pq          *da.MinHeap[V]

	numSettledNodes int
}

func NewDijkstra[V comparable](graph da.Graph[V], opts ...Option) *Dijkstra[V] {
	o := options{heapArity: 4}
	for _, opt := range opts {
		opt(&o)
	}
	return &Dijkstra[V]{
		graph: graph,
		opts:  o,
	}
}

// FindShortestPath runs a single search. found is false with a nil error when target is unreachable.
func FindShortestPath[V comparable](ctx context.Context, graph da.Graph[V], source, target V,
	opts ...Option) (float64, []V, bool, error) {
	return NewDijkstra(graph, opts...).ShortestPath(ctx, source, target)
}

func (us *Dijkstra[V]) reset() {
	us.forwardInfo = make(map[V]*VertexInfo[V])
	us.finalDist = make(map[V]*VertexInfo[V])
	us.pq = da.NewdAryHeap[V](us.opts.heapArity)
	if us.opts.heapCapacity > 0 {
		us.pq.Preallocate(us.opts.heapCapacity)
	}
	us.numSettledNodes = 0
}

// ShortestPath returns the shortest distance from source to target and the vertices of that path,
// source and target included. ctx is checked once per settled vertex.
func (us *Dijkstra[V]) ShortestPath(ctx context.Context, source, target V) (float64, []V, bool, error) {
	us.reset()
	defer us.release()

	sNode := da.NewPriorityQueueNode(0, source)
	us.forwardInfo[source] = NewVertexInfo(0, source, false, sNode)
	us.pq.Insert(sNode)

	for {
		if us.pq.IsEmpty() {
			return 0, nil, false, nil
		}
		if util.StopConcurrentOperation(ctx) {
			return 0, nil, false, fmt.Errorf("shortest path search canceled: %w", ctx.Err())
		}
		if us.opts.maxSettled > 0 && us.numSettledNodes >= us.opts.maxSettled {
			return 0, nil, false, fmt.Errorf("%w: limit %d", ErrSearchLimitExceeded, us.opts.maxSettled)
		}

		u, err := us.settle()
		if err != nil {
			return 0, nil, false, err
		}

		if u == target {
			break
		}

		if err := us.relax(u); err != nil {
			return 0, nil, false, err
		}
	}

	path, err := us.retrievePath(source, target)
	if err != nil {
		return 0, nil, false, err
	}
	return us.finalDist[target].GetTravelTime(), path, true, nil
}

// NumSettledNodes number of vertices finalized by the last search.
func (us *Dijkstra[V]) NumSettledNodes() int {
	return us.numSettledNodes
}

// settle moves the frontier vertex with the smallest tentative distance to finalized.
func (us *Dijkstra[V]) settle() (V, error) {
	queryKey, err := us.pq.ExtractMin()
	if err != nil {
		var zero V
		return zero, err
	}
	u := queryKey.GetItem()

	info := us.forwardInfo[u]
	delete(us.forwardInfo, u)
	us.finalDist[u] = info
	us.numSettledNodes++
	return u, nil
}

// relax improves the tentative distance of every not yet finalized neighbor of the just finalized u.
func (us *Dijkstra[V]) relax(u V) error {
	uDist := us.finalDist[u].GetTravelTime()

	for _, arc := range us.graph.Neighbors(u) {
		if arc.Weight < 0 || math.IsNaN(arc.Weight) {
			return fmt.Errorf("%w: arc %v -> %v has weight %v", ErrNegativeWeight, u, arc.Vertex, arc.Weight)
		}

		v := arc.Vertex
		if _, finalized := us.finalDist[v]; finalized {
			continue
		}

		newTravelTime := uDist + arc.Weight

		vInfo, labelled := us.forwardInfo[v]
		if !labelled {
			vhNode := da.NewPriorityQueueNode(newTravelTime, v)
			us.forwardInfo[v] = NewVertexInfo(newTravelTime, u, true, vhNode)
			us.pq.Insert(vhNode)
			continue
		}

		if newTravelTime >= vInfo.GetTravelTime() {
			// not strictly better
			continue
		}

		vInfo.UpdateTravelTime(newTravelTime)
		vInfo.UpdateParent(u)
		if err := us.pq.DecreaseKey(vInfo.GetHeapNode(), newTravelTime); err != nil {
			return fmt.Errorf("decrease key of %v: %w", v, err)
		}
	}
	return nil
}

// retrievePath walks the predecessors of target back to source. a chain longer than the number of
// finalized vertices can only come from corrupted bookkeeping.
func (us *Dijkstra[V]) retrievePath(source, target V) ([]V, error) {
	path := make([]V, 0, 16)
	cur := target
	path = append(path, cur)
	for cur != source {
		info, ok := us.finalDist[cur]
		if !ok || !info.HasParent() || len(path) > len(us.finalDist) {
			return nil, fmt.Errorf("%w: stuck at %v", ErrBrokenPredecessorChain, cur)
		}
		cur = info.GetParent()
		path = append(path, cur)
	}
	return util.ReverseG(path), nil
}

// release drops the search state, only the settled counter survives the call.
func (us *Dijkstra[V]) release() {
	us.forwardInfo = nil
	us.finalDist = nil
	us.pq = nil
}
