package datastructure

// RunKosaraju. runs kosaraju's algorithm to find the strongly connected components (SCCs) of the road graph.
// every segment of a built graph is two opposite arcs, so the SCCs are its connected components; a decoded
// graph file is not trusted to be symmetric.
func (g *RoadGraph) RunKosaraju() {
	n := len(g.vertices)

	// reversed adjacency in the same csr layout as outEdges
	firstIn := make([]Index, n+1)
	for i := range g.outEdges {
		firstIn[g.outEdges[i].head+1]++
	}
	for v := 0; v < n; v++ {
		firstIn[v+1] += firstIn[v]
	}
	inTails := make([]Index, len(g.outEdges))
	fill := make([]Index, n)
	copy(fill, firstIn[:n])
	symmetric := true
	for u := 0; u < n; u++ {
		for i := g.firstOut[u]; i < g.firstOut[u+1]; i++ {
			h := g.outEdges[i].head
			inTails[fill[h]] = Index(u)
			fill[h]++
			if _, ok := g.EdgeBetween(h, Index(u)); !ok {
				symmetric = false
			}
		}
	}

	forward := func(v Index, handle func(w Index)) {
		g.ForOutEdgesOf(v, func(e *OutEdge) {
			handle(e.head)
		})
	}
	backward := func(v Index, handle func(w Index)) {
		for i := firstIn[v]; i < firstIn[v+1]; i++ {
			handle(inTails[i])
		}
	}

	order := make([]Index, 0, n)
	visited := make([]bool, n)
	for v := 0; v < n; v++ {
		if !visited[v] {
			dfsPostOrder(Index(v), visited, forward, &order)
		}
	}

	sccs := make([]Index, n)
	visited = make([]bool, n)
	numComponents := Index(0)
	component := make([]Index, 0, 16)
	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		if visited[v] {
			continue
		}
		component = component[:0]
		dfsPostOrder(v, visited, backward, &component)
		for _, u := range component {
			sccs[u] = numComponents
		}
		numComponents++
	}

	g.sccs = sccs
	g.numSCCs = int(numComponents)
	g.symmetric = symmetric
}

// dfsPostOrder. iterative dfs from s, appends every newly reached vertex to output after all its successors.
func dfsPostOrder(s Index, visited []bool, next func(v Index, handle func(w Index)), output *[]Index) {
	type frame struct {
		v     Index
		succ  []Index
		nextI int
	}

	successors := func(v Index) []Index {
		succ := make([]Index, 0, 4)
		next(v, func(w Index) {
			succ = append(succ, w)
		})
		return succ
	}

	visited[s] = true
	stack := []frame{{v: s, succ: successors(s)}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.nextI < len(top.succ) {
			w := top.succ[top.nextI]
			top.nextI++
			if !visited[w] {
				visited[w] = true
				stack = append(stack, frame{v: w, succ: successors(w)})
			}
			continue
		}
		*output = append(*output, top.v)
		stack = stack[:len(stack)-1]
	}
}

func (g *RoadGraph) NumberOfSCCs() int {
	return g.numSCCs
}

func (g *RoadGraph) GetSCCOfAVertex(v Index) Index {
	return g.sccs[v]
}

// LargestSCCSize returns the number of vertices in the biggest SCC, 0 before RunKosaraju.
func (g *RoadGraph) LargestSCCSize() int {
	if g.numSCCs == 0 {
		return 0
	}
	sizes := make([]int, g.numSCCs)
	largest := 0
	g.ForVertices(func(v *Vertex) {
		scc := g.GetSCCOfAVertex(v.GetID())
		sizes[scc]++
		largest = max(largest, sizes[scc])
	})
	return largest
}

func (g *RoadGraph) SameSCC(u, v Index) bool {
	return g.sccs[u] == g.sccs[v]
}

// Disconnected is true only when v is provably unreachable from u: the graph is symmetric (so every SCC is a
// connected component) and u, v lie in different SCCs. false before RunKosaraju.
func (g *RoadGraph) Disconnected(u, v Index) bool {
	if g.sccs == nil || !g.symmetric {
		return false
	}
	return g.sccs[u] != g.sccs[v]
}
