// File: dijkstra.go
// Role: the Dijkstra search loop over core.Graph.
package dijkstra

import (
	"container/heap"
	"fmt"

	"github.com/gpsartgen/routeart/core"
)

// Run computes shortest costs from Options.Source to every node reachable
// in g, using Options.Cost to weigh each edge. Options.Target, if set, lets
// Run stop as soon as that node's distance is finalized rather than
// exploring the whole graph.
//
// Returns an error if Source is empty, g is nil, Cost is nil, Source does
// not exist in g, or Cost produces a negative value for some edge Run
// actually traverses.
func Run(g *core.Graph, opts ...Option) (Result, error) {
	cfg := Options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Source == "" {
		return Result{}, ErrEmptySource
	}
	if g == nil {
		return Result{}, ErrNilGraph
	}
	if cfg.Cost == nil {
		return Result{}, ErrNilCostFunc
	}
	if !g.HasNode(cfg.Source) {
		return Result{}, ErrSourceNotFound
	}

	r := &runner{g: g, cfg: cfg, dist: make(map[string]float64), visited: make(map[string]bool)}
	if cfg.ReturnPath {
		r.prev = make(map[string]string)
	}

	r.dist[cfg.Source] = 0
	heap.Init(&r.pq)
	heap.Push(&r.pq, &pqItem{id: cfg.Source, dist: 0})

	if err := r.process(); err != nil {
		return Result{}, err
	}

	return Result{Dist: r.dist, Prev: r.prev}, nil
}

// runner holds mutable state for a single Run.
type runner struct {
	g       *core.Graph
	cfg     Options
	dist    map[string]float64
	prev    map[string]string
	visited map[string]bool
	pq      pq
}

func (r *runner) process() error {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*pqItem)
		u := item.id

		if r.visited[u] {
			continue
		}
		r.visited[u] = true

		if r.cfg.Target != "" && u == r.cfg.Target {
			return nil
		}

		if err := r.relax(u); err != nil {
			return err
		}
	}

	return nil
}

// relax examines every edge leaving u and pushes an improved candidate for
// its neighbor onto the heap. Ties in candidate cost are broken by pushing
// in increasing neighbor-ID order so that, for a given final cost, the heap
// always pops the lexicographically smaller neighbor first — making the
// resulting shortest-path tree deterministic across runs.
func (r *runner) relax(u string) error {
	edges := r.g.Edges(u)

	sorted := make([]core.Edge, len(edges))
	copy(sorted, edges)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].To < sorted[j-1].To; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	for _, e := range sorted {
		w := r.cfg.Cost(e)
		if w < 0 {
			return fmt.Errorf("%w: edge %s from %s to %s cost=%g", ErrNegativeCost, e.ID, e.From, e.To, w)
		}

		v := e.To
		newDist := r.dist[u] + w

		cur, known := r.dist[v]
		if known && newDist >= cur {
			continue
		}

		r.dist[v] = newDist
		if r.prev != nil {
			r.prev[v] = u
		}

		heap.Push(&r.pq, &pqItem{id: v, dist: newDist})
	}

	return nil
}

// pqItem is a (node, distance) pair stored in the priority queue.
type pqItem struct {
	id   string
	dist float64
}

// pq is a min-heap of *pqItem ordered by dist ascending, with ties broken
// by node ID so heap iteration order is itself deterministic. Lazy
// decrease-key: relax pushes a fresh item rather than mutating an existing
// one; stale entries are dropped on pop via runner.visited.
type pq []*pqItem

func (q pq) Len() int { return len(q) }

func (q pq) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}

	return q[i].id < q[j].id
}

func (q pq) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *pq) Push(x interface{}) { *q = append(*q, x.(*pqItem)) }

func (q *pq) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]

	return item
}
