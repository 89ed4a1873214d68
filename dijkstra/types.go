// File: types.go
// Role: Options, CostFunc, and sentinel errors for the Dijkstra search.
package dijkstra

import (
	"errors"

	"github.com/gpsartgen/routeart/core"
)

// Sentinel errors returned by Run.
var (
	// ErrEmptySource indicates that the provided source node ID is empty.
	ErrEmptySource = errors.New("dijkstra: source node ID is empty")

	// ErrNilGraph indicates that a nil *core.Graph was passed to Run.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrSourceNotFound indicates that the source node does not exist in g.
	ErrSourceNotFound = errors.New("dijkstra: source node not found in graph")

	// ErrNilCostFunc indicates that no CostFunc was supplied.
	ErrNilCostFunc = errors.New("dijkstra: cost function is nil")

	// ErrNegativeCost indicates a CostFunc returned a negative value for some
	// edge; Dijkstra's correctness depends on non-negative costs.
	ErrNegativeCost = errors.New("dijkstra: cost function returned a negative value")
)

// CostFunc assigns a traversal cost to an edge. It need not equal the
// edge's physical length: shape-biased routing multiplies length by a
// deviation penalty, while a plain shortest-path query simply returns
// e.LengthM.
type CostFunc func(e core.Edge) float64

// LengthCost is the CostFunc that returns an edge's physical length,
// yielding the ordinary (unbiased) shortest path.
func LengthCost(e core.Edge) float64 {
	return e.LengthM
}

// Options configures a single Run.
type Options struct {
	Source     string   // required: starting node ID
	Target     string   // optional: if set, Run may stop early once Target is finalized
	Cost       CostFunc // required: edge cost function
	ReturnPath bool     // if true, Result.Prev is populated for path reconstruction
}

// Option is a functional option for Options.
type Option func(*Options)

// Source sets the starting node ID. Required.
func Source(id string) Option {
	return func(o *Options) { o.Source = id }
}

// Target sets an optional destination. When set, Run may terminate as soon
// as Target's shortest distance is finalized, without exploring the rest of
// the graph.
func Target(id string) Option {
	return func(o *Options) { o.Target = id }
}

// WithCost sets the edge cost function. Required; Run returns ErrNilCostFunc
// if omitted.
func WithCost(fn CostFunc) Option {
	return func(o *Options) { o.Cost = fn }
}

// WithReturnPath requests that Run populate Result.Prev for path
// reconstruction via Result.Path.
func WithReturnPath() Option {
	return func(o *Options) { o.ReturnPath = true }
}

// Result is the outcome of a single-source search. A node absent from Dist
// was never reached from Source.
type Result struct {
	Dist map[string]float64 // node ID -> shortest cost from Source
	Prev map[string]string  // node ID -> predecessor on the shortest path; nil unless ReturnPath was set
}

// Path reconstructs the node sequence from Source to target, inclusive.
// Requires the Result to have been built with WithReturnPath. Returns
// false if target is unreachable or Prev was not recorded.
func (r Result) Path(source, target string) ([]string, bool) {
	if r.Prev == nil {
		return nil, false
	}
	if _, ok := r.Dist[target]; !ok {
		return nil, false
	}

	var rev []string
	cur := target
	for cur != source {
		rev = append(rev, cur)
		prev, ok := r.Prev[cur]
		if !ok || prev == "" {
			return nil, false
		}
		cur = prev
	}
	rev = append(rev, source)

	path := make([]string, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}

	return path, true
}
