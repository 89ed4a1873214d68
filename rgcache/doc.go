// Package rgcache is the process-wide, read-mostly road-graph cache:
// lazy-loaded per geographic key, bounded by a small LRU so long-running
// services don't accumulate graphs for every location ever requested.
package rgcache
