// Package fitloop binary-searches a template placement scale so the routed
// path's length lands within tolerance of a target distance, retrying a
// bracket-grow step once if the initial bounds don't bound the target.
package fitloop
