// Package routeerrors defines the error taxonomy shared across the route
// generation pipeline: a closed set of Kind values plus an Error type that
// carries one of them, a human message, and an optional wrapped cause.
//
// httpapi maps Kind to an HTTP status and a {kind, message} JSON envelope;
// fitloop relies on Is(err, KindNoPath) / Is(err, KindConnectorTooLong) to
// decide whether a scaling-loop iterate is merely infeasible rather than a
// fatal failure.
package routeerrors
