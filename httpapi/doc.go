// Package httpapi exposes generator.RouteContext over HTTP: a single
// POST /routes/generate endpoint, JSON request/response envelopes, and a
// routeerrors.Kind → HTTP status mapping.
package httpapi
