// Package controller holds the HTTP middlewares and helper handlers mounted
// by the plot API server: CORS for browser clients, request IDs with an access
// log that handlers can annotate, and the pprof endpoints.
package controller
