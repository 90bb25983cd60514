// Package server exposes the solver over HTTP.
//
// Solves are asynchronous: a request is queued as a job and processed by a
// fixed pool of workers, so that long searches never hold a connection.
//
//	POST /v1/solve        queue a solve, 202 {"id": ..., "status": "queued"}
//	GET  /v1/jobs/{id}    job state and, once done, the search result
//	GET  /v1/runs?limit=N recent run records, newest first
//	GET  /healthz         liveness and build information
//
// The solve body is either the instance text format (Content-Type
// text/plain) or JSON:
//
//	{"instance": {"width": 8, "modules": [{"w": 4, "h": 4}, {"w": 4, "h": 4}]},
//	 "options": {"rotation": true, "timeout": "30s"}}
//
// Errors are reported as {"error": {"code": "...", "message": "..."}}.
package server
