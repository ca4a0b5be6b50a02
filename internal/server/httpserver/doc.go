// Package httpserver provides the HTTP server for shardkv.
//
// It uses net/http with Go 1.22 method and wildcard patterns:
//
//   - Key endpoints: GET/DELETE /api/{key...}, POST /api
//   - Admin endpoints: /admin/v1/stats
//   - Health endpoints: /health, /ready, /metrics
//
// Every route runs behind the same middleware chain:
// Recover, RequestID, Metrics, AccessLog, RateLimit.
package httpserver
