// Package handler implements the shardkv HTTP API.
//
//   - GET    /api/{key...}   fetch a value
//   - POST   /api            insert or update {"key","value"}
//   - DELETE /api/{key...}   remove a key and return its value
//   - GET    /health, /ready liveness and readiness
//   - GET    /admin/v1/stats per-shard occupancy
//
// Values are JSON strings. Values that are not valid UTF-8 travel
// base64-encoded with "encoding":"base64" set alongside them.
package handler
