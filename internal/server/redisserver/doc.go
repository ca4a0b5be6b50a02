// Package redisserver serves the key-value store over a RESP2 subset so
// redis-cli and ordinary Redis clients can talk to it.
//
// Supported commands:
//   - PING [message], QUIT
//   - GET key, SET key value
//   - DEL key [key ...], EXISTS key [key ...]
//   - DBSIZE, KEYS pattern, FLUSHDB
//
// Values are binary safe. There is no authentication, expiry or
// persistence; the listener is disabled unless server.redis.enabled is set.
package redisserver
