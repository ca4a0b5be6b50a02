// Package logger provides structured logging for shardkv.
//
// Output is JSON by default. Attributes named value, body or payload are
// replaced by their length, so stored data never reaches the log. The
// level is process-wide and follows log.level on config reload.
//
// HTTP middleware tags request contexts with WithRequestID and the RESP
// server tags connection contexts with WithConn; L(ctx) picks both up.
package logger
