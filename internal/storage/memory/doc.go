// Package memory provides the in-memory key-value store for shardkv.
//
// Store binds the sharded map in pkg/cmap to []byte values and implements
// service.KVRepository. Values are copied on the way in and on the way
// out, so no caller ever aliases memory owned by a shard. Absence is
// reported as domain.ErrKeyNotFound; nothing else can fail.
//
// A Store lives for the whole process and is shared by the HTTP and RESP
// servers. There is no persistence and no resharding.
package memory
