package redisserver

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"github.com/yndnr/shardkv-go/internal/core/domain"
	"github.com/yndnr/shardkv-go/internal/core/service"
)

// formatRedisError converts an error to a Redis error string.
// Domain errors become "ERR <code> <message>"; anything else is hidden
// behind the generic internal error.
func formatRedisError(err error) string {
	if de, ok := domain.AsDomainError(err); ok {
		return "ERR " + de.Code + " " + de.Text()
	}
	return "ERR " + domain.ErrInternal.Code + " " + domain.ErrInternal.Message
}

func wrongArgs(cmd string) string {
	return "ERR wrong number of arguments for '" + cmd + "' command"
}

// CommandHandler executes decoded commands against the KV service.
type CommandHandler struct {
	kv       *service.KVService
	limiters *service.RateLimiterRegistry
	logger   *slog.Logger
}

// NewCommandHandler creates a new CommandHandler. A nil limiters registry
// disables rate limiting.
func NewCommandHandler(kv *service.KVService, limiters *service.RateLimiterRegistry, logger *slog.Logger) *CommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandHandler{
		kv:       kv,
		limiters: limiters,
		logger:   logger,
	}
}

// Handle runs one command and writes its reply to w. It returns false when
// the connection should be closed after the reply is flushed.
func (h *CommandHandler) Handle(ctx context.Context, client string, w *Writer, args [][]byte) bool {
	if len(args) == 0 {
		w.Error("ERR no command")
		return true
	}

	cmd := normalizeCommandName(args[0])

	switch cmd {
	case "PING":
		h.handlePing(w, args)
		return true
	case "QUIT":
		w.SimpleString("OK")
		return false
	}

	if !h.limiters.Allow(client) {
		w.Error("ERR " + domain.ErrRateLimited.Code + " " + domain.ErrRateLimited.Message)
		return true
	}

	switch cmd {
	case "GET":
		h.handleGet(ctx, w, args)
	case "SET":
		h.handleSet(ctx, w, args)
	case "DEL":
		h.handleDel(ctx, w, args)
	case "EXISTS":
		h.handleExists(ctx, w, args)
	case "DBSIZE":
		h.handleDBSize(w, args)
	case "KEYS":
		h.handleKeys(ctx, w, args)
	case "FLUSHDB":
		h.handleFlushDB(ctx, w, args)
	default:
		w.Error("ERR unknown command '" + cmd + "'")
	}
	return true
}

// PING [message]
func (h *CommandHandler) handlePing(w *Writer, args [][]byte) {
	switch len(args) {
	case 1:
		w.SimpleString("PONG")
	case 2:
		w.Bulk(args[1])
	default:
		w.Error(wrongArgs("ping"))
	}
}

// GET key
func (h *CommandHandler) handleGet(ctx context.Context, w *Writer, args [][]byte) {
	if len(args) != 2 {
		w.Error(wrongArgs("get"))
		return
	}

	value, err := h.kv.Get(ctx, string(args[1]))
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			w.Bulk(nil)
			return
		}
		h.replyError(w, "get", err)
		return
	}
	if value == nil {
		value = []byte{}
	}
	w.Bulk(value)
}

// SET key value
func (h *CommandHandler) handleSet(ctx context.Context, w *Writer, args [][]byte) {
	if len(args) != 3 {
		w.Error(wrongArgs("set"))
		return
	}

	value := args[2]
	if value == nil {
		value = []byte{}
	}
	if _, err := h.kv.Put(ctx, string(args[1]), value); err != nil {
		h.replyError(w, "set", err)
		return
	}
	w.SimpleString("OK")
}

// DEL key [key ...]
func (h *CommandHandler) handleDel(ctx context.Context, w *Writer, args [][]byte) {
	if len(args) < 2 {
		w.Error(wrongArgs("del"))
		return
	}

	var removed int64
	for _, k := range args[1:] {
		_, err := h.kv.Delete(ctx, string(k))
		switch {
		case err == nil:
			removed++
		case errors.Is(err, domain.ErrKeyNotFound):
		default:
			h.replyError(w, "del", err)
			return
		}
	}
	w.Integer(removed)
}

// EXISTS key [key ...]
func (h *CommandHandler) handleExists(ctx context.Context, w *Writer, args [][]byte) {
	if len(args) < 2 {
		w.Error(wrongArgs("exists"))
		return
	}

	var count int64
	for _, k := range args[1:] {
		ok, err := h.kv.Exists(ctx, string(k))
		if err != nil {
			h.replyError(w, "exists", err)
			return
		}
		if ok {
			count++
		}
	}
	w.Integer(count)
}

// DBSIZE
func (h *CommandHandler) handleDBSize(w *Writer, args [][]byte) {
	if len(args) != 1 {
		w.Error(wrongArgs("dbsize"))
		return
	}
	w.Integer(int64(h.kv.Len()))
}

// KEYS pattern
func (h *CommandHandler) handleKeys(ctx context.Context, w *Writer, args [][]byte) {
	if len(args) != 2 {
		w.Error(wrongArgs("keys"))
		return
	}

	keys, err := h.kv.Keys(ctx, string(args[1]))
	if err != nil {
		h.replyError(w, "keys", err)
		return
	}
	w.Array(len(keys))
	for _, k := range keys {
		w.Bulk([]byte(k))
	}
}

// FLUSHDB
func (h *CommandHandler) handleFlushDB(ctx context.Context, w *Writer, args [][]byte) {
	if len(args) != 1 {
		w.Error(wrongArgs("flushdb"))
		return
	}
	h.kv.Flush(ctx)
	w.SimpleString("OK")
}

func (h *CommandHandler) replyError(w *Writer, cmd string, err error) {
	if _, ok := domain.AsDomainError(err); !ok {
		h.logger.Error("redis command failed", "command", cmd, "error", err)
	}
	w.Error(formatRedisError(err))
}

// clientIP strips the port from a remote address.
func clientIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
