package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yndnr/shardkv-go/internal/core/domain"
)

// handleGet handles GET /api/{key...}.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	value, err := h.kv.Get(r.Context(), r.PathValue("key"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, encodeValue(value))
}

// handlePut handles POST /api. It answers 201 when the key was created and
// 200 when an existing value was replaced.
func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	if limit := maxPutBody(h.kv.Limits()); limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	var req PutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.handleServiceError(w, r, domain.ErrValueTooLarge.WithDetails("request body too large"))
			return
		}
		h.handleServiceError(w, r, domain.ErrMalformedRequest.WithCause(err))
		return
	}
	if req.Key == nil {
		h.handleServiceError(w, r, domain.ErrKeyRequired)
		return
	}
	if req.Value == nil {
		h.handleServiceError(w, r, domain.ErrValueRequired)
		return
	}

	value, err := decodeValue(*req.Value, req.Encoding)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	res, err := h.kv.Put(r.Context(), *req.Key, value)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if res.Created() {
		status = http.StatusCreated
	}
	h.writeJSON(w, r, status, PutResponse{
		Key:     *req.Key,
		Shard:   res.Shard,
		Outcome: res.Outcome.String(),
	})
}

// maxPutBody bounds a POST /api body. It is a transport guard sized for
// the worst JSON encoding of an in-limit key and value (\u00XX escapes,
// six bytes per input byte); the exact limits are checked on the decoded
// bytes. Zero means no value limit and no cap.
func maxPutBody(l domain.Limits) int64 {
	if l.MaxValueBytes <= 0 {
		return 0
	}
	return int64(l.MaxValueBytes+l.MaxKeyBytes)*jsonEscapeFactor + bodySlack
}

// handleDelete handles DELETE /api/{key...}.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.kv.Delete(r.Context(), r.PathValue("key"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, encodeValue(removed))
}
