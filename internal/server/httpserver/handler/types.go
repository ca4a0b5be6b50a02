package handler

import (
	"encoding/base64"
	"fmt"

	"github.com/yndnr/shardkv-go/internal/core/domain"
	"github.com/yndnr/shardkv-go/pkg/cmap"
)

// EncodingBase64 marks a value carried as standard base64.
const EncodingBase64 = "base64"

// ErrorResponse is the error body for every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PutRequest is the request body for POST /api.
// Value is a pointer so a missing field can be told apart from "".
type PutRequest struct {
	Key      *string `json:"key"`
	Value    *string `json:"value"`
	Encoding string  `json:"encoding,omitempty"`
}

// PutResponse is the response body for POST /api.
type PutResponse struct {
	Key     string `json:"key"`
	Shard   int    `json:"shard"`
	Outcome string `json:"outcome"`
}

// ValueResponse is the response body for GET and DELETE /api/{key}.
type ValueResponse struct {
	Value    string `json:"value"`
	Encoding string `json:"encoding,omitempty"`
}

// StatsResponse is the response body for GET /admin/v1/stats.
type StatsResponse struct {
	Entries    int               `json:"entries"`
	ShardCount int               `json:"shard_count"`
	Hash       string            `json:"hash"`
	Version    string            `json:"version"`
	Shards     []cmap.ShardStats `json:"shards"`
}

// StatusResponse is the response body for /health and /ready.
type StatusResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// encodeValue renders raw bytes for a JSON response.
func encodeValue(b []byte) ValueResponse {
	if domain.IsText(b) {
		return ValueResponse{Value: string(b)}
	}
	return ValueResponse{Value: base64.StdEncoding.EncodeToString(b), Encoding: EncodingBase64}
}

// decodeValue turns a request value back into raw bytes.
func decodeValue(value, encoding string) ([]byte, error) {
	switch encoding {
	case "":
		return []byte(value), nil
	case EncodingBase64:
		b, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, domain.ErrMalformedRequest.WithDetails("value is not valid base64")
		}
		return b, nil
	default:
		return nil, domain.ErrMalformedRequest.WithDetails(fmt.Sprintf("unsupported encoding %q", encoding))
	}
}
