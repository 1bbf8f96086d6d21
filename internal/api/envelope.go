package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// Envelope wraps every successful response body.
type Envelope struct {
	Data any `json:"data"`
}

// EnvelopeTransformer wraps 2xx response bodies in {data: ...}. Error
// bodies already carry the error envelope shape and pass through
// untouched, as do 204 responses with no body.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if _, ok := v.(huma.StatusError); ok {
		return v, nil
	}
	if strings.HasPrefix(status, "4") || strings.HasPrefix(status, "5") {
		return v, nil
	}
	return Envelope{Data: v}, nil
}
