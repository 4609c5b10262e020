package fetch

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/anicrunch/anicrunch/internal/domain"
)

// Payload is the shaped `data` field of an upstream response: either a list
// of raw items or a single raw item.
type Payload struct {
	Items []json.RawMessage
	Item  json.RawMessage
}

// IsSingle reports whether the response carried one object rather than a list.
func (p Payload) IsSingle() bool { return p.Item != nil }

// Len returns the number of items carried.
func (p Payload) Len() int {
	if p.Item != nil {
		return 1
	}
	return len(p.Items)
}

// cacheable reports whether the payload may be stored. Empty lists never are.
func (p Payload) cacheable() bool { return p.Len() > 0 }

// parsePayload shapes a response body. A body that is not valid JSON is an
// ErrMalformedBody; a missing or scalar `data` yields an empty payload.
func parsePayload(body []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Payload{}, ErrMalformedBody
	}

	// The backend returns some lists bare, without the envelope
	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		return Payload{Items: items}, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 {
		return Payload{}, nil
	}
	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		return Payload{Items: items}, nil
	case '{':
		return Payload{Item: data}, nil
	default:
		return Payload{}, nil
	}
}

// DecodeList decodes every item of p into T. A single-item payload decodes
// as a one-element list.
func DecodeList[T any](p Payload) ([]T, error) {
	raw := p.Items
	if p.Item != nil {
		raw = []json.RawMessage{p.Item}
	}
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformedBody, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeOne decodes the single item of p, or the first list entry.
// An empty payload is domain.ErrEmptyResult.
func DecodeOne[T any](p Payload) (*T, error) {
	raw := p.Item
	if raw == nil && len(p.Items) > 0 {
		raw = p.Items[0]
	}
	if raw == nil {
		return nil, domain.ErrEmptyResult
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return &v, nil
}
