package events

import (
	"encoding/json"
	"fmt"

	"github.com/golang/snappy"
)

// Codec serializes events, optionally snappy-compressing the JSON body
type Codec struct {
	Compress bool
}

// Encode returns the wire form of ev
func (c Codec) Encode(ev AnalysisCompleted) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}

	if c.Compress {
		return snappy.Encode(nil, data), nil
	}
	return data, nil
}

// Decode parses a message produced by Encode with the same settings
func (c Codec) Decode(data []byte) (AnalysisCompleted, error) {
	var ev AnalysisCompleted

	if c.Compress {
		decoded, err := snappy.Decode(nil, data)
		if err != nil {
			return ev, fmt.Errorf("snappy decompress failed: %w", err)
		}
		data = decoded
	}

	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("failed to decode event: %w", err)
	}
	return ev, nil
}
