package remotefile

import (
	"encoding/json"
	"fmt"
	"os"
)

// Extension is the remote definition file extension. The filename stem is
// the device id.
const Extension = ".remote"

// Document is a parsed remote definition file: the key-to-code map plus
// physical layout metadata.
type Document struct {
	Keys   map[string]json.RawMessage `json:"keys"`
	Remote Layout                     `json:"remote"`
}

// Layout describes the physical button placement of a remote. The layout
// matrix itself is carried opaquely; its decoding is an incomplete
// feature.
type Layout struct {
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Layout json.RawMessage `json:"layout"`
}

// LoadDocument reads and parses one remote definition file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading remote definition: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing remote definition: %w", err)
	}
	if doc.Keys == nil {
		doc.Keys = map[string]json.RawMessage{}
	}
	return &doc, nil
}
