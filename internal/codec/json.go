package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// JSONCodec reads and writes inventory documents as a single JSON object
type JSONCodec struct {
	indent string
}

// NewJSONCodec returns a codec that writes two-space indented JSON
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{indent: "  "}
}

func (c *JSONCodec) Format() string { return "json" }

// Parse decodes exactly one document. Unknown keys and trailing values
// are errors.
func (c *JSONCodec) Parse(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	doc := new(Document)
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse JSON: unexpected data after document")
	}
	return doc, nil
}

func (c *JSONCodec) Export(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", c.indent)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
