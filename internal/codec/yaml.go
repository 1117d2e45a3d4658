package codec

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLCodec reads and writes inventory documents as one YAML document
type YAMLCodec struct {
	indent int
}

// NewYAMLCodec returns a codec that writes two-space indented YAML
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{indent: 2}
}

func (c *YAMLCodec) Format() string { return "yaml" }

// Parse decodes a single document. Unknown keys are errors, empty input
// is an empty document, and a second "---" document is rejected.
func (c *YAMLCodec) Parse(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	doc := new(Document)
	switch err := dec.Decode(doc); {
	case errors.Is(err, io.EOF):
		return doc, nil
	case err != nil:
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: only one document is allowed")
	}
	return doc, nil
}

func (c *YAMLCodec) Export(doc *Document, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(c.indent)
	if err := enc.Encode(doc); err != nil {
		enc.Close()
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
