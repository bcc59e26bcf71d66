// Package itemfile reads and writes item-set documents: a list of items plus
// an optional locale and evaluation context, stored as JSON or YAML.
package itemfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alantheprice/choices/pkg/itemvalue"
	"github.com/alantheprice/choices/pkg/serializer"
	"github.com/alantheprice/choices/pkg/utils"
)

// ErrUnsupportedFormat is returned for file extensions other than .json,
// .yaml and .yml.
var ErrUnsupportedFormat = errors.New("unsupported item file format")

// Format is a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Document is one item set.
type Document struct {
	Locale string `json:"locale,omitempty" yaml:"locale,omitempty"`
	// Items holds literals or records in collection order.
	Items []any `json:"items" yaml:"items"`
	// Context is the default evaluation context.
	Context map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
	// Properties are the extras passed to condition functions.
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Load reads the document at path.
func Load(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.NewFileSystemError("read item file", path, err)
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a document.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case JSON:
		err = json.Unmarshal(data, &doc)
	case YAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return &doc, nil
}

// Collection builds a collection bound to owner from the document items.
func (d *Document) Collection(owner itemvalue.Owner) *itemvalue.Collection {
	c := itemvalue.NewCollection(owner)
	c.SetData(d.Items)
	return c
}

// FromCollection captures the compact form of c together with the given
// locale, context and properties.
func FromCollection(c *itemvalue.Collection, locale string, context, properties map[string]any) *Document {
	return &Document{Locale: locale, Items: c.Data(), Context: context, Properties: properties}
}

// Encode writes d in format. Item records keep their field order.
func (d *Document) Encode(w io.Writer, format Format) error {
	switch format {
	case JSON:
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case YAML:
		node, err := d.yamlNode()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// Save writes d to path in the format implied by its extension.
func (d *Document) Save(path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := d.Encode(&buf, format); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return utils.NewFileSystemError("create directory", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return utils.NewFileSystemError("write item file", path, err)
	}
	return nil
}

func (d *Document) yamlNode() (*yaml.Node, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, v any) error {
		n, err := toNode(v)
		if err != nil {
			return err
		}
		root.Content = append(root.Content, scalar(key), n)
		return nil
	}
	if d.Locale != "" {
		if err := add("locale", d.Locale); err != nil {
			return nil, err
		}
	}
	if err := add("items", d.Items); err != nil {
		return nil, err
	}
	if len(d.Context) > 0 {
		if err := add("context", d.Context); err != nil {
			return nil, err
		}
	}
	if len(d.Properties) > 0 {
		if err := add("properties", d.Properties); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// toNode converts v to a YAML node, expanding ordered records in order.
func toNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case *serializer.Record:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			child, err := toNode(pair.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, scalar(pair.Key), child)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, x := range val {
			child, err := toNode(x)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}
