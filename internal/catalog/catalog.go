// Package catalog maps request categories to the document types they need.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed request_types.yaml
var defaultYAML []byte

// RequestType is one selectable category of the form.
type RequestType struct {
	Name          string   `yaml:"name"`
	DocumentTypes []string `yaml:"documentTypes"`
}

// Catalog keeps the categories in display order.
type Catalog struct {
	Default      []string      `yaml:"default"`
	RequestTypes []RequestType `yaml:"requestTypes"`
}

// Parse decodes a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse request type catalog: %w", err)
	}
	if len(c.Default) == 0 {
		return nil, fmt.Errorf("request type catalog has no default document types")
	}
	for _, rt := range c.RequestTypes {
		if rt.Name == "" || len(rt.DocumentTypes) == 0 {
			return nil, fmt.Errorf("request type catalog entry %q has no document types", rt.Name)
		}
	}
	return &c, nil
}

// Default returns the embedded catalog. It panics only if the embedded file is broken.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Names returns the category names in display order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.RequestTypes))
	for _, rt := range c.RequestTypes {
		names = append(names, rt.Name)
	}
	return names
}

// DocumentTypes returns the document types for a category, or the default set when the
// category is unknown or empty.
func (c *Catalog) DocumentTypes(requestType string) []string {
	for _, rt := range c.RequestTypes {
		if rt.Name == requestType {
			return append([]string(nil), rt.DocumentTypes...)
		}
	}
	return append([]string(nil), c.Default...)
}
