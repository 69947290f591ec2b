package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Marshal serializes a catalog with design houses and products in sorted
// key order, so repeated runs produce byte-identical output files.
func Marshal(c Catalog) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	for _, designHouse := range sortedKeys(c) {
		products := c[designHouse]
		productsNode := &yaml.Node{Kind: yaml.MappingNode}

		for _, product := range sortedProductKeys(products) {
			var valueNode yaml.Node
			if err := valueNode.Encode(products[product]); err != nil {
				return nil, fmt.Errorf("encoding %s/%s: %w", designHouse, product, err)
			}
			productsNode.Content = append(productsNode.Content, stringNode(product), &valueNode)
		}

		root.Content = append(root.Content, stringNode(designHouse), productsNode)
	}

	return yaml.Marshal(root)
}

// WriteFile serializes the catalog and writes it to path, creating parent
// directories as needed. Unlike image artifacts, catalog files are always
// rewritten; their content is what accumulates enrichment state.
func WriteFile(path string, c Catalog) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing catalog file: %w", err)
	}

	return nil
}

func stringNode(value string) *yaml.Node {
	node := &yaml.Node{}
	node.SetString(value)
	return node
}

func sortedKeys(c Catalog) []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedProductKeys(products ProductMap) []string {
	keys := make([]string, 0, len(products))
	for key := range products {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
