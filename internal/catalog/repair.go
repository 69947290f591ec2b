package catalog

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// orphanPrefix marks top-level fragment keys that are really products of the
// most recently seen design house.
const orphanPrefix = "__"

// ParseFragment parses one YAML fragment and repairs its structure. Some
// fragments encode a design house as a key with a null value followed by
// sibling top-level keys prefixed with "__" that actually belong to it; the
// repair scan walks keys in document order, tracking the current design
// house, and reattaches prefixed keys as products (prefix stripped,
// underscores translated to spaces). Prefixed keys seen before any design
// house land under the "unknown" sentinel.
func ParseFragment(data []byte) (Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}

	if len(doc.Content) == 0 {
		return Catalog{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("fragment root is not a mapping")
	}

	return repairMapping(root)
}

// repairMapping runs the ordered repair scan over a fragment's top-level
// mapping. Plain Go maps lose document order, so this works on yaml.Node
// pairs directly.
func repairMapping(root *yaml.Node) (Catalog, error) {
	repaired := Catalog{}
	current := ""
	established := false

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		valueNode := root.Content[i+1]
		key := keyNode.Value

		if !strings.HasPrefix(key, orphanPrefix) {
			// A plain key establishes the current design house and
			// seeds its product map.
			current = key
			established = true
			products := ProductMap{}
			if valueNode.Kind == yaml.MappingNode {
				if err := valueNode.Decode(&products); err != nil {
					return nil, fmt.Errorf("decoding products for %q: %w", key, err)
				}
			}
			repaired[current] = products
			continue
		}

		if !established {
			current = UnknownDesignHouse
			established = true
			if _, ok := repaired[current]; !ok {
				repaired[current] = ProductMap{}
			}
		}

		product := strings.ReplaceAll(strings.TrimLeft(key, "_"), "_", " ")
		var value any
		if err := valueNode.Decode(&value); err != nil {
			return nil, fmt.Errorf("decoding product %q: %w", product, err)
		}
		repaired[current][product] = value
	}

	return repaired, nil
}
