// Package catalog implements the canonical in-memory catalog of design
// products: loading YAML fragments, repairing known malformed shapes,
// normalizing heterogeneous product values and merging fragments into a
// single datatable.
package catalog

import (
	"fmt"
	"strconv"
)

// UnknownDesignHouse is the sentinel bucket for orphaned product keys that
// appear in a fragment before any design house has been established.
const UnknownDesignHouse = "unknown"

// Record is the canonical per-product shape: at least a year, optionally a
// hosted image URL, plus whatever extra fields the source carried.
type Record map[string]any

// ProductMap maps raw product display names to their values. Values are
// heterogeneous as loaded (bare year, string year or a full record) and are
// normalized through Unify before any enrichment logic touches them.
type ProductMap map[string]any

// Catalog maps raw design house display names to their products.
type Catalog map[string]ProductMap

// Unify normalizes a raw product value into a Record with at least a year
// key. It is total: every input shape maps to exactly one Record.
func Unify(value any) Record {
	switch v := value.(type) {
	case map[string]any:
		rec := make(Record, len(v))
		for key, val := range v {
			rec[key] = val
		}
		return rec
	case Record:
		rec := make(Record, len(v))
		for key, val := range v {
			rec[key] = val
		}
		return rec
	case int:
		return Record{"year": v}
	case string:
		return Record{"year": v}
	default:
		return Record{"year": ""}
	}
}

// Year returns the record's year formatted for use in paths and queries.
func (r Record) Year() string {
	switch v := r["year"].(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

// Image returns the record's hosted image URL, or "" when unset.
func (r Record) Image() string {
	if v, ok := r["image"].(string); ok {
		return v
	}
	return ""
}

// SetImage stores the hosted image URL on the record.
func (r Record) SetImage(url string) {
	r["image"] = url
}

// Absorb merges another catalog into this one at product granularity:
// missing design houses are created, colliding product keys are overwritten
// by the incoming fragment (last write wins).
func (c Catalog) Absorb(other Catalog) {
	for designHouse, products := range other {
		if _, ok := c[designHouse]; !ok {
			c[designHouse] = ProductMap{}
		}
		for product, value := range products {
			c[designHouse][product] = value
		}
	}
}

// Merge folds fragment catalogs into a single catalog, later fragments
// overwriting earlier ones on product key collisions.
func Merge(fragments []Catalog) Catalog {
	merged := Catalog{}
	for _, fragment := range fragments {
		merged.Absorb(fragment)
	}
	return merged
}
