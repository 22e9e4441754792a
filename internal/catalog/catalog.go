// Package catalog maps image model identifiers to credit costs.
// The catalog is static configuration; it is never persisted.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultCost is charged for any model not listed in the catalog.
const DefaultCost = 1

// Defaults applied when a generation request omits a field.
const (
	DefaultModel = "recraft-ai/recraft-v3-svg"
	DefaultStyle = "vector_illustration"
	DefaultSize  = "1024x1024"
)

// defaultCosts is the built-in model pricing, keyed by normalized id.
var defaultCosts = map[string]int{
	"recraft-v3-svg":  2,
	"recraft-20b-svg": 1,
}

// Catalog resolves credit costs for model identifiers.
type Catalog struct {
	costs map[string]int
}

// New returns a catalog with the built-in pricing.
func New() *Catalog {
	costs := make(map[string]int, len(defaultCosts))
	for id, cost := range defaultCosts {
		costs[id] = cost
	}
	return &Catalog{costs: costs}
}

// NewFromSpec builds a catalog from a config string of the form
// "model=cost,model=cost", layered over the built-in pricing.
// An empty spec yields the built-in catalog.
func NewFromSpec(spec string) (*Catalog, error) {
	c := New()
	if spec == "" {
		return c, nil
	}

	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		id, costStr, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("invalid model cost entry %q", pair)
		}

		cost, err := strconv.Atoi(strings.TrimSpace(costStr))
		if err != nil || cost < 1 {
			return nil, fmt.Errorf("invalid cost for model %q: %q", id, costStr)
		}

		c.costs[Normalize(strings.TrimSpace(id))] = cost
	}

	return c, nil
}

// Cost returns the credit cost for a model identifier.
// Unknown models cost DefaultCost.
func (c *Catalog) Cost(modelID string) int {
	if cost, ok := c.costs[Normalize(modelID)]; ok {
		return cost
	}
	return DefaultCost
}

// Normalize strips the provider prefix ("recraft-ai/...") and any pinned
// version suffix ("...:abc123") from a model identifier. The normalized
// form is what gets stored on generation records and used for pricing.
func Normalize(modelID string) string {
	id := modelID
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		id = id[idx+1:]
	}
	if idx := strings.Index(id, ":"); idx >= 0 {
		id = id[:idx]
	}
	return id
}
