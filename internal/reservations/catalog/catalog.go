// Package catalog is the read-only registry of bookable resources. It is
// loaded once at startup from durable storage and never mutated by the
// reservation engine; a missing id is ordinary control flow, not an error.
package catalog

import (
	"sort"

	"labslot/pkg/model"
)

type Catalog struct {
	byID    map[int64]model.Resource
	ordered []model.Resource
}

// New builds a catalog from the given resources. Duplicate ids keep the
// last occurrence.
func New(resources []model.Resource) *Catalog {
	byID := make(map[int64]model.Resource, len(resources))
	for _, r := range resources {
		byID[r.ID] = r
	}

	ordered := make([]model.Resource, 0, len(byID))
	for _, r := range byID {
		ordered = append(ordered, r)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	return &Catalog{byID: byID, ordered: ordered}
}

func (c *Catalog) Exists(resourceID int64) bool {
	_, ok := c.byID[resourceID]
	return ok
}

func (c *Catalog) Get(resourceID int64) (model.Resource, bool) {
	r, ok := c.byID[resourceID]
	return r, ok
}

// List returns all resources ordered by id. The slice is a copy.
func (c *Catalog) List() []model.Resource {
	out := make([]model.Resource, len(c.ordered))
	copy(out, c.ordered)
	return out
}

func (c *Catalog) Len() int {
	return len(c.ordered)
}
