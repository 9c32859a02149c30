// Package catalog loads the restaurant catalog and serves read-only lookups over it.
package catalog

import "github.com/hyperjump/dishmatch/internal/models"

// Catalog is the immutable, ordered set of restaurants for one process lifetime.
// It is safe for concurrent use because nothing mutates it after New.
type Catalog struct {
	restaurants []*models.Restaurant
	countries   []string
}

// New builds a catalog from records in row order. Each record's ID is set to its
// position; the records are copied so later changes by the caller are not observed.
func New(records []models.Restaurant, countries []string) *Catalog {
	c := &Catalog{
		restaurants: make([]*models.Restaurant, len(records)),
		countries:   append([]string(nil), countries...),
	}
	for i := range records {
		r := records[i]
		r.ID = i
		c.restaurants[i] = &r
	}
	return c
}

// Len returns the number of restaurants.
func (c *Catalog) Len() int {
	return len(c.restaurants)
}

// All returns every restaurant in catalog order. The records must not be modified.
func (c *Catalog) All() []*models.Restaurant {
	return append([]*models.Restaurant(nil), c.restaurants...)
}

// Get returns the restaurant with the given dense ID.
func (c *Catalog) Get(id int) (*models.Restaurant, bool) {
	if id < 0 || id >= len(c.restaurants) {
		return nil, false
	}
	return c.restaurants[id], true
}

// ByRestaurantID returns the first restaurant in catalog order carrying the external id.
func (c *Catalog) ByRestaurantID(restaurantID int64) (*models.Restaurant, bool) {
	for _, r := range c.restaurants {
		if r.RestaurantID == restaurantID {
			return r, true
		}
	}
	return nil, false
}

// Countries returns the distinct country names from the country table, in table order.
func (c *Catalog) Countries() []string {
	return append([]string{}, c.countries...)
}

// Filter returns the restaurants satisfying keep, in catalog order.
func (c *Catalog) Filter(keep func(*models.Restaurant) bool) []*models.Restaurant {
	var out []*models.Restaurant
	for _, r := range c.restaurants {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// List returns one 1-based page of restaurants matching filter.
func (c *Catalog) List(filter models.BrowseFilter, page, limit int) []*models.Restaurant {
	if page < 1 || limit < 1 {
		return nil
	}
	matched := c.Filter(filter.Matches)
	start := (page - 1) * limit
	if start >= len(matched) {
		return []*models.Restaurant{}
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end]
}

// Search returns up to limit restaurants matching filter, stopping early once limit is reached.
func (c *Catalog) Search(filter models.BrowseFilter, limit int) []*models.Restaurant {
	out := []*models.Restaurant{}
	if limit < 1 {
		return out
	}
	for _, r := range c.restaurants {
		if filter.Matches(r) {
			out = append(out, r)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Cuisines returns the distinct non-empty cuisines strings in first-appearance order.
func (c *Catalog) Cuisines() []string {
	seen := make(map[string]struct{})
	var labels []string
	for _, r := range c.restaurants {
		if r.Cuisines == "" {
			continue
		}
		if _, ok := seen[r.Cuisines]; ok {
			continue
		}
		seen[r.Cuisines] = struct{}{}
		labels = append(labels, r.Cuisines)
	}
	return labels
}
