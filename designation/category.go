package designation

import (
	"path"

	osm "github.com/omniscale/go-osm"
)

// InferCategoryFromOsmTags returns the category of the first category rule
// with a matching tag, or the default category. Rules are checked in
// catalog order, e.g. a bicycle shop with repair=yes and
// amenity=bicycle_rental is a rental if rental is checked first.
func (c *Catalog) InferCategoryFromOsmTags(tags osm.Tags) string {
	pairs := Pairs(tags)
	for _, r := range c.rules {
		if r.matches(pairs) {
			return r.category
		}
	}
	return c.defaultCategory
}

func (r *categoryRule) matches(pairs []Tag) bool {
	for _, rt := range r.tags {
		for _, p := range pairs {
			if !rt.matchesKey(p.Key) {
				continue
			}
			if containsString(rt.values, p.Value) || containsString(rt.values, AnyValue) {
				return true
			}
		}
	}
	return false
}

func (rt *ruleTag) matchesKey(key string) bool {
	if !rt.glob {
		return rt.key == key
	}
	ok, _ := path.Match(rt.key, key)
	return ok
}

// InferCategoryFromSelectedDesignations returns the category with the most
// designations in names. Ties go to the category declared first. Returns
// the default category if names contains no known designation.
func (c *Catalog) InferCategoryFromSelectedDesignations(names []string) string {
	counts := make(map[string]int, len(c.categories))
	for _, name := range names {
		if d, ok := c.byName[name]; ok {
			counts[d.Category]++
		}
	}

	best, bestCount := c.defaultCategory, 0
	for _, cat := range c.categories {
		if counts[cat.Name] > bestCount {
			best, bestCount = cat.Name, counts[cat.Name]
		}
	}
	return best
}

// DesignationsForCategory returns the names of all designations of a
// category in catalog order.
func (c *Catalog) DesignationsForCategory(category string) []string {
	var names []string
	for _, d := range c.designations {
		if d.Category == category {
			names = append(names, d.Name)
		}
	}
	return names
}

// SelectedDesignationsForCategory returns the designations of a category
// that are present in tags.
func (c *Catalog) SelectedDesignationsForCategory(tags osm.Tags, category string) []string {
	pairs := Pairs(tags)
	var names []string
	for _, d := range c.designations {
		if d.Category == category && d.matchingDefinition(pairs) != nil {
			names = append(names, d.Name)
		}
	}
	return names
}
