package designation

import (
	osm "github.com/omniscale/go-osm"
)

// DesignationsFromTags returns the names of all designations with at least
// one satisfied definition, in catalog order.
func (c *Catalog) DesignationsFromTags(tags osm.Tags) []string {
	return c.designationsFromPairs(Pairs(tags))
}

func (c *Catalog) designationsFromPairs(pairs []Tag) []string {
	var names []string
	for _, d := range c.designations {
		if d.matchingDefinition(pairs) != nil {
			names = append(names, d.Name)
		}
	}
	return names
}

// HasDesignation returns true if tags satisfy any definition of the
// designation.
func (c *Catalog) HasDesignation(tags osm.Tags, name string) (bool, error) {
	d, err := c.Designation(name)
	if err != nil {
		return false, err
	}
	return d.matchingDefinition(Pairs(tags)) != nil, nil
}

// OsmTagsFromDesignations returns the tags of the primary definitions of
// all designations. Values of multi-value keys are combined, all other keys
// are overwritten by later designations.
func (c *Catalog) OsmTagsFromDesignations(names []string) (osm.Tags, error) {
	tags := make(osm.Tags)
	for _, name := range names {
		d, err := c.Designation(name)
		if err != nil {
			return nil, err
		}
		for _, t := range d.Primary() {
			c.setTag(tags, t)
		}
	}
	return tags, nil
}

// ApplyDesignationChanges returns a copy of existing with the tags for
// removed designations removed and the tags for added designations added.
//
// Removed designations remove the tags of the definition that matches
// existing, not the primary definition. Designations that are not present
// in existing are ignored. Tags of all other designations stay unchanged.
func (c *Catalog) ApplyDesignationChanges(existing osm.Tags, added, removed []string) (osm.Tags, error) {
	for _, name := range append(append([]string{}, added...), removed...) {
		if _, err := c.Designation(name); err != nil {
			return nil, err
		}
	}

	tags := copyTags(existing)
	pairs := Pairs(existing)

	for _, name := range removed {
		def := c.byName[name].matchingDefinition(pairs)
		if def == nil {
			continue
		}
		for _, t := range def {
			c.removeTag(tags, t)
		}
	}

	for _, name := range added {
		for _, t := range c.byName[name].Primary() {
			c.setTag(tags, t)
		}
	}
	return tags, nil
}

func (c *Catalog) setTag(tags osm.Tags, t Tag) {
	if !c.IsMultiValueKey(t.Key) {
		tags[t.Key] = t.Value
		return
	}
	values := SplitTagValues(tags[t.Key])
	if containsString(values, t.Value) {
		return
	}
	tags[t.Key] = JoinTagValues(append(values, t.Value))
}

func (c *Catalog) removeTag(tags osm.Tags, t Tag) {
	if !c.IsMultiValueKey(t.Key) || t.Value == AnyValue {
		delete(tags, t.Key)
		return
	}
	var remaining []string
	for _, v := range SplitTagValues(tags[t.Key]) {
		if v != t.Value {
			remaining = append(remaining, v)
		}
	}
	if len(remaining) == 0 {
		delete(tags, t.Key)
	} else {
		tags[t.Key] = JoinTagValues(remaining)
	}
}

// Diff returns the designations that were added and removed between two
// selections. Both results keep the order of their source.
func Diff(before, after []string) (added, removed []string) {
	for _, name := range after {
		if !containsString(before, name) && !containsString(added, name) {
			added = append(added, name)
		}
	}
	for _, name := range before {
		if !containsString(after, name) && !containsString(removed, name) {
			removed = append(removed, name)
		}
	}
	return added, removed
}
