package designation

import (
	"sort"

	osm "github.com/omniscale/go-osm"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const groupKeyPrefix = "group:"

// UIGroup is a set of designations that are rendered together. Designations
// of a group that is not MultiValue exclude each other (radio buttons with a
// "none" option), otherwise they can be combined (checkboxes).
type UIGroup struct {
	Key          string
	Label        string
	MultiValue   bool
	Designations []string
}

type bucket struct {
	group *UIGroup
	// order of the named group, named is false for primary key buckets
	order int
	named bool
	first int
}

// GroupDesignationsByConflict groups designations by their designation
// group, or by their primary key if they have no group.
//
// Named groups are sorted by their order and come before primary key
// groups, which keep the order of their first designation in names.
// Designations within a group are sorted by label.
func (c *Catalog) GroupDesignationsByConflict(names []string) ([]UIGroup, error) {
	buckets := make(map[string]*bucket)
	var keys []string
	seen := make(map[string]struct{})

	for i, name := range names {
		d, err := c.Designation(name)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		key, b := c.bucketFor(d, i)
		if existing, ok := buckets[key]; ok {
			b = existing
		} else {
			buckets[key] = b
			keys = append(keys, key)
		}
		b.group.Designations = append(b.group.Designations, d.Name)
	}

	sorted := make([]*bucket, 0, len(keys))
	for _, k := range keys {
		sorted = append(sorted, buckets[k])
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.named != b.named {
			return a.named
		}
		if a.named && a.order != b.order {
			return a.order < b.order
		}
		return a.first < b.first
	})

	col := newCollator()
	result := make([]UIGroup, len(sorted))
	for i, b := range sorted {
		c.sortByLabel(col, b.group.Designations)
		result[i] = *b.group
	}
	return result, nil
}

func (c *Catalog) bucketFor(d *Designation, pos int) (string, *bucket) {
	if g, ok := c.groups[d.Group]; ok {
		key := groupKeyPrefix + g.Name
		return key, &bucket{
			group: &UIGroup{Key: key, Label: g.Label, MultiValue: !g.Singleton},
			order: g.Order,
			named: true,
			first: pos,
		}
	}
	key := d.PrimaryKey()
	return key, &bucket{
		group: &UIGroup{Key: key, Label: c.KeyLabel(key), MultiValue: c.IsMultiValueKey(key)},
		first: pos,
	}
}

// collators are not safe for concurrent use, create one per call
func newCollator() *collate.Collator {
	return collate.New(language.Norwegian)
}

func (c *Catalog) sortByLabel(col *collate.Collator, names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		a, b := c.byName[names[i]], c.byName[names[j]]
		if cmp := col.CompareString(a.Label, b.Label); cmp != 0 {
			return cmp < 0
		}
		return a.Name < b.Name
	})
}

// FormOption is a single designation of an edit form.
type FormOption struct {
	Name     string
	Label    string
	Selected bool
}

// FormGroup is a UIGroup with all its options for an edit form.
type FormGroup struct {
	Key        string
	Label      string
	MultiValue bool
	Options    []FormOption
}

// EditForm returns all editable designations grouped for an edit form.
// Options that are present in tags are selected.
func (c *Catalog) EditForm(tags osm.Tags) []FormGroup {
	var editable []string
	for _, d := range c.designations {
		if d.Editable {
			editable = append(editable, d.Name)
		}
	}
	groups, err := c.GroupDesignationsByConflict(editable)
	if err != nil {
		// names are from the catalog itself
		panic(err)
	}

	selected := make(map[string]struct{})
	for _, name := range c.DesignationsFromTags(tags) {
		selected[name] = struct{}{}
	}

	result := make([]FormGroup, len(groups))
	for i, g := range groups {
		fg := FormGroup{Key: g.Key, Label: g.Label, MultiValue: g.MultiValue}
		for _, name := range g.Designations {
			_, ok := selected[name]
			fg.Options = append(fg.Options, FormOption{
				Name:     name,
				Label:    c.byName[name].Label,
				Selected: ok,
			})
		}
		result[i] = fg
	}
	return result
}
