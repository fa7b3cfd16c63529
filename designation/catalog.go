package designation

import (
	_ "embed"
	"io/ioutil"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/fivh-bergen/fivhmap/designation/config"
	"github.com/fivh-bergen/fivhmap/log"
)

//go:embed catalog.yml
var defaultCatalogYAML []byte

var defaultCatalog = MustNew(defaultCatalogYAML)

// Default returns the catalog shipped with fivhmap.
func Default() *Catalog {
	return defaultCatalog
}

type Designation struct {
	Name     string
	Label    string
	Category string
	// Group is empty for designations without group.
	Group       string
	Editable    bool
	Definitions []Definition
}

// Primary returns the conventional definition of the designation.
func (d *Designation) Primary() Definition {
	return d.Definitions[0]
}

// PrimaryKey returns the first key of the primary definition.
func (d *Designation) PrimaryKey() string {
	return d.Definitions[0][0].Key
}

// matchingDefinition returns the first definition satisfied by pairs or nil.
func (d *Designation) matchingDefinition(pairs []Tag) Definition {
	for _, def := range d.Definitions {
		if SatisfiesDefinition(pairs, def) {
			return def
		}
	}
	return nil
}

type Group struct {
	Name  string
	Label string
	// Singleton groups allow only one of their designations at a time.
	Singleton bool
	Order     int
}

type Category struct {
	Name  string
	Label string
}

type ruleTag struct {
	key    string
	glob   bool
	values []string
}

type categoryRule struct {
	category string
	tags     []ruleTag
}

// Catalog is an immutable, validated set of designations.
type Catalog struct {
	designations    []*Designation
	byName          map[string]*Designation
	groups          map[string]*Group
	categories      []Category
	multiValueKeys  map[string]struct{}
	keyLabels       map[string]string
	rules           []categoryRule
	defaultCategory string
	managedKeys     []string
}

func FromFile(filename string) (*Catalog, error) {
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	c, err := New(b)
	if err != nil {
		return nil, errors.Wrapf(err, "loading catalog %s", filename)
	}
	return c, nil
}

// New parses and validates a YAML catalog.
func New(b []byte) (*Catalog, error) {
	conf, err := config.Parse(b)
	if err != nil {
		return nil, errors.Wrap(err, "parsing catalog")
	}
	return FromConfig(conf)
}

// MustNew is like New but panics on errors. For catalogs that are part of
// the binary.
func MustNew(b []byte) *Catalog {
	c, err := New(b)
	if err != nil {
		panic(err)
	}
	return c
}

func FromConfig(conf *config.Catalog) (*Catalog, error) {
	c := &Catalog{
		byName:         make(map[string]*Designation),
		groups:         make(map[string]*Group),
		multiValueKeys: make(map[string]struct{}),
		keyLabels:      make(map[string]string),
	}
	verr := &ValidationError{}

	categoryNames := make(map[string]struct{})
	for _, cat := range conf.Categories {
		if cat.Name == "" {
			verr.add("category without name")
			continue
		}
		if _, ok := categoryNames[cat.Name]; ok {
			verr.add("duplicate category %s", cat.Name)
			continue
		}
		categoryNames[cat.Name] = struct{}{}
		label := cat.Label
		if label == "" {
			label = cat.Name
		}
		c.categories = append(c.categories, Category{Name: cat.Name, Label: label})
	}
	if len(c.categories) == 0 {
		verr.add("no categories")
	}

	c.defaultCategory = conf.Default
	if c.defaultCategory == "" && len(c.categories) > 0 {
		c.defaultCategory = c.categories[0].Name
	}
	if _, ok := categoryNames[c.defaultCategory]; !ok && c.defaultCategory != "" {
		verr.add("unknown default_category %s", c.defaultCategory)
	}

	for _, g := range conf.Groups {
		if g.Name == "" {
			verr.add("group without name")
			continue
		}
		if _, ok := c.groups[g.Name]; ok {
			verr.add("duplicate group %s", g.Name)
			continue
		}
		label := g.Label
		if label == "" {
			label = g.Name
		}
		c.groups[g.Name] = &Group{Name: g.Name, Label: label, Singleton: g.Singleton, Order: g.Order}
	}

	for _, k := range conf.MultiValueKeys {
		c.multiValueKeys[k] = struct{}{}
	}
	for k, l := range conf.KeyLabels {
		c.keyLabels[k] = l
	}

	managed := make(map[string]struct{})
	for i, cd := range conf.Designations {
		if cd.Name == "" {
			verr.add("designation #%d without name", i+1)
			continue
		}
		if _, ok := c.byName[cd.Name]; ok {
			verr.add("duplicate designation %s", cd.Name)
			continue
		}
		d := &Designation{
			Name:     cd.Name,
			Label:    cd.Label,
			Category: cd.Category,
			Group:    cd.Group,
			Editable: true,
		}
		if cd.Editable != nil {
			d.Editable = *cd.Editable
		}
		if d.Label == "" {
			log.Printf("[warn] designation %s without label, using name", d.Name)
			d.Label = d.Name
		}
		if _, ok := categoryNames[d.Category]; !ok {
			verr.add("designation %s: unknown category '%s'", d.Name, d.Category)
		}
		if _, ok := c.groups[d.Group]; d.Group != "" && !ok {
			verr.add("designation %s: unknown group '%s'", d.Name, d.Group)
		}
		if len(cd.Definitions) == 0 {
			verr.add("designation %s: no definitions", d.Name)
		}
		for j, cdef := range cd.Definitions {
			if len(cdef) == 0 {
				verr.add("designation %s: definition #%d without tags", d.Name, j+1)
				continue
			}
			def := make(Definition, 0, len(cdef))
			for _, t := range cdef {
				if t.Key == "" || t.Value == "" {
					verr.add("designation %s: definition #%d with empty key or value", d.Name, j+1)
					continue
				}
				if j == 0 && t.Value == AnyValue {
					verr.add("designation %s: primary definition can not use %s for %s", d.Name, AnyValue, t.Key)
				}
				def = append(def, Tag{Key: t.Key, Value: t.Value})
				managed[t.Key] = struct{}{}
			}
			d.Definitions = append(d.Definitions, def)
		}
		c.designations = append(c.designations, d)
		c.byName[d.Name] = d
	}

	for i, r := range conf.CategoryRules {
		if _, ok := categoryNames[r.Category]; !ok {
			verr.add("category rule #%d: unknown category '%s'", i+1, r.Category)
			continue
		}
		rule := categoryRule{category: r.Category}
		for _, kv := range r.Tags {
			glob := strings.Contains(kv.Key, "*")
			if glob {
				if _, err := path.Match(kv.Key, ""); err != nil {
					verr.add("category rule #%d: invalid key pattern '%s'", i+1, kv.Key)
					continue
				}
			}
			rule.tags = append(rule.tags, ruleTag{key: kv.Key, glob: glob, values: kv.Values})
		}
		c.rules = append(c.rules, rule)
	}

	if len(verr.Problems) > 0 {
		return nil, verr
	}

	for k := range managed {
		c.managedKeys = append(c.managedKeys, k)
	}
	sort.Strings(c.managedKeys)
	return c, nil
}

// Designation returns the designation with the given name.
func (c *Catalog) Designation(name string) (*Designation, error) {
	d, ok := c.byName[name]
	if !ok {
		return nil, &DesignationNotFoundError{Name: name}
	}
	return d, nil
}

// Designations returns all designations in catalog order. The returned
// designations must not be modified.
func (c *Catalog) Designations() []*Designation {
	result := make([]*Designation, len(c.designations))
	copy(result, c.designations)
	return result
}

// Names returns the names of all designations in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.designations))
	for i, d := range c.designations {
		names[i] = d.Name
	}
	return names
}

func (c *Catalog) Label(name string) (string, error) {
	d, err := c.Designation(name)
	if err != nil {
		return "", err
	}
	return d.Label, nil
}

// IsEditable returns whether users may toggle the designation.
func (c *Catalog) IsEditable(name string) (bool, error) {
	d, err := c.Designation(name)
	if err != nil {
		return false, err
	}
	return d.Editable, nil
}

func (c *Catalog) PrimaryDefinition(name string) (Definition, error) {
	d, err := c.Designation(name)
	if err != nil {
		return nil, err
	}
	return d.Primary(), nil
}

func (c *Catalog) PrimaryKey(name string) (string, error) {
	d, err := c.Designation(name)
	if err != nil {
		return "", err
	}
	return d.PrimaryKey(), nil
}

func (c *Catalog) Group(name string) (Group, bool) {
	g, ok := c.groups[name]
	if !ok {
		return Group{}, false
	}
	return *g, true
}

// Groups returns all groups sorted by order.
func (c *Catalog) Groups() []Group {
	result := make([]Group, 0, len(c.groups))
	for _, g := range c.groups {
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// Categories returns all categories in declaration order.
func (c *Catalog) Categories() []Category {
	result := make([]Category, len(c.categories))
	copy(result, c.categories)
	return result
}

func (c *Catalog) Category(name string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

func (c *Catalog) DefaultCategory() string {
	return c.defaultCategory
}

// IsMultiValueKey returns true if key may hold multiple ;-separated values.
func (c *Catalog) IsMultiValueKey(key string) bool {
	_, ok := c.multiValueKeys[key]
	return ok
}

// KeyLabel returns the label for an OSM key, or the key itself.
func (c *Catalog) KeyLabel(key string) string {
	if l, ok := c.keyLabels[key]; ok {
		return l
	}
	return key
}

// ManagedKeys returns all keys used by any definition, sorted.
func (c *Catalog) ManagedKeys() []string {
	result := make([]string, len(c.managedKeys))
	copy(result, c.managedKeys)
	return result
}
