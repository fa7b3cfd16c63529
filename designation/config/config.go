// Package config contains the raw structure of a designation catalog file.
// The types map one-to-one to the YAML document. Validation and indexing
// happens in package designation.
package config

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

type Catalog struct {
	Categories   []Category    `yaml:"categories"`
	Groups       []Group       `yaml:"groups"`
	Designations []Designation `yaml:"designations"`

	// MultiValueKeys are OSM keys that may hold a ;-separated list of
	// values, e.g. clothes=women;men.
	MultiValueKeys []string          `yaml:"multi_value_keys"`
	KeyLabels      map[string]string `yaml:"key_labels"`
	CategoryRules  []CategoryRule    `yaml:"category_rules"`
	Default        string            `yaml:"default_category"`
}

type Category struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
}

type Group struct {
	Name      string `yaml:"name"`
	Label     string `yaml:"label"`
	Singleton bool   `yaml:"singleton"`
	Order     int    `yaml:"order"`
}

type Designation struct {
	Name        string       `yaml:"name"`
	Label       string       `yaml:"label"`
	Category    string       `yaml:"category"`
	Group       string       `yaml:"group"`
	Editable    *bool        `yaml:"editable"`
	Definitions []Definition `yaml:"definitions"`
}

// CategoryRule assigns Category to all elements with at least one of the
// listed tags. Keys may contain * (e.g. *:repair).
type CategoryRule struct {
	Category string    `yaml:"category"`
	Tags     KeyValues `yaml:"tags"`
}

type Tag struct {
	Key   string
	Value string
}

// Definition is an ordered list of tags. The order of the YAML mapping is
// kept, the first key is the primary key of a designation.
type Definition []Tag

func (d *Definition) UnmarshalYAML(unmarshal func(interface{}) error) error {
	slice := yaml.MapSlice{}
	if err := unmarshal(&slice); err != nil {
		return err
	}
	*d = (*d)[:0]
	for _, item := range slice {
		k, ok := item.Key.(string)
		if !ok {
			return fmt.Errorf("definition key '%v' not a string", item.Key)
		}
		v, err := scalarString(item.Value)
		if err != nil {
			return fmt.Errorf("definition value for '%s': %s", k, err)
		}
		*d = append(*d, Tag{Key: k, Value: v})
	}
	return nil
}

// KeyValues maps keys to a list of values. Like Definition, the order of
// the keys is kept.
type KeyValues []KeyValue

type KeyValue struct {
	Key    string
	Values []string
}

func (kv *KeyValues) UnmarshalYAML(unmarshal func(interface{}) error) error {
	slice := yaml.MapSlice{}
	if err := unmarshal(&slice); err != nil {
		return err
	}
	for _, item := range slice {
		k, ok := item.Key.(string)
		if !ok {
			return fmt.Errorf("mapping key '%v' not a string", item.Key)
		}
		values, ok := item.Value.([]interface{})
		if !ok {
			return fmt.Errorf("mapping values for '%s' not a list", k)
		}
		entry := KeyValue{Key: k}
		for _, v := range values {
			s, err := scalarString(v)
			if err != nil {
				return fmt.Errorf("mapping value for '%s': %s", k, err)
			}
			entry.Values = append(entry.Values, s)
		}
		*kv = append(*kv, entry)
	}
	return nil
}

// scalarString converts YAML scalars to strings. yes/no are parsed as bools
// by YAML 1.1, but are regular string values in OSM.
func scalarString(v interface{}) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case bool:
		if v {
			return "yes", nil
		}
		return "no", nil
	case int, int64, uint64, float64:
		return fmt.Sprint(v), nil
	}
	return "", fmt.Errorf("'%v' not a string", v)
}

func Parse(b []byte) (*Catalog, error) {
	c := Catalog{}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
