package designation

import (
	"sort"
	"strings"

	osm "github.com/omniscale/go-osm"
)

// AnyValue matches all values of a key.
const AnyValue = "*"

type Tag struct {
	Key   string
	Value string
}

func (t Tag) String() string {
	return t.Key + "=" + t.Value
}

// Definition is a list of tags that all need to be present.
type Definition []Tag

func (d Definition) String() string {
	parts := make([]string, len(d))
	for i, t := range d {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

// SplitTagValues splits a ;-separated OSM value into its values. Values are
// trimmed and empty values are dropped.
func SplitTagValues(raw string) []string {
	var result []string
	for _, p := range strings.Split(raw, ";") {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// JoinTagValues is the inverse of SplitTagValues.
func JoinTagValues(values []string) string {
	return strings.Join(values, ";")
}

// Pairs returns one Tag for each single value of all tags. Pairs are sorted
// by key, values of a key keep their order.
func Pairs(tags osm.Tags) []Tag {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []Tag
	for _, k := range keys {
		for _, v := range SplitTagValues(tags[k]) {
			pairs = append(pairs, Tag{Key: k, Value: v})
		}
	}
	return pairs
}

// SatisfiesDefinition returns true if all tags of the definition are
// present in pairs.
func SatisfiesDefinition(pairs []Tag, def Definition) bool {
	if len(def) == 0 {
		return false
	}
	for _, want := range def {
		if !containsPair(pairs, want) {
			return false
		}
	}
	return true
}

func containsPair(pairs []Tag, want Tag) bool {
	for _, p := range pairs {
		if p.Key == want.Key && (want.Value == AnyValue || p.Value == want.Value) {
			return true
		}
	}
	return false
}

func copyTags(tags osm.Tags) osm.Tags {
	result := make(osm.Tags, len(tags))
	for k, v := range tags {
		result[k] = v
	}
	return result
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
