package binary

// Tags are serialized to an array of interleaved key and value strings.
// Tags that come with most venues (shop=second_hand, repair=yes, etc.) are
// serialized to a single char from the Unicode Private Use Area
// (U+E000-U+F8FF) and the most common keys with variable values (name,
// opening_hours, etc.) to a single ASCII control char (0x01-0x1f) followed
// by the value.
//
// Keys that start with one of these chars are prefixed with escapeRune.

import (
	"unicode/utf8"

	osm "github.com/omniscale/go-osm"
	"github.com/pkg/errors"
)

type codepoint rune
type tag struct {
	Key   string
	Value string
}

var tagsToCodePoint = map[string]map[string]codepoint{}
var codePointToTag = map[codepoint]tag{}

var commonKeys = map[string]codepoint{}
var codePointToCommonKey = map[uint8]string{}
var nextKeyCodePoint = codepoint(1)
var maxKeyCodePoint = codepoint(31)

const minCodePoint = codepoint('\uE000')
const maxCodePoint = codepoint('\uF8FF')

var nextCodePoint = codepoint('\uE000')

const escapeRune = '\ufffd' // unicode replacement char

func addTagCodePoint(key, value string) {
	if nextCodePoint > maxCodePoint {
		panic("all codepoints used!")
	}
	valMap, ok := tagsToCodePoint[key]
	if !ok {
		tagsToCodePoint[key] = map[string]codepoint{value: nextCodePoint}
	} else {
		if _, ok := valMap[value]; ok {
			panic("duplicate entry for tag codepoints: " + key + " " + value)
		}
		valMap[value] = nextCodePoint
	}

	codePointToTag[nextCodePoint] = tag{key, value}
	nextCodePoint++
}

func addCommonKey(key string) {
	if nextKeyCodePoint > maxKeyCodePoint {
		panic("all codepoints used!")
	}
	commonKeys[key] = nextKeyCodePoint
	codePointToCommonKey[uint8(nextKeyCodePoint)] = key
	nextKeyCodePoint++
}

func tagsFromArray(arr []string) (osm.Tags, error) {
	result := make(osm.Tags, len(arr)/2)
	for i := 0; i < len(arr); i++ {
		if r, size := utf8.DecodeRuneInString(arr[i]); size >= 3 {
			if r == escapeRune {
				if len(arr) <= i+1 {
					return nil, errors.Errorf("missing value for key %q", arr[i][size:])
				}
				result[arr[i][size:]] = arr[i+1]
				i++
				continue
			} else if codepoint(r) >= minCodePoint &&
				codepoint(r) < nextCodePoint {
				tag, ok := codePointToTag[codepoint(r)]
				if !ok {
					return nil, errors.Errorf("missing tag for codepoint %U", r)
				}
				result[tag.Key] = tag.Value
				continue
			}
		} else if len(arr[i]) > 0 && arr[i][0] < 32 {
			key, ok := codePointToCommonKey[arr[i][0]]
			if !ok {
				return nil, errors.Errorf("missing key for codepoint %d", arr[i][0])
			}
			result[key] = arr[i][1:]
			continue
		}
		if len(arr) <= i+1 {
			return nil, errors.Errorf("missing value for key %q", arr[i])
		}
		result[arr[i]] = arr[i+1]
		i++
	}
	return result, nil
}

func tagsAsArray(tags osm.Tags) []string {
	if len(tags) == 0 {
		return nil
	}
	result := make([]string, 0, 2*len(tags))
	for key, val := range tags {
		result = appendTag(result, key, val)
	}
	return result
}

func appendTag(arr []string, key, val string) []string {
	if valMap, ok := tagsToCodePoint[key]; ok {
		if codePoint, ok := valMap[val]; ok {
			return append(arr, string(rune(codePoint)))
		}
	}
	if codepoint, ok := commonKeys[key]; ok {
		return append(arr, string(rune(codepoint))+val)
	}
	// escape first char/rune if it is a commonKey/tagCodePoint
	if len(key) > 0 && key[0] < 32 {
		key = string(escapeRune) + key
	} else if r, size := utf8.DecodeRuneInString(key); size >= 3 &&
		((codepoint(r) >= minCodePoint &&
			codepoint(r) <= maxCodePoint) ||
			(r == escapeRune)) {
		key = string(escapeRune) + key
	}
	return append(arr, key, val)
}

func init() {
	//
	// DO NOT EDIT, REMOVE, REORDER ANY OF THE FOLLOWING LINES!
	// Append new entries at the end.
	//

	addCommonKey("name")
	addCommonKey("opening_hours")
	addCommonKey("website")
	addCommonKey("phone")
	addCommonKey("description")
	addCommonKey("addr:street")
	addCommonKey("addr:housenumber")
	addCommonKey("addr:postcode")
	addCommonKey("addr:city")
	addCommonKey("brand")
	addCommonKey("operator")
	addCommonKey("clothes")
	addCommonKey("sells")
	addCommonKey("rental")

	addTagCodePoint("shop", "second_hand")
	addTagCodePoint("shop", "charity")
	addTagCodePoint("shop", "clothes")
	addTagCodePoint("shop", "bicycle")
	addTagCodePoint("shop", "books")
	addTagCodePoint("shop", "furniture")
	addTagCodePoint("shop", "antiques")
	addTagCodePoint("shop", "rental")
	addTagCodePoint("shop", "tool_hire")
	addTagCodePoint("shop", "repair")
	addTagCodePoint("second_hand", "only")
	addTagCodePoint("second_hand", "yes")
	addTagCodePoint("repair", "yes")
	addTagCodePoint("repair", "only")
	addTagCodePoint("repair", "assisted_self_service")
	addTagCodePoint("service:bicycle:repair", "yes")
	addTagCodePoint("service:bicycle:rental", "yes")
	addTagCodePoint("service:bicycle:second_hand", "yes")
	addTagCodePoint("craft", "shoemaker")
	addTagCodePoint("craft", "tailor")
	addTagCodePoint("craft", "electronics_repair")
	addTagCodePoint("amenity", "library")
	addTagCodePoint("amenity", "bicycle_rental")
	addTagCodePoint("amenity", "give_box")
	addTagCodePoint("wheelchair", "yes")
	addTagCodePoint("wheelchair", "no")
	addTagCodePoint("wheelchair", "limited")
	addTagCodePoint("building", "yes")
}
