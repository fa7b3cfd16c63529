package binary

import (
	"reflect"
	"sort"
	"testing"
	"time"

	osm "github.com/omniscale/go-osm"
)

func TestMarshalRecord(t *testing.T) {
	r := &Record{
		ID:        918579285,
		Version:   3,
		Tags:      osm.Tags{"name": "Fretex", "shop": "second_hand", "clothes": "women;men", "level": "1"},
		Added:     []string{"Kvinneklær", "Herreklær"},
		Removed:   []string{"Barneklær"},
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Comment:   "Updated reuse: Fretex",
	}
	data, err := MarshalRecord(r)
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalRecord(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, r) {
		t.Errorf("%#v != %#v", got, r)
	}
}

func TestMarshalRecordEmpty(t *testing.T) {
	data, err := MarshalRecord(&Record{ID: 1})
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalRecord(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 1 || len(got.Tags) != 0 || !got.Timestamp.IsZero() {
		t.Error(got)
	}
}

func TestTagsAsAndFromArray(t *testing.T) {
	tags := osm.Tags{"name": "foo", "shop": "second_hand", "repair": "yes", "fee": "no"}
	array := tagsAsArray(tags)

	if len(array) != 5 {
		t.Fatal("invalid length", array)
	}

	sort.Strings(array)
	for i, expected := range []string{
		"\x01foo",
		"fee",
		"no",
		string(rune(tagsToCodePoint["shop"]["second_hand"])),
		string(rune(tagsToCodePoint["repair"]["yes"])),
	} {
		if array[i] != expected {
			t.Fatal("invalid value", array, i, expected)
		}
	}

	got, err := tagsFromArray(array)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, tags) {
		t.Fatal("invalid tags", got)
	}
}

func TestCodePoints(t *testing.T) {
	// codepoints are stored in the outbox and should never change
	if c := tagsToCodePoint["shop"]["second_hand"]; c != codepoint('\uE000') {
		t.Fatalf("%x\n", c)
	}
	if c := tagsToCodePoint["repair"]["yes"]; c != codepoint('\uE00C') {
		t.Fatalf("%x\n", c)
	}
	if c := commonKeys["addr:city"]; c != codepoint(9) {
		t.Fatalf("%x\n", c)
	}
}

func TestEscapedKeys(t *testing.T) {
	tags := osm.Tags{"\x0ahighway": "residential", "oneway": "yes", "\ufffd" + "foo": "bar"}
	array := tagsAsArray(tags)
	if len(array) != 6 {
		t.Fatal("invalid length", array)
	}
	got, err := tagsFromArray(array)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, tags) {
		t.Fatal("invalid tags", got)
	}
}

func TestCorruptTags(t *testing.T) {
	for _, arr := range [][]string{
		{"name_without_value"},
		{"\x1fvalue of unknown key"},
		{string(escapeRune) + "key"},
	} {
		if _, err := tagsFromArray(arr); err == nil {
			t.Errorf("expected error for %q", arr)
		}
	}
}
