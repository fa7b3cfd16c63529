package designation

import (
	"reflect"
	"testing"

	osm "github.com/omniscale/go-osm"
)

func TestInferCategoryFromOsmTags(t *testing.T) {
	c := Default()
	for _, tc := range []struct {
		tags osm.Tags
		want string
	}{
		{osm.Tags{"amenity": "bicycle_rental", "repair": "yes"}, "rental"},
		{osm.Tags{"amenity": "bicycle_rental", "shop": "bicycle", "repair": "yes"}, "rental"},
		{osm.Tags{"shop": "tool_hire"}, "rental"},
		{osm.Tags{"service:bicycle:rental": "yes"}, "rental"},
		{osm.Tags{"amenity": "toy_library"}, "rental"},
		{osm.Tags{"craft": "shoemaker"}, "repair"},
		{osm.Tags{"repair": "assisted_self_service"}, "repair"},
		{osm.Tags{"brand": "Repair Café", "amenity": "community_centre"}, "repair"},
		{osm.Tags{"mobile_phone:repair": "yes"}, "repair"},
		{osm.Tags{"service:bicycle:repair": "yes", "shop": "bicycle"}, "repair"},
		{osm.Tags{"computer:repair": "no"}, "reuse"},
		{osm.Tags{"shop": "clothes", "second_hand": "only", "clothes": "women;men"}, "reuse"},
		{osm.Tags{}, "reuse"},
	} {
		if got := c.InferCategoryFromOsmTags(tc.tags); got != tc.want {
			t.Errorf("%v: got %s, want %s", tc.tags, got, tc.want)
		}
	}
}

func TestInferCategoryFromSelectedDesignations(t *testing.T) {
	c := Default()
	for _, tc := range []struct {
		names []string
		want  string
	}{
		{nil, "reuse"},
		{[]string{"nope"}, "reuse"},
		{[]string{"craft-shoemaker"}, "repair"},
		{[]string{"Kvinneklær", "repairs-bicycles", "repairs-shoes"}, "repair"},
		{[]string{"rents-skis", "Sykkelutleie", "Kvinneklær"}, "rental"},
		// ties go to the category declared first: reuse, rental, repair
		{[]string{"repairs-shoes", "rents-skis"}, "rental"},
		{[]string{"repairs-shoes", "Kvinneklær"}, "reuse"},
	} {
		if got := c.InferCategoryFromSelectedDesignations(tc.names); got != tc.want {
			t.Errorf("%v: got %s, want %s", tc.names, got, tc.want)
		}
	}
}

func TestSelectedDesignationsForCategory(t *testing.T) {
	c := Default()
	tags := osm.Tags{"shop": "second_hand", "clothes": "men", "rental": "ski", "shoes:repair": "yes"}

	if got := c.SelectedDesignationsForCategory(tags, "reuse"); !reflect.DeepEqual(got, []string{"Bruktbutikk", "Herreklær"}) {
		t.Error(got)
	}
	if got := c.SelectedDesignationsForCategory(tags, "rental"); !reflect.DeepEqual(got, []string{"rents-skis"}) {
		t.Error(got)
	}
	if got := c.SelectedDesignationsForCategory(tags, "repair"); !reflect.DeepEqual(got, []string{"repairs-shoes"}) {
		t.Error(got)
	}
}

func TestDesignationsForCategory(t *testing.T) {
	c := Default()
	total := 0
	for _, cat := range c.Categories() {
		for _, name := range c.DesignationsForCategory(cat.Name) {
			d, _ := c.Designation(name)
			if d.Category != cat.Name {
				t.Errorf("%s in %s", name, cat.Name)
			}
			total++
		}
	}
	if total != len(c.Names()) {
		t.Fatal(total)
	}
}
