package main

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
)

const venues = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "id": "node/42",
      "properties": {"name": "Fretex", "shop": "second_hand", "clothes": "women", "fivh:version": 4},
      "geometry": {"type": "Point", "coordinates": [5.32, 60.39]}
    }
  ]
}`

func writeVenues(t *testing.T) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "venues.geojson")
	if err := ioutil.WriteFile(fname, []byte(venues), 0644); err != nil {
		t.Fatal(err)
	}
	return fname
}

func TestTags(t *testing.T) {
	out := &bytes.Buffer{}
	if err := tags([]string{"Kvinneklær;Herreklær", "Bruktbutikk"}, out); err != nil {
		t.Fatal(err)
	}
	want := "clothes=women;men\nshop=second_hand\ncategory=reuse\n"
	if out.String() != want {
		t.Errorf("%q", out.String())
	}

	if err := tags([]string{"unknown"}, out); err == nil {
		t.Error("expected error")
	}
	if err := tags(nil, out); err == nil {
		t.Error("expected error")
	}
}

func TestClassifyGeoJSON(t *testing.T) {
	input := writeVenues(t)
	output := filepath.Join(t.TempDir(), "out.geojson")
	if err := classify([]string{"-quiet", "-o", output, input}, ioutil.Discard); err != nil {
		t.Fatal(err)
	}
	data, err := ioutil.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"fivh:designations":"Bruktbutikk;Kvinneklær"`) {
		t.Error(string(data))
	}
}

func TestForm(t *testing.T) {
	out := &bytes.Buffer{}
	if err := form([]string{"-quiet", "-input", writeVenues(t), "-node", "node/42"}, out); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Fretex (reuse)", "[x] Kvinneklær (Kvinneklær)", "[ ] Herreklær (Herreklær)"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in %s", want, out.String())
		}
	}
}

func TestEditAndPending(t *testing.T) {
	cachedir := t.TempDir()
	input := writeVenues(t)

	out := &bytes.Buffer{}
	err := edit([]string{
		"-quiet", "-cachedir", cachedir,
		"-input", input, "-node", "node/42",
		"-designations", "Herreklær;Barneklær",
		"-website", "https://fretex.no",
	}, out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Updated reuse: Fretex", "added: Herreklær;Barneklær", "removed: Kvinneklær", "website=https://fretex.no"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in %s", want, out.String())
		}
	}

	out.Reset()
	if err := pending([]string{"-quiet", "-cachedir", cachedir}, out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "https://www.openstreetmap.org/node/42 v4 ") || !strings.Contains(out.String(), "created_by=Gjenbruksportalen") {
		t.Error(out.String())
	}

	if err := pending([]string{"-quiet", "-cachedir", cachedir, "-delete", "node/42"}, out); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := pending([]string{"-quiet", "-cachedir", cachedir}, out); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Error(out.String())
	}
}

func TestEditMissingNode(t *testing.T) {
	err := edit([]string{"-quiet", "-cachedir", t.TempDir(), "-input", writeVenues(t), "-node", "node/1"}, ioutil.Discard)
	if err == nil || !strings.Contains(err.Error(), "node/1 not found") {
		t.Error(err)
	}
}

func TestDocs(t *testing.T) {
	out := &bytes.Buffer{}
	if err := docs(nil, out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "| Kvinneklær") {
		t.Error(out.String())
	}
}
