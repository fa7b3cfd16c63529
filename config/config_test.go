package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "config.json")
	if err := ioutil.WriteFile(fname, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return fname
}

func TestParseDefaults(t *testing.T) {
	o := Options{}
	if err := Parse(NewFlagSet("classify", &o), &o, []string{"input.geojson"}); err != nil {
		t.Fatal(err)
	}
	if o.CacheDir != defaultCacheDir || o.CatalogFile != "" || o.Workers != 0 {
		t.Error(o)
	}
}

func TestParseConfigFile(t *testing.T) {
	fname := writeConfig(t, `{
		"catalog": "catalog.yml",
		"cachedir": "/var/lib/fivh",
		"connection": "postgis://localhost/osm",
		"schema": "fivh",
		"workers": 4
	}`)

	o := Options{}
	flags := NewFlagSet("export", &o)
	err := Parse(flags, &o, []string{"-config", fname, "-dbschema", "other", "-quiet", "bergen.osm.pbf"})
	if err != nil {
		t.Fatal(err)
	}
	if o.CatalogFile != "catalog.yml" || o.CacheDir != "/var/lib/fivh" || o.Connection != "postgis://localhost/osm" {
		t.Error(o)
	}
	// command line takes precedence
	if o.Schema != "other" || o.Workers != 4 || !o.Quiet {
		t.Error(o)
	}
	if flags.Arg(0) != "bergen.osm.pbf" {
		t.Error(flags.Args())
	}
}

func TestParseConfigFileErrors(t *testing.T) {
	o := Options{}
	err := Parse(NewFlagSet("export", &o), &o, []string{"-config", writeConfig(t, `{"mapping": "x"}`)})
	if err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Error(err)
	}

	o = Options{}
	err = Parse(NewFlagSet("export", &o), &o, []string{"-config", filepath.Join(os.TempDir(), "missing", "config.json")})
	if err == nil {
		t.Error("expected error for missing config")
	}
}

func TestCheck(t *testing.T) {
	o := Options{RequireConnection: true}
	flags := NewFlagSet("export", &o)
	err := Parse(flags, &o, []string{"-workers", "-1", "-cachedir", ""})
	oerr, ok := err.(*OptionsError)
	if !ok {
		t.Fatal(err)
	}
	if len(oerr.Errors) != 3 {
		t.Error(oerr.Errors)
	}
	if !strings.HasPrefix(err.Error(), "errors in config/options: ") {
		t.Error(err)
	}
}
