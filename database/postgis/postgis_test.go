package postgis

import (
	"database/sql"
	"os"
	"reflect"
	"strings"
	"testing"

	pq "github.com/lib/pq"
	osm "github.com/omniscale/go-osm"

	"github.com/fivh-bergen/fivhmap/database"
	"github.com/fivh-bergen/fivhmap/feature"
)

func TestConnectionParams(t *testing.T) {
	os.Unsetenv("PGSSLMODE")
	for _, tt := range []struct {
		connection, params, schema, table string
	}{
		{"postgis://localhost/osm", "dbname=osm host=localhost sslmode=disable", "", ""},
		{"postgres://osm.example.org/osm", "dbname=osm host=osm.example.org", "", ""},
		{"postgis://localhost/osm?sslmode=require", "dbname=osm host=localhost sslmode=require", "", ""},
		{"postgis://user@127.0.0.1/osm?schema=fivh&table=venues", "dbname=osm host=127.0.0.1 user=user sslmode=disable", "fivh", "venues"},
	} {
		params, schema, table, err := connectionParams(tt.connection)
		if err != nil {
			t.Errorf("%s: %s", tt.connection, err)
			continue
		}
		if params != tt.params || schema != tt.schema || table != tt.table {
			t.Errorf("%s: %q %q %q", tt.connection, params, schema, table)
		}
	}

	if _, _, _, err := connectionParams("http://localhost"); err == nil {
		t.Error("expected error for http://")
	}
}

func TestHstoreString(t *testing.T) {
	got := hstoreString(map[string]string{"name": `Sko "Foten"`, "addr:city": `C:\`, "shop": "repair"})
	want := `"addr:city"=>"C:\\", "name"=>"Sko \"Foten\"", "shop"=>"repair"`
	if got != want {
		t.Errorf("%s != %s", got, want)
	}
	if hstoreString(nil) != "" {
		t.Error("expected empty hstore")
	}
}

func TestVenueRow(t *testing.T) {
	v := feature.Venue{
		ID:           12,
		Long:         5.32,
		Lat:          60.39,
		Tags:         osm.Tags{"name": "Fikseverksted", "repair": "yes"},
		Designations: []string{"repair-cafe"},
		Category:     "repair",
	}
	row, err := venueRow(&v)
	if err != nil {
		t.Fatal(err)
	}
	if len(row) != len(columns) {
		t.Fatal(row)
	}
	if row[0] != int64(12) || row[1] != nil || row[2] != "Fikseverksted" || row[3] != "repair" {
		t.Error(row)
	}
	if !reflect.DeepEqual(row[4], pq.Array([]string{"repair-cafe"})) {
		t.Error(row[4])
	}
	if row[6] != "SRID=4326;POINT(5.32 60.39)" {
		t.Error(row[6])
	}

	v.Designations = nil
	if _, err := venueRow(&v); err == nil {
		t.Error("expected error without designations")
	}
}

func TestCreateTableSQL(t *testing.T) {
	pg := &PostGIS{Schema: "fivh", Table: "venues"}
	sql := pg.createTableSQL()
	for _, want := range []string{`"fivh"."venues"`, "designations TEXT[]", "GEOMETRY(Point, 4326)"} {
		if !strings.Contains(sql, want) {
			t.Errorf("missing %s in %s", want, sql)
		}
	}
}

func TestImport(t *testing.T) {
	if testing.Short() {
		t.Skip("system test skipped with -test.short")
	}
	db, err := database.Open(database.Config{
		ConnectionParams: "postgis://localhost/fivhtest",
		Schema:           "fivhtest",
	})
	if err != nil {
		t.Skip("no database:", err)
	}
	defer db.Close()
	pg := db.(*PostGIS)

	if err := pg.Init(); err != nil {
		t.Fatal(err)
	}
	venues := []feature.Venue{
		{ID: 1, Version: 3, Long: 5.3, Lat: 60.4, Tags: osm.Tags{"name": "Fretex", "shop": "second_hand"}, Designations: []string{"Bruktbutikk"}, Category: "reuse"},
		{ID: 2, Long: 5.4, Lat: 60.5, Tags: osm.Tags{"amenity": "bicycle_rental"}, Designations: []string{"Sykkelutleie"}, Category: "rental"},
	}
	if err := pg.Import(venues); err != nil {
		t.Fatal(err)
	}
	// second import replaces all rows
	if err := pg.Import(venues[:1]); err != nil {
		t.Fatal(err)
	}

	v, err := pg.Venue(1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v, venues[0]) {
		t.Errorf("%#v != %#v", v, venues[0])
	}
	if _, err := pg.Venue(2); err != sql.ErrNoRows {
		t.Error(err)
	}
}
