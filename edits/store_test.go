package edits

import (
	"reflect"
	"testing"
	"time"

	osm "github.com/omniscale/go-osm"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 15, 500, time.UTC) }
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	s := openStore(t)

	if _, err := s.Get(1); err != ErrNotFound {
		t.Fatal(err)
	}

	for _, id := range []int64{300, 5, 70000} {
		e := &Edit{ID: id, Version: 2, Tags: osm.Tags{"name": "x", "repair": "yes"}, Added: []string{"repairs-shoes"}}
		if err := s.Put(e); err != nil {
			t.Fatal(err)
		}
	}

	e, err := s.Get(300)
	if err != nil {
		t.Fatal(err)
	}
	if e.Version != 2 || !reflect.DeepEqual(e.Tags, osm.Tags{"name": "x", "repair": "yes"}) {
		t.Error(e)
	}
	if !e.Timestamp.Equal(time.Date(2024, 5, 1, 12, 30, 15, 0, time.UTC)) {
		t.Error(e.Timestamp)
	}

	// replaces pending edit
	if err := s.Put(&Edit{ID: 300, Version: 3, Comment: "second"}); err != nil {
		t.Fatal(err)
	}

	all, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	var ids []int64
	for _, e := range all {
		ids = append(ids, e.ID)
	}
	if !reflect.DeepEqual(ids, []int64{5, 300, 70000}) {
		t.Fatal(ids)
	}
	if all[1].Comment != "second" || all[1].Version != 3 {
		t.Error(all[1])
	}

	if err := s.Delete(5); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(5); err != ErrNotFound {
		t.Error(err)
	}
	if _, err := s.Get(5); err != ErrNotFound {
		t.Error(err)
	}
}

func TestStoreInvalidID(t *testing.T) {
	s := openStore(t)
	if err := s.Put(&Edit{ID: 0}); err == nil {
		t.Fatal("expected error")
	}
}

func TestStoreReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(&Edit{ID: 9, Tags: osm.Tags{"name": "Fikse"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	e, err := s.Get(9)
	if err != nil {
		t.Fatal(err)
	}
	if e.Tags["name"] != "Fikse" {
		t.Error(e.Tags)
	}
}
