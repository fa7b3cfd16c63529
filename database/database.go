// Package database exports classified venues to a database.
package database

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/fivh-bergen/fivhmap/feature"
)

type Config struct {
	ConnectionParams string
	Schema           string
	Table            string
}

type DB interface {
	// Init creates the schema and table if they do not exist.
	Init() error
	// Import replaces all rows of the table with venues.
	Import(venues []feature.Venue) error
	Close() error
}

var databases = make(map[string]func(Config) (DB, error))

func Register(name string, f func(Config) (DB, error)) {
	databases[name] = f
}

// Open opens the database for the connection type of
// conf.ConnectionParams, e.g. postgis for postgis://localhost/osm.
func Open(conf Config) (DB, error) {
	typ := ConnectionType(conf.ConnectionParams)
	newFunc, ok := databases[typ]
	if !ok {
		return nil, errors.Errorf("unsupported database type: %s", typ)
	}

	db, err := newFunc(conf)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func ConnectionType(param string) string {
	parts := strings.SplitN(param, ":", 2)
	return parts[0]
}

// NullDb discards all venues.
type NullDb struct {
	Imported int
}

func (n *NullDb) Init() error  { return nil }
func (n *NullDb) Close() error { return nil }
func (n *NullDb) Import(venues []feature.Venue) error {
	n.Imported += len(venues)
	return nil
}

func NewNullDb(conf Config) (DB, error) {
	return &NullDb{}, nil
}

func init() {
	Register("null", NewNullDb)
}
