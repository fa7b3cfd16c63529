// Package postgis exports venues into a PostGIS table.
package postgis

import (
	"database/sql"
	"fmt"
	"strings"

	pq "github.com/lib/pq"
	"github.com/lib/pq/hstore"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"

	"github.com/fivh-bergen/fivhmap/database"
	"github.com/fivh-bergen/fivhmap/feature"
	"github.com/fivh-bergen/fivhmap/log"
)

const (
	DefaultSchema = "public"
	DefaultTable  = "fivh_venues"
	srid          = 4326
)

type SQLError struct {
	query         string
	originalError error
}

func (e *SQLError) Error() string {
	return fmt.Sprintf("SQL Error: %s in query %s", e.originalError.Error(), e.query)
}

type SQLInsertError struct {
	SQLError
	data interface{}
}

func (e *SQLInsertError) Error() string {
	return fmt.Sprintf("SQL Error: %s in query %s (%+v)", e.originalError.Error(), e.query, e.data)
}

type PostGIS struct {
	Db     *sql.DB
	Params string
	Schema string
	Table  string
}

var columns = []string{"id", "version", "name", "category", "designations", "tags", "geometry"}

func (pg *PostGIS) createTableSQL() string {
	return fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS "%s"."%s" (
            id BIGINT PRIMARY KEY,
            version INTEGER,
            name TEXT,
            category TEXT NOT NULL,
            designations TEXT[] NOT NULL,
            tags HSTORE,
            geometry GEOMETRY(Point, %d) NOT NULL
        );`,
		pg.Schema, pg.Table, srid,
	)
}

func (pg *PostGIS) indexSQL() []string {
	return []string{
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS "%s_geom" ON "%s"."%s" USING GIST (geometry)`,
			pg.Table, pg.Schema, pg.Table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS "%s_category" ON "%s"."%s" (category)`,
			pg.Table, pg.Schema, pg.Table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS "%s_designations" ON "%s"."%s" USING GIN (designations)`,
			pg.Table, pg.Schema, pg.Table),
	}
}

func (pg *PostGIS) createSchema() error {
	if pg.Schema == "public" {
		return nil
	}
	sql := fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, pg.Schema)
	if _, err := pg.Db.Exec(sql); err != nil {
		return &SQLError{sql, err}
	}
	return nil
}

// Init creates schema, table and indices. Existing rows are kept.
func (pg *PostGIS) Init() error {
	if err := pg.createSchema(); err != nil {
		return err
	}

	tx, err := pg.Db.Begin()
	if err != nil {
		return err
	}
	defer rollbackIfTx(&tx)

	for _, sql := range append([]string{pg.createTableSQL()}, pg.indexSQL()...) {
		if _, err := tx.Exec(sql); err != nil {
			return &SQLError{sql, err}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	tx = nil
	return nil
}

// Import replaces all rows with venues in a single transaction. Readers
// see the old rows until the import is committed.
func (pg *PostGIS) Import(venues []feature.Venue) error {
	defer log.Step(fmt.Sprintf("Importing %d venues into %s.%s", len(venues), pg.Schema, pg.Table))()

	tx, err := pg.Db.Begin()
	if err != nil {
		return err
	}
	defer rollbackIfTx(&tx)

	truncate := fmt.Sprintf(`TRUNCATE TABLE "%s"."%s"`, pg.Schema, pg.Table)
	if _, err := tx.Exec(truncate); err != nil {
		return &SQLError{truncate, err}
	}

	copySQL := pq.CopyInSchema(pg.Schema, pg.Table, columns...)
	stmt, err := tx.Prepare(copySQL)
	if err != nil {
		return &SQLError{copySQL, err}
	}
	for i := range venues {
		row, err := venueRow(&venues[i])
		if err != nil {
			stmt.Close()
			return err
		}
		if _, err := stmt.Exec(row...); err != nil {
			stmt.Close()
			return &SQLInsertError{SQLError{copySQL, err}, venues[i].ID}
		}
	}
	// flush COPY buffer
	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		return &SQLError{copySQL, err}
	}
	if err := stmt.Close(); err != nil {
		return &SQLError{copySQL, err}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing import")
	}
	tx = nil
	return nil
}

// Venue returns a single imported venue, or sql.ErrNoRows.
func (pg *PostGIS) Venue(id int64) (feature.Venue, error) {
	query := fmt.Sprintf(`SELECT version, category, designations, tags, ST_X(geometry), ST_Y(geometry)
        FROM "%s"."%s" WHERE id = $1`, pg.Schema, pg.Table)

	v := feature.Venue{ID: id}
	var version sql.NullInt64
	h := hstore.Hstore{}
	row := pg.Db.QueryRow(query, id)
	if err := row.Scan(&version, &v.Category, pq.Array(&v.Designations), &h, &v.Long, &v.Lat); err != nil {
		if err == sql.ErrNoRows {
			return v, err
		}
		return v, &SQLError{query, err}
	}
	v.Version = int32(version.Int64)
	v.Tags = make(map[string]string, len(h.Map))
	for k, val := range h.Map {
		if val.Valid {
			v.Tags[k] = val.String
		}
	}
	return v, nil
}

func (pg *PostGIS) Close() error {
	return pg.Db.Close()
}

func venueRow(v *feature.Venue) ([]interface{}, error) {
	if len(v.Designations) == 0 {
		return nil, errors.Errorf("node %d without designations", v.ID)
	}
	var version interface{}
	if v.Version > 0 {
		version = int64(v.Version)
	}
	var name interface{}
	if n, ok := v.Tags["name"]; ok {
		name = n
	}
	return []interface{}{
		v.ID,
		version,
		name,
		v.Category,
		pq.Array(v.Designations),
		hstoreString(v.Tags),
		ewkt(orb.Point{v.Long, v.Lat}),
	}, nil
}

func ewkt(g orb.Geometry) string {
	return fmt.Sprintf("SRID=%d;%s", srid, wkt.MarshalString(g))
}

func New(conf database.Config) (database.DB, error) {
	params, schema, table, err := connectionParams(conf.ConnectionParams)
	if err != nil {
		return nil, err
	}
	pg := &PostGIS{
		Params: params,
		Schema: firstNonEmpty(conf.Schema, schema, DefaultSchema),
		Table:  firstNonEmpty(conf.Table, table, DefaultTable),
	}

	pg.Db, err = sql.Open("postgres", pg.Params)
	if err != nil {
		return nil, err
	}
	if err := pg.Db.Ping(); err != nil {
		pg.Db.Close()
		return nil, errors.Wrap(err, "connecting to database")
	}
	return pg, nil
}

// connectionParams converts a postgres:// or postgis:// URL into lib/pq
// params. schema and table are parsed from the URL query and removed.
func connectionParams(connection string) (params, schema, table string, err error) {
	if strings.HasPrefix(connection, "postgis://") {
		connection = strings.Replace(connection, "postgis", "postgres", 1)
	}

	params, err = pq.ParseURL(connection)
	if err != nil {
		return "", "", "", errors.Wrap(err, "parsing connection")
	}
	params, schema = stripParam(params, "schema")
	params, table = stripParam(params, "table")
	params = disableDefaultSslOnLocalhost(params)
	return params, schema, table, nil
}

func init() {
	database.Register("postgres", New)
	database.Register("postgis", New)
}
