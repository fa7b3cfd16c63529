// Package binary encodes outbox edits as protobuf messages.
package binary

import (
	"time"

	proto "github.com/gogo/protobuf/proto"
	osm "github.com/omniscale/go-osm"
	"github.com/pkg/errors"
)

// Record is the decoded form of Edit.
type Record struct {
	ID        int64
	Version   int32
	Tags      osm.Tags
	Added     []string
	Removed   []string
	Timestamp time.Time
	Comment   string
}

func MarshalRecord(r *Record) ([]byte, error) {
	m := &Edit{
		Id:      r.ID,
		Version: r.Version,
		Tags:    tagsAsArray(r.Tags),
		Added:   r.Added,
		Removed: r.Removed,
		Comment: r.Comment,
	}
	if !r.Timestamp.IsZero() {
		m.Timestamp = r.Timestamp.Unix()
	}
	return proto.Marshal(m)
}

func UnmarshalRecord(data []byte) (*Record, error) {
	m := &Edit{}
	if err := proto.Unmarshal(data, m); err != nil {
		return nil, err
	}
	tags, err := tagsFromArray(m.Tags)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding tags of node %d", m.Id)
	}
	r := &Record{
		ID:      m.Id,
		Version: m.Version,
		Tags:    tags,
		Added:   m.Added,
		Removed: m.Removed,
		Comment: m.Comment,
	}
	if m.Timestamp != 0 {
		r.Timestamp = time.Unix(m.Timestamp, 0).UTC()
	}
	return r, nil
}
