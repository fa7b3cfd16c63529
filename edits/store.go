// Package edits stores designation changes that are not yet uploaded to
// OpenStreetMap.
package edits

import (
	bin "encoding/binary"
	"os"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"

	"github.com/fivh-bergen/fivhmap/edits/binary"
	"github.com/fivh-bergen/fivhmap/log"
)

var ErrNotFound = errors.New("edit not found")

// Store is the outbox of pending edits, keyed by node id. There is at most
// one pending edit per node.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// Open opens or creates the outbox in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating outbox dir %s", dir)
	}
	opts := badger.DefaultOptions(dir)
	opts.Logger = badgerLogger{}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening outbox %s", dir)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Put stores e and replaces any pending edit of the same node. The
// timestamp is set if e has none.
func (s *Store) Put(e *Edit) error {
	if e.ID <= 0 {
		return errors.Errorf("invalid node id %d", e.ID)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now().UTC().Truncate(time.Second)
	}
	data, err := binary.MarshalRecord((*binary.Record)(e))
	if err != nil {
		return errors.Wrapf(err, "encoding edit of node %d", e.ID)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(idToKeyBuf(e.ID), data)
	})
}

// Get returns the pending edit of a node or ErrNotFound.
func (s *Store) Get(id int64) (*Edit, error) {
	var e *Edit
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idToKeyBuf(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			e, err = unmarshalEdit(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns all pending edits ordered by node id.
func (s *Store) List() ([]*Edit, error) {
	var result []*Edit
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				e, err := unmarshalEdit(val)
				if err != nil {
					return errors.Wrapf(err, "decoding edit of node %d", idFromKeyBuf(item.Key()))
				}
				result = append(result, e)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return result, err
}

// Delete removes the pending edit of a node, e.g. after it was uploaded.
func (s *Store) Delete(id int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := idToKeyBuf(id)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

func unmarshalEdit(data []byte) (*Edit, error) {
	r, err := binary.UnmarshalRecord(data)
	if err != nil {
		return nil, err
	}
	return (*Edit)(r), nil
}

// Keys are big endian so that the iterator returns edits ordered by id.
func idToKeyBuf(id int64) []byte {
	b := make([]byte, 8)
	bin.BigEndian.PutUint64(b, uint64(id))
	return b
}

func idFromKeyBuf(buf []byte) int64 {
	return int64(bin.BigEndian.Uint64(buf))
}

type badgerLogger struct{}

func (badgerLogger) Errorf(format string, v ...interface{}) {
	log.Printf("[error] outbox: "+format, v...)
}

func (badgerLogger) Warningf(format string, v ...interface{}) {
	log.Printf("[warn] outbox: "+format, v...)
}

func (badgerLogger) Infof(format string, v ...interface{}) {
	log.Printf("[debug] outbox: "+format, v...)
}

func (badgerLogger) Debugf(format string, v ...interface{}) {
	log.Printf("[debug] outbox: "+format, v...)
}
