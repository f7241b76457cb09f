package journal

import (
	"fmt"

	"github.com/dgraph-io/badger"
	cm "github.com/mosaicnetworks/hashgraph-sdk/src/common"
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/sirupsen/logrus"
)

const (
	entryPrefix = "tx"
)

// BadgerStore implements the Store interface with a Badger database.
type BadgerStore struct {
	db   *badger.DB
	path string
}

// NewBadgerStore opens an existing journal or creates a new one if nothing is
// found in path.
func NewBadgerStore(path string, logger *logrus.Entry) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).
		WithSyncWrites(false).
		WithTruncate(true)

	if logger != nil {
		sub := logger.WithFields(logrus.Fields{"ns": "badger"})
		opts = opts.WithLogger(sub)
	}

	handle, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &BadgerStore{
		db:   handle,
		path: path,
	}, nil
}

//==============================================================================
//Keys

func entryKey(id hapi.TransactionID) []byte {
	return []byte(fmt.Sprintf("%s_%s", entryPrefix, id))
}

//==============================================================================
//Implement the Store interface

// Put implements the Store interface.
func (s *BadgerStore) Put(entry *Entry) error {
	val, err := hapi.Marshal(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(entry.TransactionID), val)
	})
}

// Get implements the Store interface.
func (s *BadgerStore) Get(id hapi.TransactionID) (*Entry, error) {
	var entryBytes []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(id))
		if err != nil {
			return err
		}
		entryBytes, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, mapError(err, "Entry", id.String())
	}

	entry := new(Entry)
	if err := hapi.Unmarshal(entryBytes, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Pending implements the Store interface.
func (s *BadgerStore) Pending() ([]*Entry, error) {
	var res []*Entry

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(entryPrefix + "_")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			v, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			entry := new(Entry)
			if err := hapi.Unmarshal(v, entry); err != nil {
				return err
			}
			if !entry.Resolved() {
				res = append(res, entry)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortBySubmission(res)
	return res, nil
}

// Close implements the Store interface.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// StorePath returns the directory of the database.
func (s *BadgerStore) StorePath() string {
	return s.path
}

func isDBKeyNotFound(err error) bool {
	return err == badger.ErrKeyNotFound
}

func mapError(err error, name, key string) error {
	if err != nil {
		if isDBKeyNotFound(err) {
			return cm.NewStoreErr(name, cm.KeyNotFound, key)
		}
	}
	return err
}
