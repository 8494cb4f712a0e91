// Package manifest persists upload queue metadata so a crashed or restarted
// session can show what was staged. Only metadata is stored; image bytes stay
// in memory and entries recovered from the manifest are placeholders.
package manifest

import (
	"encoding/json"
	"fmt"
	"sort"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/dmitrijs2005/motordesk/internal/client/models"
)

var keyPrefix = []byte("image:")

// Store is a write-through manifest backed by badger. Every queue mutation is
// persisted immediately.
type Store struct {
	db *badger.DB
}

func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func key(id string) []byte {
	return append(append([]byte{}, keyPrefix...), id...)
}

// Put writes one image's metadata. The image bytes are excluded by the model's
// JSON tags.
func (s *Store) Put(img *models.StagedImage) error {
	data, err := json.Marshal(img)
	if err != nil {
		return fmt.Errorf("encoding manifest entry: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(img.ID), data)
	})
	if err != nil {
		return fmt.Errorf("writing manifest entry: %w", err)
	}
	return nil
}

// PutAll rewrites a set of entries in one transaction. Used after reordering,
// when positions shift for several images at once.
func (s *Store) PutAll(imgs []*models.StagedImage) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, img := range imgs {
			data, err := json.Marshal(img)
			if err != nil {
				return err
			}
			if err := txn.Set(key(img.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing manifest entries: %w", err)
	}
	return nil
}

func (s *Store) Delete(id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(id))
	})
	if err != nil {
		return fmt.Errorf("deleting manifest entry: %w", err)
	}
	return nil
}

// List returns all stored entries ordered by position.
func (s *Store) List() ([]*models.StagedImage, error) {
	var out []*models.StagedImage

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var img models.StagedImage
				if err := json.Unmarshal(val, &img); err != nil {
					return err
				}
				out = append(out, &img)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// Clear drops every entry, typically after a successful save.
func (s *Store) Clear() error {
	return s.db.DropPrefix(keyPrefix)
}
