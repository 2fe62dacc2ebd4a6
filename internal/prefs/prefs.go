// Package prefs persists user preferences in a small bbolt database
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// FileName is the database file inside the cache directory
const FileName = "prefs.db"

var bucketName = []byte("preferences")

// ErrClosed is returned when the store has been closed
var ErrClosed = errors.New("preference store is closed")

// Store is a bbolt-backed key/value store for preferences
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the preference database in dir
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize preferences: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the stored value, or "" if the key is absent
func (s *Store) Get(key string) (string, error) {
	if s == nil || s.db == nil {
		return "", ErrClosed
	}

	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		// Bytes are only valid inside the transaction
		value = string(b.Get([]byte(key)))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to read preference %q: %w", key, err)
	}
	return value, nil
}

// Set stores a value
func (s *Store) Set(key, value string) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to save preference %q: %w", key, err)
	}
	return nil
}

// Delete removes a key
func (s *Store) Delete(key string) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// Path returns the database file path
func (s *Store) Path() string {
	if s == nil || s.db == nil {
		return ""
	}
	return s.db.Path()
}

// Close closes the database
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
