// Package localstore is the client-side persistence layer: a small bbolt
// key-value store holding JSON-serialized mirrors of server state. It plays
// the role browser localStorage plays for the web frontend and is treated
// strictly as a cache — loads always reconcile against a fresh server fetch.
package localstore

import (
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Keys persisted by the client state manager.
const (
	KeyCurrentUser  = "currentUser"
	KeyToken        = "token"
	KeyUsers        = "users"
	KeyProducts     = "products"
	KeyTransactions = "transactions"
)

var bucketState = []byte("state")

type Store struct {
	db *bolt.DB
}

// Open creates or opens the store file.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// PutJSON serializes v and stores it under key.
func (s *Store) PutJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Put([]byte(key), data)
	})
}

// GetJSON loads key into v. Returns (false, nil) when the key is absent.
func (s *Store) GetJSON(key string, v interface{}) (bool, error) {
	var data []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketState).Get([]byte(key))
		if raw != nil {
			data = append([]byte(nil), raw...)
		}
		return nil
	}); err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}

// PutString stores a plain string value (the currentUser key).
func (s *Store) PutString(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Put([]byte(key), []byte(value))
	})
}

// GetString loads a plain string value; empty when absent.
func (s *Store) GetString(key string) (string, error) {
	var out string
	err := s.db.View(func(tx *bolt.Tx) error {
		if raw := tx.Bucket(bucketState).Get([]byte(key)); raw != nil {
			out = string(raw)
		}
		return nil
	})
	return out, err
}

// Delete removes a key.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Delete([]byte(key))
	})
}
