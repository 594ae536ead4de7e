package loot

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketRecords = []byte("records")
	bucketData    = []byte("data")
)

// BoltStore keeps items and their records in a single bbolt database.
// Locations have the form bolt://<db path>#<id>.
type BoltStore struct {
	db   *bolt.DB
	path string
	mu   sync.RWMutex
	now  func() time.Time
}

// NewBoltStore opens or creates the database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return nil, fmt.Errorf("loot: bolt store needs a db path")
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketRecords, bucketData} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &BoltStore{db: db, path: path, now: time.Now}, nil
}

func (s *BoltStore) Store(_ context.Context, item Item) (string, error) {
	if err := validate(item); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{
		ID:          uuid.NewString(),
		Kind:        item.Kind,
		ContentType: item.ContentType,
		Label:       item.Label,
		CreatedAt:   s.now().UTC(),
		Size:        len(item.Data),
	}
	rec.Location = "bolt://" + s.path + "#" + rec.ID

	err := s.db.Update(func(tx *bolt.Tx) error {
		meta, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if err := tx.Bucket(bucketRecords).Put([]byte(rec.ID), meta); err != nil {
			return err
		}
		return tx.Bucket(bucketData).Put([]byte(rec.ID), item.Data)
	})
	if err != nil {
		return "", fmt.Errorf("loot: store %s: %w", rec.Kind, err)
	}
	return rec.Location, nil
}

// List returns records ordered by creation time.
func (s *BoltStore) List(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRecords).ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshal record %s: %w", string(k), err)
			}
			out = append(out, rec)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("loot: list: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Get returns the stored bytes of a record.
func (s *BoltStore) Get(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketData).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
