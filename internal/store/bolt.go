package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"github.com/anicrunch/anicrunch/internal/domain"
)

// Bucket names
var (
	bucketUsers      = []byte("users")
	bucketWatchlists = []byte("watchlists")
)

// userRecord is the stored form of a user
type userRecord struct {
	ID           int64     `msgpack:"id"`
	Username     string    `msgpack:"username"`
	PasswordHash string    `msgpack:"password"`
	CreatedAt    time.Time `msgpack:"created_at"`
}

// BoltStore implements domain.AccountStore using BoltDB.
// With an empty path it runs in memory-only mode.
type BoltStore struct {
	db *bolt.DB
	mu sync.Mutex // Protects memory cache and seq

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
	seq   int64 // id sequence in memory-only mode
}

// NewBoltStore opens (or creates) the store file at path
func NewBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return &BoltStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketUsers, bucketWatchlists} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func cacheKey(bucket []byte, key string) string {
	return string(bucket) + ":" + key
}

// load returns the raw value for key, from memory or disk
func (s *BoltStore) load(bucket []byte, key string) ([]byte, error) {
	ck := cacheKey(bucket, key)

	s.mu.Lock()
	if data, ok := s.cache[ck]; ok {
		s.mu.Unlock()
		return data, nil
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucket).Get([]byte(key)); v != nil {
			data = slices.Clone(v)
		}
		return nil
	})
	if err != nil || data == nil {
		return nil, err
	}

	// Promote to memory cache
	s.mu.Lock()
	if _, ok := s.cache[ck]; !ok {
		s.cache[ck] = data
	}
	s.mu.Unlock()

	return data, nil
}

// update runs a read-modify-write on one key. fn receives the current value
// (nil when absent) and returns the value to store. In memory-only mode the
// store mutex serializes updates; otherwise the bolt write transaction does.
func (s *BoltStore) update(bucket []byte, key string, fn func(cur []byte, nextID func() (int64, error)) ([]byte, error)) error {
	ck := cacheKey(bucket, key)

	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		next, err := fn(s.cache[ck], func() (int64, error) {
			s.seq++
			return s.seq, nil
		})
		if err != nil {
			return err
		}
		s.cache[ck] = next
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		next, err := fn(slices.Clone(b.Get([]byte(key))), func() (int64, error) {
			id, err := tx.Bucket(bucketUsers).NextSequence()
			return int64(id), err
		})
		if err != nil {
			return err
		}
		if err := b.Put([]byte(key), next); err != nil {
			return err
		}

		// Refresh the memory copy while still holding the writer lock
		s.mu.Lock()
		s.cache[ck] = next
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		s.mu.Lock()
		delete(s.cache, ck)
		s.mu.Unlock()
	}
	return err
}

// === Users ===

func (s *BoltStore) CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var created userRecord
	err := s.update(bucketUsers, username, func(cur []byte, nextID func() (int64, error)) ([]byte, error) {
		if cur != nil {
			return nil, domain.ErrUserExists
		}
		id, err := nextID()
		if err != nil {
			return nil, err
		}
		created = userRecord{
			ID:           id,
			Username:     username,
			PasswordHash: passwordHash,
			CreatedAt:    time.Now().UTC(),
		}
		return msgpack.Marshal(&created)
	})
	if err != nil {
		return nil, err
	}
	return created.toDomain(), nil
}

func (s *BoltStore) UserByName(ctx context.Context, username string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.load(bucketUsers, username)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, domain.ErrNotFound
	}

	var rec userRecord
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode user %q: %w", username, err)
	}
	return rec.toDomain(), nil
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

// === Watchlists (key: user id, value: sorted anime ids) ===

func watchlistKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *BoltStore) Watchlist(ctx context.Context, userID int64) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.load(bucketWatchlists, watchlistKey(userID))
	if err != nil {
		return nil, err
	}
	return decodeIDs(data)
}

func (s *BoltStore) AddToWatchlist(ctx context.Context, userID int64, animeID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutateWatchlist(userID, func(ids []int) []int {
		i, found := slices.BinarySearch(ids, animeID)
		if found {
			return ids
		}
		return slices.Insert(ids, i, animeID)
	})
}

func (s *BoltStore) RemoveFromWatchlist(ctx context.Context, userID int64, animeID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mutateWatchlist(userID, func(ids []int) []int {
		i, found := slices.BinarySearch(ids, animeID)
		if !found {
			return ids
		}
		return slices.Delete(ids, i, i+1)
	})
}

func (s *BoltStore) mutateWatchlist(userID int64, fn func([]int) []int) error {
	return s.update(bucketWatchlists, watchlistKey(userID), func(cur []byte, _ func() (int64, error)) ([]byte, error) {
		ids, err := decodeIDs(cur)
		if err != nil {
			return nil, err
		}
		return msgpack.Marshal(fn(ids))
	})
}

func decodeIDs(data []byte) ([]int, error) {
	if data == nil {
		return []int{}, nil
	}
	var ids []int
	if err := msgpack.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode watchlist: %w", err)
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}
