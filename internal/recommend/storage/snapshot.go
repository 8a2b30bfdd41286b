// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package storage

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/gamescout/internal/recommend"
)

// Key prefixes for BadgerDB storage
const (
	metaKeyPrefix = "snapshot:meta:"
	dataKeyPrefix = "snapshot:data:"
)

// DefaultRetain is the number of snapshots kept when none is configured.
const DefaultRetain = 3

// ErrChecksumMismatch is returned when stored vectors fail verification.
var ErrChecksumMismatch = errors.New("snapshot checksum mismatch")

// Compile-time interface check.
var _ recommend.SnapshotStore = (*Store)(nil)

// Metadata describes one stored snapshot.
type Metadata struct {
	// Key is the catalog fingerprint the vectors were computed for.
	Key string `json:"key"`

	Rows int `json:"rows"`
	Dims int `json:"dims"`

	// Checksum is the SHA-256 of the encoded vector data.
	Checksum string `json:"checksum"`

	// SizeBytes is the encoded vector data size.
	SizeBytes int64 `json:"size_bytes"`

	SavedAt time.Time `json:"saved_at"`
}

// Config configures a snapshot store opened with Open.
type Config struct {
	// Dir is the BadgerDB directory. Ignored when InMemory is set.
	Dir string `koanf:"dir"`

	// InMemory keeps snapshots in memory only.
	InMemory bool `koanf:"in_memory"`

	// Retain is the number of snapshots kept.
	Retain int `koanf:"retain"`
}

// Store implements recommend.SnapshotStore using BadgerDB.
type Store struct {
	db     *badger.DB
	retain int
	owned  bool
}

// NewStore wraps an open database. The caller keeps ownership of db.
func NewStore(db *badger.DB, retain int) *Store {
	if retain < 1 {
		retain = DefaultRetain
	}
	return &Store{db: db, retain: retain}
}

// Open opens a BadgerDB database for snapshots. Close releases it.
func Open(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else if cfg.Dir == "" {
		return nil, errors.New("snapshot dir is required unless in_memory is set")
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	s := NewStore(db, cfg.Retain)
	s.owned = true
	return s, nil
}

// Close closes the database when the store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// SaveVectors stores vectors under key and prunes old snapshots.
func (s *Store) SaveVectors(ctx context.Context, key string, vectors [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, dims, err := encodeVectors(vectors)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(data)
	meta := Metadata{
		Key:       key,
		Rows:      len(vectors),
		Dims:      dims,
		Checksum:  hex.EncodeToString(sum[:]),
		SizeBytes: int64(len(data)),
		SavedAt:   time.Now().UTC(),
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(dataKeyPrefix+key), data); err != nil {
			return fmt.Errorf("set data: %w", err)
		}
		if err := txn.Set([]byte(metaKeyPrefix+key), metaJSON); err != nil {
			return fmt.Errorf("set metadata: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.prune(ctx)
}

// LoadVectors returns the vectors stored under key. found is false when no
// snapshot exists.
func (s *Store) LoadVectors(ctx context.Context, key string) ([][]float32, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var (
		meta    Metadata
		vectors [][]float32
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaKeyPrefix + key))
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		}); err != nil {
			return fmt.Errorf("decode metadata: %w", err)
		}

		item, err = txn.Get([]byte(dataKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			sum := sha256.Sum256(val)
			if hex.EncodeToString(sum[:]) != meta.Checksum {
				return ErrChecksumMismatch
			}
			vectors, err = decodeVectors(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	return vectors, true, nil
}

// List returns the metadata of every stored snapshot, newest first.
func (s *Store) List(ctx context.Context) ([]Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Metadata
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(metaKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var m Metadata
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &m)
			}); err != nil {
				return fmt.Errorf("decode metadata: %w", err)
			}
			out = append(out, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SavedAt.Equal(out[j].SavedAt) {
			return out[i].SavedAt.After(out[j].SavedAt)
		}
		return out[i].Key > out[j].Key
	})
	return out, nil
}

// Delete removes the snapshot stored under key.
func (s *Store) Delete(_ context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, k := range []string{metaKeyPrefix + key, dataKeyPrefix + key} {
			if err := txn.Delete([]byte(k)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete %s: %w", k, err)
			}
		}
		return nil
	})
}

// prune deletes the oldest snapshots beyond the retention count.
func (s *Store) prune(ctx context.Context) error {
	all, err := s.List(ctx)
	if err != nil {
		return err
	}
	for i := s.retain; i < len(all); i++ {
		if err := s.Delete(ctx, all[i].Key); err != nil {
			return err
		}
	}
	return nil
}

func encodeVectors(vectors [][]float32) ([]byte, int, error) {
	dims := 0
	if len(vectors) > 0 {
		dims = len(vectors[0])
	}
	buf := make([]byte, 8+4*len(vectors)*dims)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(vectors)))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(dims))
	off := 8
	for i, v := range vectors {
		if len(v) != dims {
			return nil, 0, fmt.Errorf("vector %d has %d dimensions, want %d", i, len(v), dims)
		}
		for _, x := range v {
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(x))
			off += 4
		}
	}
	return buf, dims, nil
}

func decodeVectors(data []byte) ([][]float32, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("snapshot data too small: %d bytes", len(data))
	}
	rows := int(binary.LittleEndian.Uint32(data[0:4]))
	dims := int(binary.LittleEndian.Uint32(data[4:8]))
	if len(data) != 8+4*rows*dims {
		return nil, fmt.Errorf("snapshot data length %d does not match %dx%d", len(data), rows, dims)
	}
	flat := make([]float32, rows*dims)
	for i := range flat {
		off := 8 + 4*i
		flat[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
	}
	out := make([][]float32, rows)
	for r := range out {
		out[r] = flat[r*dims : (r+1)*dims : (r+1)*dims]
	}
	return out, nil
}
