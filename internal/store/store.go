// Package store owns the embedded relational engine and its durability. The
// engine runs on a private scratch file; the durable copy is a full image of
// the database kept under a single keyval slot, rewritten after every
// mutation.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/genmesh/meshstore/internal/keyval"
	"github.com/genmesh/meshstore/internal/models"
)

// SnapshotKey is the slot holding the serialized database image, encoded as
// a JSON array of byte values.
const SnapshotKey = "3d-store-db"

var ErrNotInitialized = errors.New("store is not initialized")

type Store struct {
	mu      sync.Mutex
	db      *gorm.DB
	kv      *keyval.File
	log     *slog.Logger
	scratch string
}

// Open rehydrates the engine from the persisted snapshot, or creates the
// schema and seed data when no snapshot exists. Schema creation is idempotent
// and a freshly seeded store is persisted before Open returns.
func Open(kv *keyval.File, dataDir string, log *slog.Logger) (*Store, error) {
	scratch := filepath.Join(dataDir, "engine.db")

	// The image is stored as a JSON array of byte values, not base64, to
	// stay readable by earlier builds of the slot file.
	var encoded []int
	found, err := kv.GetInto(SnapshotKey, &encoded)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	if found {
		image := make([]byte, len(encoded))
		for i, b := range encoded {
			image[i] = byte(b)
		}
		if err := os.WriteFile(scratch, image, 0o600); err != nil {
			return nil, fmt.Errorf("rehydrate engine file: %w", err)
		}
	} else if err := os.Remove(scratch); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reset engine file: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(scratch), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open engine: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	s := &Store{db: db, kv: kv, log: log, scratch: scratch}

	if !found {
		if err := s.seed(); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		if err := s.persist(); err != nil {
			return nil, fmt.Errorf("persist seed: %w", err)
		}
		log.Info("store created", "products", len(seedProducts))
	} else {
		log.Info("store rehydrated", "image_bytes", len(encoded))
	}

	return s, nil
}

// Read runs fn against the live engine. A nil store degrades to
// ErrNotInitialized so callers can fall back to empty results.
func (s *Store) Read(fn func(db *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return ErrNotInitialized
	}
	return fn(s.db)
}

// Write runs fn and then persists the full database image, whether or not fn
// succeeded. A failed statement leaves the engine unchanged, so the snapshot
// written afterwards stays consistent.
func (s *Store) Write(fn func(db *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return ErrNotInitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := fn(s.db)
	if perr := s.persist(); perr != nil {
		s.log.Error("snapshot persist failed", "error", perr)
		if err == nil {
			err = perr
		}
	}
	return err
}

// Persist serializes the live engine state and overwrites the snapshot slot.
func (s *Store) Persist() error {
	if s == nil || s.db == nil {
		return ErrNotInitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist()
}

func (s *Store) persist() error {
	tmp := s.scratch + ".snapshot"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reset snapshot file: %w", err)
	}
	if err := s.db.Exec("VACUUM INTO ?", tmp).Error; err != nil {
		return fmt.Errorf("export image: %w", err)
	}
	image, err := os.ReadFile(tmp)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	if err := os.Remove(tmp); err != nil {
		s.log.Warn("snapshot temp file not removed", "error", err)
	}

	// JSON numeric array, matching the persisted layout of earlier builds.
	encoded := make([]int, len(image))
	for i, b := range image {
		encoded[i] = int(b)
	}
	return s.kv.Set(SnapshotKey, encoded)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
