package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"ArenaFighter/internal/domain/models"
	"ArenaFighter/internal/domain/repository"
	"ArenaFighter/pkg/logger"
)

// FileProfileStore keeps one JSON file per lower-cased opponent address
// under a data directory, with an in-memory cache in front. Profiles
// are created lazily, mutated once per completed game, saved right
// after, and never pruned.
//
// Get never returns an error: a missing or corrupt file degrades to a
// fresh empty profile, because a storage fault must never block a
// decision.
type FileProfileStore struct {
	dir string
	log *logger.Logger

	mu    sync.Mutex
	cache map[string]*models.OpponentProfile
}

// NewFileProfileStore creates a store rooted at dir.
func NewFileProfileStore(dir string, log *logger.Logger) *FileProfileStore {
	return &FileProfileStore{
		dir:   dir,
		log:   log,
		cache: make(map[string]*models.OpponentProfile),
	}
}

// Get returns the cached profile for the address, loading it from disk
// on first use. Repeated calls within one process see the same profile
// instance, so mutations are visible before the next Save.
func (s *FileProfileStore) Get(addr string) *models.OpponentProfile {
	key := strings.ToLower(addr)

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.cache[key]; ok {
		return p
	}
	p := s.load(key)
	s.cache[key] = p
	return p
}

func (s *FileProfileStore) load(key string) *models.OpponentProfile {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) && s.log != nil {
			s.log.Warn("profile read failed, starting fresh",
				logger.String("opponent", key), logger.Error(err))
		}
		return models.NewOpponentProfile(key)
	}

	var p models.OpponentProfile
	if err := json.Unmarshal(b, &p); err != nil {
		if s.log != nil {
			s.log.Warn("profile corrupt, starting fresh",
				logger.String("opponent", key), logger.Error(err))
		}
		return models.NewOpponentProfile(key)
	}
	p.Addr = key
	p.Normalize()
	return &p
}

// Save persists one cached profile. Saving an address that was never
// loaded is a no-op.
func (s *FileProfileStore) Save(addr string) error {
	key := strings.ToLower(addr)

	s.mu.Lock()
	p, ok := s.cache[key]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("profile dir: %w", err)
	}
	b, err := p.EncodeJSON()
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", key, err)
	}
	if err := os.WriteFile(s.path(key), b, 0o644); err != nil {
		return fmt.Errorf("write profile %s: %w", key, err)
	}
	return nil
}

// SaveAll persists every cached profile, returning the first error but
// attempting the rest.
func (s *FileProfileStore) SaveAll() error {
	s.mu.Lock()
	keys := make([]string, 0, len(s.cache))
	for k := range s.cache {
		keys = append(keys, k)
	}
	s.mu.Unlock()

	var firstErr error
	for _, k := range keys {
		if err := s.Save(k); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *FileProfileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

var _ repository.ProfileStore = (*FileProfileStore)(nil)
