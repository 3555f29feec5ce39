package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lta/newsbridge/internal/models"
)

// Store is the local news list collaborator. The merge logic only depends
// on this interface so the file store can be swapped for a real datastore.
type Store interface {
	Load(ctx context.Context) ([]models.NewsItem, error)
	Save(ctx context.Context, items []models.NewsItem) error
}

// FileStore keeps the whole news list in one pretty-printed JSON file.
// Reads and writes cover the entire list; the write goes through a temp
// file and rename so a crash never leaves a half-written list behind.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore prepares a store at path, creating the parent directory.
func NewFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Load reads the full news list. A missing file is an empty list.
func (s *FileStore) Load(ctx context.Context) ([]models.NewsItem, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []models.NewsItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read news file: %w", err)
	}

	var items []models.NewsItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal news list: %w", err)
	}
	return items, nil
}

// Save writes the full news list back.
func (s *FileStore) Save(ctx context.Context, items []models.NewsItem) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if items == nil {
		items = []models.NewsItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal news list: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write news file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace news file: %w", err)
	}
	return nil
}

// FindByWordPressID returns the item carrying wpID, if any. At most one
// item may carry a given WordPress ID.
func FindByWordPressID(items []models.NewsItem, wpID int) (int, bool) {
	if wpID == 0 {
		return -1, false
	}
	for i := range items {
		if items[i].WordPressID == wpID {
			return i, true
		}
	}
	return -1, false
}

// FindByID returns the item with the given local ID, if any.
func FindByID(items []models.NewsItem, id string) (int, bool) {
	for i := range items {
		if items[i].ID == id {
			return i, true
		}
	}
	return -1, false
}
