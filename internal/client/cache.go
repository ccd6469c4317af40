package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/taskcal/taskcal/internal/entity"
)

// Cache is the local mirror of the task collection: one file holding the
// JSON-serialized array, always rewritten whole. It is a best-effort cache,
// never reconciled against the server.
type Cache struct {
	path string
}

// NewCache places the mirror under the XDG data directory.
func NewCache() (*Cache, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "taskcal")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return nil, err
	}

	return NewCacheAt(filepath.Join(appDir, "tasks.json")), nil
}

func NewCacheAt(path string) *Cache {
	return &Cache{path: path}
}

// Load returns the cached collection, or nil when nothing has been cached yet.
func (c *Cache) Load() ([]entity.Task, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var tasks []entity.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Cache) Save(tasks []entity.Task) error {
	if tasks == nil {
		tasks = []entity.Task{}
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, raw, 0644)
}
