package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Version tags the on-disk cache format. Other tooling reads this file, so
// field names and the version tag are stable.
const Version = 1

// DefaultDir is the cache directory used when none is configured.
const DefaultDir = ".ai-lint"

const fileName = "cache.json"

// Entry is one persisted result, keyed by "<rule_id>:<file_path>". It is
// valid only while both stored hashes match the current file content and
// rule prompt.
type Entry struct {
	FileHash   string          `json:"fileHash"`
	PromptHash string          `json:"promptHash"`
	Result     json.RawMessage `json:"result"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// store is the persisted document shape.
type store struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// Cache is a durable, content-addressed store of lint results. The in-memory
// map is written by concurrently-completing jobs, so all access goes through
// a mutex.
type Cache struct {
	path    string
	enabled bool

	mu      sync.Mutex
	entries map[string]Entry
}

// New creates a Cache backed by <dir>/cache.json. If dir is empty, DefaultDir
// is used. A disabled cache misses on every lookup and persists nothing.
func New(enabled bool, dir string) *Cache {
	if dir == "" {
		dir = DefaultDir
	}
	return &Cache{
		path:    filepath.Join(dir, fileName),
		enabled: enabled,
		entries: make(map[string]Entry),
	}
}

// Hash returns the SHA-256 hex digest of content.
func Hash(content string) string {
	h := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", h)
}

// Key builds the persisted entry key for a (rule, file) pair.
func Key(ruleID, filePath string) string {
	return ruleID + ":" + filePath
}

// Load populates the in-memory state from disk. A missing file is an empty
// cache. A corrupt or wrong-version file also degrades to an empty cache;
// the returned error exists only so the caller can warn, the cache itself
// is usable either way.
func (c *Cache) Load() error {
	if !c.enabled {
		return nil
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache file: %w", err)
	}
	var s store
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing cache file: %w", err)
	}
	if s.Version != Version {
		return fmt.Errorf("unsupported cache version %d", s.Version)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = s.Entries
	if c.entries == nil {
		c.entries = make(map[string]Entry)
	}
	return nil
}

// Lookup returns the stored result for the (rule, file) pair only when both
// the file hash and the prompt hash match exactly. Any other condition is a
// miss, never an error.
func (c *Cache) Lookup(ruleID, filePath, fileHash, promptHash string) (json.RawMessage, bool) {
	if !c.enabled {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[Key(ruleID, filePath)]
	if !ok {
		return nil, false
	}
	if entry.FileHash != fileHash || entry.PromptHash != promptHash {
		return nil, false
	}
	return entry.Result, true
}

// Store upserts the entry for the (rule, file) pair, overwriting any prior
// entry and recording a fresh timestamp.
func (c *Cache) Store(ruleID, filePath, fileHash, promptHash string, result any) error {
	if !c.enabled {
		return nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling cache result: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key(ruleID, filePath)] = Entry{
		FileHash:   fileHash,
		PromptHash: promptHash,
		Result:     raw,
		CreatedAt:  time.Now(),
	}
	return nil
}

// Save writes the full in-memory state back to disk, creating the containing
// directory if needed. Called once per run, after all jobs complete.
func (c *Cache) Save() error {
	if !c.enabled {
		return nil
	}
	c.mu.Lock()
	s := store{Version: Version, Entries: c.entries}
	data, err := json.MarshalIndent(s, "", "  ")
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	return os.WriteFile(c.path, data, 0o644)
}

// Clear deletes the persisted store and resets in-memory state. The store
// not existing is not an error.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.mu.Unlock()
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache file: %w", err)
	}
	return nil
}

// Status returns the in-memory entry count and the size of the persisted
// file in bytes (zero if it does not exist).
func (c *Cache) Status() (int, int64) {
	c.mu.Lock()
	count := len(c.entries)
	c.mu.Unlock()
	var size int64
	if info, err := os.Stat(c.path); err == nil {
		size = info.Size()
	}
	return count, size
}

// Path returns the location of the persisted cache file.
func (c *Cache) Path() string {
	return c.path
}

// Enabled reports whether caching is active.
func (c *Cache) Enabled() bool {
	return c.enabled
}
