// ABOUTME: Charm KV client wrapper for dose tracker storage.
// ABOUTME: Provides thread-safe initialization and automatic cloud sync.
package charm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/harperreed/dose/internal/storage"
)

const (
	// DBName is the Charm KV database holding dose data.
	DBName    = "dose"
	charmHost = "charm.2389.dev"

	CompoundPrefix = "compound:"
	SchedulePrefix = "schedule:"
	DosePrefix     = "dose:"
	ReminderPrefix = "reminder:"
)

// ErrReadOnly is returned by writes while another process holds the lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// Store is the subset of the Charm KV API the client relies on.
// *kv.KV satisfies it.
type Store interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Reset() error
	IsReadOnly() bool
	Close() error
}

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// Client implements storage.Repository on top of Charm KV.
type Client struct {
	kv       Store
	autoSync bool
	mu       sync.RWMutex
}

var _ storage.Repository = (*Client)(nil)

// InitClient initializes the global Charm client.
// Thread-safe; can be called multiple times.
func InitClient() (*Client, error) {
	clientOnce.Do(func() {
		// Set server before opening KV
		if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
			clientErr = err
			return
		}

		db, err := kv.OpenWithDefaultsFallback(DBName)
		if err != nil {
			clientErr = err
			return
		}

		globalClient = NewWithStore(db, true)

		// Pull remote data on startup (skip in read-only mode)
		if !db.IsReadOnly() {
			_ = db.Sync()
		}
	})

	return globalClient, clientErr
}

// NewWithStore wraps an already-open store.
func NewWithStore(store Store, autoSync bool) *Client {
	return &Client{kv: store, autoSync: autoSync}
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// syncIfEnabled calls Sync if autoSync is enabled.
func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// set stores values under their keys and syncs once.
func (c *Client) set(entries map[string][]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}

	for key, data := range entries {
		if err := c.kv.Set([]byte(key), data); err != nil {
			return err
		}
	}
	c.syncIfEnabled()
	return nil
}

// delete removes keys and syncs once. Missing keys are not an error.
func (c *Client) delete(keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}

	for _, key := range keys {
		if err := c.kv.Delete([]byte(key)); err != nil {
			return err
		}
	}
	c.syncIfEnabled()
	return nil
}

// listByPrefix returns all values with keys matching the given prefix.
func (c *Client) listByPrefix(prefix string) ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var results [][]byte
	prefixBytes := []byte(prefix)

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if bytes.HasPrefix(key, prefixBytes) {
			val, err := c.kv.Get(key)
			if err != nil {
				return nil, err
			}
			results = append(results, val)
		}
	}

	return results, nil
}

// keysByPrefix returns every key matching the given prefix.
func (c *Client) keysByPrefix(prefix string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, key := range keys {
		if bytes.HasPrefix(key, []byte(prefix)) {
			matches = append(matches, string(key))
		}
	}
	return matches, nil
}

// resolveKey finds the full key for an ID or unique ID prefix.
func (c *Client) resolveKey(typePrefix, idPrefix string) (string, error) {
	if idPrefix == "" {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, idPrefix)
	}

	keys, err := c.keysByPrefix(typePrefix + idPrefix)
	if err != nil {
		return "", err
	}

	exact := typePrefix + idPrefix
	for _, key := range keys {
		if key == exact {
			return key, nil
		}
	}
	if len(keys) == 0 {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, idPrefix)
	}
	if len(keys) > 1 {
		return "", fmt.Errorf("%w %s: matches multiple records", storage.ErrAmbiguous, idPrefix)
	}
	return keys[0], nil
}

// getByIDPrefix retrieves a single value by ID prefix match.
// Returns error if no match or multiple matches found.
func (c *Client) getByIDPrefix(typePrefix, idPrefix string) ([]byte, error) {
	key, err := c.resolveKey(typePrefix, idPrefix)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Get([]byte(key))
}

// deleteByIDPrefix deletes a record by ID prefix match.
func (c *Client) deleteByIDPrefix(typePrefix, idPrefix string) error {
	key, err := c.resolveKey(typePrefix, idPrefix)
	if err != nil {
		return err
	}
	return c.delete(key)
}

// unmarshalJSON is a helper to unmarshal JSON data.
func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// marshalJSON is a helper to marshal data to JSON.
func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// extractID extracts the ID portion from a prefixed key.
func extractID(key, prefix string) string {
	return strings.TrimPrefix(key, prefix)
}
