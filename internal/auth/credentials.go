package auth

import (
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// CredentialStore maps an employee id to a bcrypt hash. A default hash, when
// set, covers every employee without one of their own, including employees
// added after startup. Keying by id keeps credentials valid across email changes.
type CredentialStore struct {
	mu       sync.RWMutex
	hashes   map[string][]byte
	fallback []byte
	cost     int
}

func NewCredentialStore(cost int) *CredentialStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialStore{hashes: make(map[string][]byte), cost: cost}
}

func normalizeID(id string) string {
	return strings.TrimSpace(id)
}

func (c *CredentialStore) Set(employeeID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.hashes[normalizeID(employeeID)] = hash
	return nil
}

// SetDefault gives every employee without an own password the same one.
// The hash is computed once.
func (c *CredentialStore) SetDefault(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = hash
	return nil
}

// Forget removes the employee's own password; the default, if any, applies again.
func (c *CredentialStore) Forget(employeeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.hashes, normalizeID(employeeID))
}

func (c *CredentialStore) Verify(employeeID, password string) bool {
	id := normalizeID(employeeID)
	if id == "" {
		return false
	}

	c.mu.RLock()
	hash, ok := c.hashes[id]
	if !ok {
		hash = c.fallback
	}
	c.mu.RUnlock()
	if hash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
