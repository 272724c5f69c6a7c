package services

import "sync"

// CredentialStore resolves the Gemini API key for the process. An
// environment-injected key always wins and can never be overridden by a
// visitor-supplied one; the visitor key lives until the process exits or
// a later Set replaces it.
type CredentialStore struct {
	mu      sync.RWMutex
	envKey  string
	userKey string
}

func NewCredentialStore(envKey string) *CredentialStore {
	return &CredentialStore{envKey: envKey}
}

// Resolve returns the active key, preferring the environment-injected one.
func (c *CredentialStore) Resolve() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.envKey != "" {
		return c.envKey, true
	}
	if c.userKey != "" {
		return c.userKey, true
	}
	return "", false
}

// Set stores a visitor-supplied key for the remainder of the process
// lifetime. It has no effect on the environment-injected key.
func (c *CredentialStore) Set(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userKey = token
}

// Source reports where the active key came from: "environment", "user",
// or "none". The frontend uses this to decide whether to show its own
// key-entry affordance.
func (c *CredentialStore) Source() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.envKey != "":
		return "environment"
	case c.userKey != "":
		return "user"
	default:
		return "none"
	}
}
