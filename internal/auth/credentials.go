package auth

import "sync"

// CredentialStore maps emails to bcrypt hashes. Credentials live beside the
// aggregate state, never inside it: the state machine stays unaware of how
// logins are verified. The table is persisted alongside the aggregate by the
// snapshot adapter.
type CredentialStore struct {
	mu     sync.RWMutex
	hashes map[string]string
}

// NewCredentialStore creates an empty credential table.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{hashes: make(map[string]string)}
}

// Set stores the hash for an email, replacing any prior value.
func (cs *CredentialStore) Set(email, hash string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.hashes[email] = hash
}

// Get returns the stored hash for an email.
func (cs *CredentialStore) Get(email string) (string, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	hash, ok := cs.hashes[email]
	return hash, ok
}

// Snapshot returns a copy of the table for persistence.
func (cs *CredentialStore) Snapshot() map[string]string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make(map[string]string, len(cs.hashes))
	for email, hash := range cs.hashes {
		out[email] = hash
	}
	return out
}

// Restore replaces the table with a persisted copy.
func (cs *CredentialStore) Restore(hashes map[string]string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.hashes = make(map[string]string, len(hashes))
	for email, hash := range hashes {
		cs.hashes[email] = hash
	}
}
