// Package keypool provides the rotating credential pool used to spread
// generation requests across multiple API keys and survive per-key rate
// limits.
package keypool

import (
	"errors"
	"strings"
)

// ErrNoCredentials is returned when the pool would be empty after dropping
// blank entries. This is fatal for the run: there is nothing to rotate.
var ErrNoCredentials = errors.New("credential pool cannot be empty")

// Pool is an ordered, cyclable collection of API credentials. Next returns
// credentials in round-robin order, wrapping after the last. The pool is
// read-only after construction.
//
// Pool is not safe for concurrent use. The batch driver runs tasks strictly
// sequentially, so no locking is needed; callers introducing concurrent
// tasks must add synchronization around Next and around the per-task
// TriedSet.
type Pool struct {
	keys []string
	pos  int
}

// New creates a Pool from the given credentials. Blank entries are dropped.
// Returns ErrNoCredentials if no usable credentials remain.
func New(keys []string) (*Pool, error) {
	cleaned := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}

	if len(cleaned) == 0 {
		return nil, ErrNoCredentials
	}

	return &Pool{keys: cleaned}, nil
}

// Next returns the next credential in round-robin order, wrapping around
// after the last one indefinitely.
func (p *Pool) Next() string {
	key := p.keys[p.pos]
	p.pos = (p.pos + 1) % len(p.keys)
	return key
}

// Len returns the number of credentials in the pool.
func (p *Pool) Len() int {
	return len(p.keys)
}

// TriedSet tracks the credentials already tried within the current task
// attempt. It grows monotonically until the pool is exhausted or the task
// succeeds; a cooldown clears it via Reset.
type TriedSet struct {
	seen map[string]struct{}
}

// NewTriedSet returns an empty TriedSet.
func NewTriedSet() *TriedSet {
	return &TriedSet{seen: make(map[string]struct{})}
}

// Mark records that the credential has been tried.
func (t *TriedSet) Mark(key string) {
	t.seen[key] = struct{}{}
}

// Tried reports whether the credential has already been tried. Seeing a
// tried credential again means a full pool rotation has occurred.
func (t *TriedSet) Tried(key string) bool {
	_, ok := t.seen[key]
	return ok
}

// Reset clears the set, typically after an exhaustion cooldown has elapsed.
func (t *TriedSet) Reset() {
	t.seen = make(map[string]struct{})
}

// Size returns the number of distinct credentials tried so far.
func (t *TriedSet) Size() int {
	return len(t.seen)
}
