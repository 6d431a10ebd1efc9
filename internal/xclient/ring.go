package xclient

import "sync"

// Credential is one OAuth 1.0a key set.
type Credential struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// Ring rotates through credentials round-robin and counts how many in a row
// have been exhausted since the last success.
type Ring struct {
	mu        sync.Mutex
	creds     []Credential
	idx       int
	exhausted int
}

func NewRing(creds ...Credential) *Ring {
	return &Ring{creds: append([]Credential(nil), creds...)}
}

func (r *Ring) Len() int { return len(r.creds) }

// Current returns the credential in use.
func (r *Ring) Current() Credential {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.creds) == 0 {
		return Credential{}
	}
	return r.creds[r.idx]
}

// Exhaust marks the current credential spent, moves to the next one and
// reports whether every credential is now spent.
func (r *Ring) Exhaust() (all bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.creds) == 0 {
		return true
	}
	r.idx = (r.idx + 1) % len(r.creds)
	r.exhausted++
	return r.exhausted >= len(r.creds)
}

// Reset clears the exhaustion counter, keeping the current position.
func (r *Ring) Reset() {
	r.mu.Lock()
	r.exhausted = 0
	r.mu.Unlock()
}
