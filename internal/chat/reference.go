package chat

import "sync"

// Reference holds the URI of the most recently uploaded PDF. At most one
// reference exists per process; a new upload replaces the old one.
type Reference struct {
	mu  sync.RWMutex
	uri string
}

func (r *Reference) Set(uri string) {
	r.mu.Lock()
	r.uri = uri
	r.mu.Unlock()
}

func (r *Reference) Get() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.uri, r.uri != ""
}

func (r *Reference) Clear() {
	r.Set("")
}
