package api

import "sync"

// Credentials is the shared bearer-token slot read by every outgoing request.
// The session store owns it and is the only writer.
type Credentials struct {
	mu    sync.RWMutex
	token string
}

// SetToken makes subsequent requests carry "Authorization: Bearer <token>".
// An empty token is equivalent to ClearToken.
func (c *Credentials) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken stops subsequent requests from carrying an Authorization header.
func (c *Credentials) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// Token returns the current bearer token, or "" when unauthenticated.
func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}
