package client

import (
	"errors"

	"go.uber.org/zap"

	"github.com/vothnha26/final-sub001/internal/tokenstore"
)

// AuthTokenKey is the persistent store key holding the bearer token.
const AuthTokenKey = "authToken"

// TokenReader is the read side of the persistent token store.
type TokenReader interface {
	Get(key string) (string, error)
}

// SetAuthToken sets the in-memory token used by later requests.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearAuthToken forgets the in-memory token. A stored token, if any, is
// used again afterwards.
func (c *Client) ClearAuthToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// AuthHeader returns {"Authorization": "Bearer <token>"} when a token is
// available in memory or in the store, and an empty map otherwise. Store
// failures yield the empty map.
func (c *Client) AuthHeader() (header map[string]string) {
	header = map[string]string{}
	defer func() {
		if recover() != nil {
			header = map[string]string{}
		}
	}()

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	if token == "" && c.store != nil {
		stored, err := c.store.Get(AuthTokenKey)
		switch {
		case err == nil:
			token = stored
		case !errors.Is(err, tokenstore.ErrNotFound):
			c.log.Debug("token store read failed", zap.Error(err))
		}
	}

	if token != "" {
		header["Authorization"] = "Bearer " + token
	}
	return header
}
