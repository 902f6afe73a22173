// Package testutil provides a fake store backend and helpers shared by the
// client, app and integration tests.
package testutil

import (
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vothnha26/final-sub001/internal/api/client"
)

// MockTokenStore is a mock implementation of the persistent token store.
type MockTokenStore struct {
	mock.Mock
}

// Get mocks the Get method.
func (m *MockTokenStore) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

// NewMockTokenStore returns a store answering Get(authToken) with token and err.
func NewMockTokenStore(t *testing.T, token string, err error) *MockTokenStore {
	t.Helper()
	m := new(MockTokenStore)
	m.On("Get", client.AuthTokenKey).Return(token, err).Maybe()
	return m
}

// PanickingTokenStore panics on every read.
type PanickingTokenStore struct{}

func (PanickingTokenStore) Get(string) (string, error) {
	panic("storage unavailable")
}

// ErrNetworkDown is returned by FailingTransport.
var ErrNetworkDown = errors.New("network is unreachable")

// FailingTransport fails every round trip and counts attempts.
type FailingTransport struct {
	mu       sync.Mutex
	Attempts int
}

func (f *FailingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.Attempts++
	f.mu.Unlock()
	return nil, ErrNetworkDown
}

// RequireHTTPError asserts err is an *HTTPError with the given status.
func RequireHTTPError(t *testing.T, err error, status int) *client.HTTPError {
	t.Helper()
	var httpErr *client.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, status, httpErr.Status)
	return httpErr
}

// RequireJSON asserts p is a JSON payload and returns its value.
func RequireJSON(t *testing.T, p client.Payload) any {
	t.Helper()
	j, ok := p.(client.JSON)
	require.Truef(t, ok, "expected JSON payload, got %T", p)
	return j.Value
}

// RequireText asserts p is a Text payload and returns it.
func RequireText(t *testing.T, p client.Payload) string {
	t.Helper()
	text, ok := p.(client.Text)
	require.Truef(t, ok, "expected Text payload, got %T", p)
	return string(text)
}
