package supersetclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeSuperset struct {
	mu          sync.Mutex
	loginCount  int
	csrfCount   int
	failLogin   bool
	reject401   int
	lastHeaders map[string]http.Header
	lastCookies map[string][]*http.Cookie
	server      *httptest.Server
}

func newFakeSuperset() *fakeSuperset {
	f := &fakeSuperset{
		lastHeaders: map[string]http.Header{},
		lastCookies: map[string][]*http.Cookie{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/security/login", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.loginCount++
		if f.failLogin {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"service-token"}`))
	})
	mux.HandleFunc("/api/v1/security/csrf_token/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.csrfCount++
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "fake-session"})
		_, _ = w.Write([]byte(`{"result":"fake-csrf"}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastHeaders[r.URL.Path] = r.Header.Clone()
		f.lastCookies[r.URL.Path] = r.Cookies()
		if f.reject401 > 0 {
			f.reject401--
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/boom":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		default:
			_, _ = w.Write([]byte(`{"result":[]}`))
		}
	})
	f.server = httptest.NewServer(mux)
	return f
}

func newTestClient(f *fakeSuperset) Provider {
	return NewInstance(f.server.URL, "service", "secret", Options{Timeout: 5 * time.Second})
}

func TestClient(t *testing.T) {
	t.Run(`bearer is cached across requests`, func(t *testing.T) {
		f := newFakeSuperset()
		defer f.server.Close()
		client := newTestClient(f)

		_, err := client.Request(context.TODO(), "GET", "/api/v1/dashboard/", nil)
		require.Nil(t, err)
		_, err = client.Request(context.TODO(), "GET", "/api/v1/dashboard/", nil)
		require.Nil(t, err)
		require.Equal(t, 1, f.loginCount)
		require.Equal(t, "Bearer service-token", f.lastHeaders["/api/v1/dashboard/"].Get("Authorization"))
	})

	t.Run(`expired bearer triggers exactly one new login`, func(t *testing.T) {
		f := newFakeSuperset()
		defer f.server.Close()
		client := NewInstance(f.server.URL, "service", "secret",
			Options{Timeout: 5 * time.Second, TokenTTL: 50 * time.Millisecond})

		_, err := client.Request(context.TODO(), "GET", "/api/v1/dashboard/", nil)
		require.Nil(t, err)
		require.Equal(t, 1, f.loginCount)

		time.Sleep(100 * time.Millisecond)
		_, err = client.Request(context.TODO(), "GET", "/api/v1/dashboard/", nil)
		require.Nil(t, err)
		require.Equal(t, 2, f.loginCount)
	})

	t.Run(`single re-authentication on 401`, func(t *testing.T) {
		f := newFakeSuperset()
		defer f.server.Close()
		client := newTestClient(f)
		f.reject401 = 1

		_, err := client.Request(context.TODO(), "GET", "/api/v1/dashboard/", nil)
		require.Nil(t, err)
		require.Equal(t, 2, f.loginCount)
	})

	t.Run(`second 401 is fatal`, func(t *testing.T) {
		f := newFakeSuperset()
		defer f.server.Close()
		client := newTestClient(f)
		f.reject401 = 2

		_, err := client.Request(context.TODO(), "GET", "/api/v1/dashboard/", nil)
		require.NotNil(t, err)
		authErr := &AuthError{}
		require.True(t, errors.As(err, &authErr))
		require.Equal(t, 2, f.loginCount)
	})

	t.Run(`csrf header and session cookie only on mutating verbs`, func(t *testing.T) {
		f := newFakeSuperset()
		defer f.server.Close()
		client := newTestClient(f)

		_, err := client.Request(context.TODO(), "GET", "/api/v1/dashboard/", nil)
		require.Nil(t, err)
		getHeaders := f.lastHeaders["/api/v1/dashboard/"]
		require.Empty(t, getHeaders.Get("X-CSRFToken"))
		require.Empty(t, f.lastCookies["/api/v1/dashboard/"])
		require.Equal(t, 0, f.csrfCount)

		_, err = client.Request(context.TODO(), "POST", "/api/v1/security/guest_token/", map[string]string{"k": "v"})
		require.Nil(t, err)
		postHeaders := f.lastHeaders["/api/v1/security/guest_token/"]
		require.Equal(t, "fake-csrf", postHeaders.Get("X-CSRFToken"))
		require.Equal(t, f.server.URL, postHeaders.Get("Referer"))
		cookies := f.lastCookies["/api/v1/security/guest_token/"]
		require.Len(t, cookies, 1)
		require.Equal(t, "session", cookies[0].Name)
		require.Equal(t, "fake-session", cookies[0].Value)

		// csrf token is cached too
		_, err = client.Request(context.TODO(), "POST", "/api/v1/security/guest_token/", map[string]string{"k": "v"})
		require.Nil(t, err)
		require.Equal(t, 1, f.csrfCount)
	})

	t.Run(`non-2xx keeps status and body`, func(t *testing.T) {
		f := newFakeSuperset()
		defer f.server.Close()
		client := newTestClient(f)

		_, err := client.Request(context.TODO(), "GET", "/boom", nil)
		require.NotNil(t, err)
		remoteErr := &RemoteError{}
		require.True(t, errors.As(err, &remoteErr))
		require.Equal(t, http.StatusInternalServerError, remoteErr.Status)
		require.Equal(t, "boom", remoteErr.Body)
	})

	t.Run(`login failure`, func(t *testing.T) {
		f := newFakeSuperset()
		defer f.server.Close()
		client := newTestClient(f)
		f.failLogin = true

		_, err := client.Request(context.TODO(), "GET", "/api/v1/dashboard/", nil)
		require.NotNil(t, err)
		authErr := &AuthError{}
		require.True(t, errors.As(err, &authErr))
	})

	t.Run(`empty password rejected before the wire`, func(t *testing.T) {
		f := newFakeSuperset()
		defer f.server.Close()
		client := NewInstance(f.server.URL, "service", "", Options{Timeout: 5 * time.Second})

		_, err := client.Request(context.TODO(), "GET", "/api/v1/dashboard/", nil)
		require.NotNil(t, err)
		authErr := &AuthError{}
		require.True(t, errors.As(err, &authErr))
		require.Equal(t, 0, f.loginCount)
	})
}
