package supersetclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	supersetapimodels "budget-portal-backend/models/api/superset"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider is the low-level Superset REST client. It owns the service
// bearer/CSRF tokens and self-heals from an expired token with a single
// re-authentication and retry, so higher-level handlers never deal with 401.
type Provider interface {
	// Request dispatches an authenticated call and returns the raw response
	// body. The bearer header is always attached, CSRF header, Referer and
	// the session cookie only for mutating verbs.
	Request(ctx context.Context, method, path string, body interface{}) ([]byte, error)
	// InvalidateTokens drops the cached bearer and CSRF tokens
	InvalidateTokens()
}

const (
	loginPath     string = "%v/api/v1/security/login"
	csrfTokenPath string = "%v/api/v1/security/csrf_token/"

	loginProvider string = "db"

	accessTokenCacheKey string = "superset-access-token"
	csrfTokenCacheKey   string = "superset-csrf-token"

	// server-side tokens live for an hour, cache for less so a token close
	// to expiry is never handed out
	tokenCacheTTL = 50 * time.Minute

	defaultTimeout = 30 * time.Second
)

type Options struct {
	Timeout  time.Duration
	TokenTTL time.Duration
}

func NewInstance(host, username, password string, opts Options) Provider {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = tokenCacheTTL
	}
	return &impl{
		host:     host,
		username: username,
		password: password,
		tokenTTL: opts.TokenTTL,
		client:   &http.Client{Timeout: opts.Timeout},
		cache:    cache.New(opts.TokenTTL, opts.TokenTTL),
	}
}

type impl struct {
	host     string
	username string
	password string
	tokenTTL time.Duration
	client   *http.Client
	cache    *cache.Cache
}

// csrfState keeps the CSRF token together with the session cookie it was
// issued with, Superset checks both on mutating calls
type csrfState struct {
	token   string
	cookies []*http.Cookie
}

func (i *impl) InvalidateTokens() {
	i.cache.Delete(accessTokenCacheKey)
	i.cache.Delete(csrfTokenCacheKey)
}

func (i *impl) Request(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to serialize request body")
		}
	}
	mutating := isMutating(method)

	// bounded retry: one re-authentication on 401, a second 401 is fatal
	for attempt := 0; ; attempt++ {
		respBody, status, err := i.do(ctx, method, path, payload, mutating)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			i.InvalidateTokens()
			if attempt == 0 {
				log.WithField("path", path).Warn("superset returned 401, re-authenticating")
				continue
			}
			return nil, &AuthError{Msg: "superset rejected refreshed service token"}
		}
		if status < 200 || status > 299 {
			return nil, &RemoteError{Status: status, Body: string(respBody), Msg: "superset request failed"}
		}
		return respBody, nil
	}
}

func (i *impl) do(ctx context.Context, method, path string, payload []byte, mutating bool) (respBody []byte, status int, err error) {
	accessToken, err := i.accessToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, i.host+path, reqBody)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to build superset request")
	}
	req.Header.Add("Authorization", "Bearer "+accessToken)
	req.Header.Add("accept", "application/json")
	req.Header.Add("Content-Type", "application/json")
	if mutating {
		csrf, err := i.csrfToken(ctx, accessToken)
		if err != nil {
			// a stale bearer can surface here first, let the caller's
			// single-retry loop handle it
			var remoteErr *RemoteError
			if errors.As(err, &remoteErr) && remoteErr.Status == http.StatusUnauthorized {
				return nil, http.StatusUnauthorized, nil
			}
			return nil, 0, err
		}
		req.Header.Add("X-CSRFToken", csrf.token)
		req.Header.Add("Referer", i.host)
		for _, cookie := range csrf.cookies {
			req.AddCookie(cookie)
		}
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, 0, &RemoteError{Msg: fmt.Sprintf("superset request failed: %v", err)}
	}
	defer resp.Body.Close()
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &RemoteError{Msg: fmt.Sprintf("failed to read superset response: %v", err)}
	}
	return respBody, resp.StatusCode, nil
}

func (i *impl) accessToken(ctx context.Context) (string, error) {
	if cached, ok := i.cache.Get(accessTokenCacheKey); ok {
		return cached.(string), nil
	}
	token, err := i.login(ctx)
	if err != nil {
		return "", err
	}
	i.cache.Set(accessTokenCacheKey, token, i.tokenTTL)
	return token, nil
}

func (i *impl) login(ctx context.Context) (string, error) {
	if i.password == "" {
		return "", &AuthError{Msg: "superset service account password is not set"}
	}
	loginReq := supersetapimodels.SupersetLoginReq{
		Username: i.username,
		Password: i.password,
		Provider: loginProvider,
		Refresh:  true,
	}
	body, err := json.Marshal(loginReq)
	if err != nil {
		return "", errors.Wrap(err, "failed to serialize superset login request")
	}
	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf(loginPath, i.host), bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to build superset login request")
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("accept", "application/json")
	resp, err := i.client.Do(req)
	if err != nil {
		return "", &RemoteError{Msg: fmt.Sprintf("superset login request failed: %v", err)}
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RemoteError{Msg: fmt.Sprintf("failed to read superset login response: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &AuthError{Msg: fmt.Sprintf("superset login failed, status %d, body: %s", resp.StatusCode, string(respBody))}
	}
	token := supersetapimodels.SupersetLoginResp{}
	if err = json.Unmarshal(respBody, &token); err != nil {
		return "", &ProtocolError{Msg: "failed to decode superset login response"}
	}
	if token.AccessToken == "" {
		return "", &ProtocolError{Msg: "superset login response has no access_token"}
	}
	log.WithField("username", i.username).Info("logged in to superset with service account")
	return token.AccessToken, nil
}

func (i *impl) csrfToken(ctx context.Context, accessToken string) (csrfState, error) {
	if cached, ok := i.cache.Get(csrfTokenCacheKey); ok {
		return cached.(csrfState), nil
	}
	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf(csrfTokenPath, i.host), nil)
	if err != nil {
		return csrfState{}, errors.Wrap(err, "failed to build csrf token request")
	}
	req.Header.Add("Authorization", "Bearer "+accessToken)
	req.Header.Add("accept", "application/json")
	resp, err := i.client.Do(req)
	if err != nil {
		return csrfState{}, &RemoteError{Msg: fmt.Sprintf("csrf token request failed: %v", err)}
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return csrfState{}, &RemoteError{Msg: fmt.Sprintf("failed to read csrf token response: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return csrfState{}, &RemoteError{Status: resp.StatusCode, Body: string(respBody), Msg: "failed to get csrf token"}
	}
	csrfResp := supersetapimodels.CsrfTokenResp{}
	if err = json.Unmarshal(respBody, &csrfResp); err != nil {
		return csrfState{}, &ProtocolError{Msg: "failed to decode csrf token response"}
	}
	if csrfResp.Result == "" {
		return csrfState{}, &ProtocolError{Msg: "csrf token response has no result"}
	}
	state := csrfState{token: csrfResp.Result, cookies: resp.Cookies()}
	i.cache.Set(csrfTokenCacheKey, state, i.tokenTTL)
	return state, nil
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
