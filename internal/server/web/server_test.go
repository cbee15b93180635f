package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmartins/askgate/internal/common"
	"github.com/dmartins/askgate/internal/logging"
	"github.com/dmartins/askgate/internal/server/accounts"
	"github.com/dmartins/askgate/internal/server/ask"
	"github.com/dmartins/askgate/internal/server/auth"
)

type fakeAuth struct {
	loginResult *auth.LoginResult
	loginErr    error

	identity     *auth.Identity
	authorizeErr error

	provisioned  *accounts.Account
	provisionErr error

	lastHeader string
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (*auth.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeAuth) Authorize(_ context.Context, authorization string) (*auth.Identity, error) {
	f.lastHeader = authorization
	if f.authorizeErr != nil {
		return nil, f.authorizeErr
	}
	return f.identity, nil
}

func (f *fakeAuth) ProvisionDefaultAdmin(context.Context) (*accounts.Account, error) {
	if f.provisionErr != nil {
		return nil, f.provisionErr
	}
	return f.provisioned, nil
}

func newTestServer(t *testing.T, fa *fakeAuth) *httptest.Server {
	t.Helper()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := NewServer(":0", logger, fa, ask.NewService(), []string{"http://localhost:5500"})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHandleLogin_Success(t *testing.T) {
	fa := &fakeAuth{loginResult: &auth.LoginResult{
		Token:   "tok-123",
		Account: accounts.Summary{ID: "u1", Username: "alice", Role: "member"},
	}}
	ts := newTestServer(t, fa)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "",
		map[string]string{"login": "alice", "password": "12345678"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "tok-123", body["token"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "u1", user["id"])
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "member", user["role"])
}

func TestHandleLogin_FailureMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "unknown account", err: common.ErrNotFound, wantStatus: http.StatusUnauthorized},
		{name: "wrong password", err: common.ErrBadCredentials, wantStatus: http.StatusUnauthorized},
		{name: "inactive account", err: common.ErrInactive, wantStatus: http.StatusForbidden},
		{name: "store failure", err: common.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, &fakeAuth{loginErr: tc.err})

			resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "",
				map[string]string{"login": "alice", "password": "x"})

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, false, body["ok"])
		})
	}
}

func TestHandleLogin_InvalidBody(t *testing.T) {
	ts := newTestServer(t, &fakeAuth{})

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/auth/login", strings.NewReader("{"))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleCreateAdmin(t *testing.T) {
	t.Run("first call succeeds", func(t *testing.T) {
		ts := newTestServer(t, &fakeAuth{provisioned: &accounts.Account{ID: "a1", Username: "admin"}})

		resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/auth/create-admin", "", nil)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["ok"])
	})

	t.Run("second call conflicts", func(t *testing.T) {
		ts := newTestServer(t, &fakeAuth{provisionErr: common.ErrConflict})

		resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/auth/create-admin", "", nil)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, false, body["ok"])
	})
}

func TestAuthenticateMiddleware(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		ts := newTestServer(t, &fakeAuth{authorizeErr: common.ErrUnauthenticated})

		resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("deactivated account", func(t *testing.T) {
		ts := newTestServer(t, &fakeAuth{authorizeErr: common.ErrForbidden})

		resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", "Bearer tok", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("header is passed through verbatim", func(t *testing.T) {
		fa := &fakeAuth{identity: &auth.Identity{ID: "u1", Username: "alice", Role: "member"}}
		ts := newTestServer(t, fa)

		_, _ = doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", "Bearer tok-xyz", nil)
		assert.Equal(t, "Bearer tok-xyz", fa.lastHeader)
	})
}

func TestHandleMe(t *testing.T) {
	fa := &fakeAuth{identity: &auth.Identity{ID: "u1", Username: "alice", Email: "alice@local", Role: "member"}}
	ts := newTestServer(t, fa)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", "Bearer tok", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]any)
	assert.Equal(t, "u1", user["id"])
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "alice@local", user["email"])
	assert.Equal(t, "member", user["role"])
}

func TestHandleAsk(t *testing.T) {
	fa := &fakeAuth{identity: &auth.Identity{ID: "u1", Username: "alice", Role: "member"}}

	t.Run("plain answer", func(t *testing.T) {
		ts := newTestServer(t, fa)

		resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/ask", "Bearer tok",
			map[string]string{"question": "total sales?"})

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["ok"])
		assert.Nil(t, body["chart"])
	})

	t.Run("chart keyword attaches chart", func(t *testing.T) {
		ts := newTestServer(t, fa)

		resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/ask", "Bearer tok",
			map[string]string{"question": "plot sales by region"})

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotNil(t, body["chart"])
		chart := body["chart"].(map[string]any)
		assert.Equal(t, "bar", chart["type"])
	})

	t.Run("empty question rejected", func(t *testing.T) {
		ts := newTestServer(t, fa)

		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/ask", "Bearer tok",
			map[string]string{"question": "   "})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unauthenticated never reaches the responder", func(t *testing.T) {
		ts := newTestServer(t, &fakeAuth{authorizeErr: common.ErrUnauthenticated})

		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/ask", "",
			map[string]string{"question": "plot sales"})

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
