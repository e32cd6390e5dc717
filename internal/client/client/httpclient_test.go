package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eurisssow03/wc-helper-sub001/internal/client/models"
	"github.com/eurisssow03/wc-helper-sub001/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func TestIsConnected(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"connected", `{"success":true,"message":"Database connected"}`, true},
		{"case insensitive", `{"success":true,"message":"CONNECTED to primary"}`, true},
		{"disconnected word", `{"success":true,"message":"Database disconnected"}`, false},
		{"success false", `{"success":false,"message":"Database connected"}`, false},
		{"no marker", `{"success":true,"message":"ok"}`, false},
		{"not json", `OK`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConnected([]byte(tt.body)))
		})
	}
}

func TestPing_Connected(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		jsonHandler(http.StatusOK, map[string]any{"success": true, "message": "Database connected"})(w, r)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL + "/")
	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, DefaultHealthPath, gotPath)
}

func TestPing_SoftFailurePayload(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]any{"success": false, "message": "Database unavailable"}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL).Ping(context.Background())
	require.ErrorIs(t, err, common.ErrRemoteUnavailable)
}

func TestPing_Non2xx(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusServiceUnavailable, map[string]any{"success": true, "message": "connected"}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL).Ping(context.Background())
	require.ErrorIs(t, err, common.ErrRemoteUnavailable)
}

func TestPing_CustomPath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", jsonHandler(http.StatusOK, map[string]any{"success": true, "message": "connected"}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	require.NoError(t, NewHTTPClient(srv.URL, WithHealthPath("/status")).Ping(context.Background()))
}

func TestPing_TransportError(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})}

	err := NewHTTPClient("http://remote.invalid", WithHTTPClient(hc)).Ping(context.Background())
	require.ErrorIs(t, err, common.ErrRemoteUnavailable)
}

func TestPing_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := NewHTTPClient(srv.URL).Ping(ctx)
	require.ErrorIs(t, err, common.ErrRemoteUnavailable)
}

func TestLogin_Success(t *testing.T) {
	var got loginRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, DefaultLoginPath, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		jsonHandler(http.StatusOK, map[string]any{
			"success": true,
			"token":   "jwt-token",
			"user":    map[string]any{"id": "u-1", "username": "admin", "role": "admin"},
		})(w, r)
	}))
	defer srv.Close()

	u, err := NewHTTPClient(srv.URL).Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, loginRequest{Username: "admin", Password: "secret"}, got)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "admin", u.Username)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, "jwt-token", u.Token)
}

func TestLogin_Rejected401(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusUnauthorized, map[string]any{"success": false, "message": "account locked"}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).Login(context.Background(), "admin", "x")

	var rae *common.RemoteAuthError
	require.ErrorAs(t, err, &rae)
	assert.Equal(t, "account locked", rae.Reason)
	assert.NotErrorIs(t, err, common.ErrRemoteUnavailable)
}

func TestLogin_SuccessFalseIsRejection(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]any{"success": false, "message": "Invalid username or password"}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).Login(context.Background(), "admin", "x")

	var rae *common.RemoteAuthError
	require.ErrorAs(t, err, &rae)
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusInternalServerError, map[string]any{"success": false, "message": "db down"}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).Login(context.Background(), "admin", "x")
	require.ErrorIs(t, err, common.ErrRemoteUnavailable)
}

func TestLogin_BadBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway</html>"))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).Login(context.Background(), "admin", "x")
	require.ErrorIs(t, err, common.ErrRemoteUnavailable)
}

func TestLogin_MissingUserIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]any{"success": true}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).Login(context.Background(), "admin", "x")
	require.ErrorIs(t, err, common.ErrRemoteUnavailable)
}

func TestLogin_TransportError(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("no route to host")
	})}

	_, err := NewHTTPClient("http://remote.invalid", WithHTTPClient(hc), WithLoginPath("/login")).Login(context.Background(), "a", "b")
	require.ErrorIs(t, err, common.ErrRemoteUnavailable)
}
