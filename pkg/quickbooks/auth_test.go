package quickbooks

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Excelzn/go-quickbooks/pkg/tokenstore"
)

func TestRefreshAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth2/v1/tokens/bearer", r.URL.Path)

		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("test-consumer-key:test-consumer-secret"))
		assert.Equal(t, wantAuth, r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "test-refresh-token", r.PostForm.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "new-access", "refresh_token": "new-refresh", "token_type": "bearer", "expires_in": 3600}`))
	}))
	defer server.Close()

	store := tokenstore.NewMemoryStore()
	client := newTestClient(t, server, WithTokenStore(store))

	tokens, err := client.RefreshAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-access", tokens.AccessToken)

	// client state rotated
	assert.Equal(t, "new-access", client.AccessToken())
	assert.Equal(t, "new-refresh", client.RefreshToken())

	// and persisted under the realm
	saved, err := store.Get(context.Background(), testRealmID)
	require.NoError(t, err)
	assert.Equal(t, "new-access", saved.AccessToken)
	assert.Equal(t, "new-refresh", saved.RefreshToken)
}

func TestRefreshAccessTokenRejectedLeavesStateUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_grant"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.RefreshAccessToken(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err), "want AuthError, got %v", err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusBadRequest, authErr.StatusCode)

	assert.Equal(t, "test-access-token", client.AccessToken())
	assert.Equal(t, "test-refresh-token", client.RefreshToken())
}

func TestRefreshAccessTokenWithoutRefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("must not reach the network without a refresh token")
	}))
	defer server.Close()

	client := newTestClient(t, server)
	client.cfg.RefreshToken = ""

	_, err := client.RefreshAccessToken(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestRevokeAccess(t *testing.T) {
	tests := []struct {
		name            string
		useRefreshToken bool
		wantToken       string
	}{
		{"revoke access token", false, "test-access-token"},
		{"revoke refresh token", true, "test-refresh-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v2/oauth2/tokens/revoke", r.URL.Path)
				require.NoError(t, r.ParseForm())
				assert.Equal(t, tt.wantToken, r.PostForm.Get("token"))
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			store := tokenstore.NewMemoryStore()
			require.NoError(t, store.Save(context.Background(), testRealmID, &tokenstore.Tokens{
				AccessToken: "test-access-token", RefreshToken: "test-refresh-token",
			}))

			client := newTestClient(t, server, WithTokenStore(store))
			require.NoError(t, client.RevokeAccess(context.Background(), tt.useRefreshToken))

			// logical session teardown
			assert.Empty(t, client.AccessToken())
			assert.Empty(t, client.RefreshToken())
			assert.Empty(t, client.RealmID())

			_, err := store.Get(context.Background(), testRealmID)
			assert.ErrorIs(t, err, tokenstore.ErrNotFound)
		})
	}
}

func TestRevokeAccessRejectedLeavesStateUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid_token"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	err := client.RevokeAccess(context.Background(), false)
	require.Error(t, err)
	assert.True(t, IsAuthError(err))

	assert.Equal(t, "test-access-token", client.AccessToken())
	assert.Equal(t, testRealmID, client.RealmID())
}

func TestUserInfoUsesAbsoluteURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// out-of-band URL: no company realm prefix
		assert.Equal(t, "/v1/openid_connect/userinfo", r.URL.Path)
		assert.Equal(t, "Bearer test-access-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sub": "abc", "emailVerified": true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	info, err := client.UserInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", info["sub"])
}

func TestReconnect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/connection/reconnect", r.URL.Path)
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(`<ReconnectResponse><ErrorCode>0</ErrorCode><OAuthToken>rotated</OAuthToken></ReconnectResponse>`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	tree, err := client.Reconnect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rotated", tree["OAuthToken"])
}

func TestDisconnectFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(`<PlatformResponse><ErrorCode>270</ErrorCode><ErrorMessage>OAuth Token rejected</ErrorMessage></PlatformResponse>`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.Disconnect(context.Background())
	require.Error(t, err)
	assert.True(t, IsRemoteFault(err))
}

func TestDiscoverEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"authorization_endpoint": "https://appcenter.example.com/connect/oauth2",
			"token_endpoint": "https://oauth.example.com/oauth2/v1/tokens/bearer",
			"userinfo_endpoint": "https://accounts.example.com/v1/openid_connect/userinfo",
			"revocation_endpoint": "https://developer.example.com/v2/oauth2/tokens/revoke"
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	discovered, err := client.DiscoverEndpoints(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "https://oauth.example.com/oauth2/v1/tokens/bearer", discovered.TokenURL)
	assert.Equal(t, "https://accounts.example.com/v1/openid_connect/userinfo", discovered.UserInfoURL)
	// the client's own endpoints are untouched
	assert.NotEqual(t, discovered.TokenURL, client.Endpoints().TokenURL)
}
