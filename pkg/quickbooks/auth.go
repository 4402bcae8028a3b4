package quickbooks

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	httpclient "github.com/Excelzn/go-quickbooks/pkg/http"
	"github.com/Excelzn/go-quickbooks/pkg/tokenstore"
)

// TokenResponse is the bearer token payload returned by the OAuth2 token
// endpoint.
type TokenResponse struct {
	AccessToken            string `json:"access_token"`
	RefreshToken           string `json:"refresh_token"`
	TokenType              string `json:"token_type"`
	ExpiresIn              int    `json:"expires_in"`
	XRefreshTokenExpiresIn int    `json:"x_refresh_token_expires_in"`
}

func (c *Client) basicAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.cfg.ConsumerKey+":"+c.cfg.ConsumerSecret))
}

// RefreshAccessToken exchanges the stored refresh token for a new bearer
// token pair. On success the client's access and refresh tokens are
// replaced and, when a token store is configured, persisted under the
// realm id. On failure the stored tokens are left untouched.
func (c *Client) RefreshAccessToken(ctx context.Context) (*TokenResponse, error) {
	c.logger.Info("Refreshing access token")

	c.tokenMu.RLock()
	refreshToken := c.cfg.RefreshToken
	c.tokenMu.RUnlock()
	if refreshToken == "" {
		return nil, &AuthError{Reason: "no refresh token configured"}
	}

	resp, err := c.httpClient.Do(httpclient.RequestOptions{
		Method: http.MethodPost,
		URL:    c.endpoints.TokenURL,
		Headers: map[string]string{
			"Accept":        "application/json",
			"Content-Type":  "application/x-www-form-urlencoded",
			"Authorization": c.basicAuth(),
		},
		Body: url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {refreshToken},
		},
		Context: ctx,
	})
	if err != nil {
		c.logger.Error("Token refresh request failed", zap.Error(err))
		return nil, &AuthError{Reason: "token refresh request failed", Err: err}
	}

	if resp.StatusCode != 200 {
		c.logger.Error("Token refresh rejected",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(resp.Body)))
		return nil, &AuthError{Reason: "token refresh rejected", StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var tokens TokenResponse
	if err := json.Unmarshal(resp.Body, &tokens); err != nil {
		c.logger.Error("Failed to parse token refresh response", zap.Error(err))
		return nil, &AuthError{Reason: "unparseable token refresh response", Err: err, Body: string(resp.Body)}
	}

	c.tokenMu.Lock()
	c.cfg.AccessToken = tokens.AccessToken
	c.cfg.RefreshToken = tokens.RefreshToken
	realmID := c.cfg.RealmID
	c.tokenMu.Unlock()

	if c.store != nil {
		if err := c.store.Save(ctx, realmID, &tokenstore.Tokens{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
		}); err != nil {
			c.logger.Warn("Failed to persist refreshed tokens", zap.Error(err))
		}
	}

	c.logger.Info("Access token refreshed", zap.Int("expires_in", tokens.ExpiresIn))
	return &tokens, nil
}

// RevokeAccess revokes the access token, or the refresh token when
// useRefreshToken is set. On HTTP 200 the client's token pair and realm id
// are cleared (logical session teardown); any other status leaves the
// client state untouched and surfaces the response body.
func (c *Client) RevokeAccess(ctx context.Context, useRefreshToken bool) error {
	c.logger.Info("Revoking access", zap.Bool("use_refresh_token", useRefreshToken))

	c.tokenMu.RLock()
	token := c.cfg.AccessToken
	if useRefreshToken {
		token = c.cfg.RefreshToken
	}
	realmID := c.cfg.RealmID
	c.tokenMu.RUnlock()

	resp, err := c.httpClient.Do(httpclient.RequestOptions{
		Method: http.MethodPost,
		URL:    c.endpoints.RevokeURL,
		Headers: map[string]string{
			"Accept":        "application/json",
			"Content-Type":  "application/x-www-form-urlencoded",
			"Authorization": c.basicAuth(),
		},
		Body:    url.Values{"token": {token}},
		Context: ctx,
	})
	if err != nil {
		c.logger.Error("Revoke request failed", zap.Error(err))
		return &AuthError{Reason: "revoke request failed", Err: err}
	}

	if resp.StatusCode != 200 {
		c.logger.Error("Revoke rejected",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(resp.Body)))
		return &AuthError{Reason: "revoke rejected", StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	c.tokenMu.Lock()
	c.cfg.AccessToken = ""
	c.cfg.RefreshToken = ""
	c.cfg.RealmID = ""
	c.tokenMu.Unlock()

	if c.store != nil {
		if err := c.store.Delete(ctx, realmID); err != nil {
			c.logger.Warn("Failed to delete stored tokens", zap.Error(err))
		}
	}

	c.logger.Info("Access revoked")
	return nil
}

// UserInfo fetches the OpenID user info for the connected user. Requires an
// endpoint set with a discovered UserInfoURL.
func (c *Client) UserInfo(ctx context.Context) (Entity, error) {
	c.logger.Info("Getting user info")
	if c.endpoints.UserInfoURL == "" {
		return nil, &ValidationError{Reason: "no user info endpoint; run endpoint discovery first"}
	}

	resp, err := c.do(ctx, requestSpec{method: http.MethodGet, path: c.endpoints.UserInfoURL})
	if err != nil {
		return nil, err
	}
	return c.decodeRaw(resp)
}

// Reconnect renews an OAuth 1.0a connection through the app-center platform
// API. The response is XML; a zero ErrorCode means the connection was
// renewed and a fresh token pair is present in the tree.
func (c *Client) Reconnect(ctx context.Context) (Entity, error) {
	c.logger.Info("Reconnecting platform connection")
	return c.xmlCall(ctx, c.endpoints.ReconnectURL, "ReconnectResponse")
}

// Disconnect tears down an OAuth 1.0a connection through the app-center
// platform API.
func (c *Client) Disconnect(ctx context.Context) (Entity, error) {
	c.logger.Info("Disconnecting platform connection")
	return c.xmlCall(ctx, c.endpoints.DisconnectURL, "PlatformResponse")
}

func (c *Client) xmlCall(ctx context.Context, absoluteURL, rootTag string) (Entity, error) {
	resp, err := c.do(ctx, requestSpec{method: http.MethodGet, path: absoluteURL})
	if err != nil {
		return nil, err
	}
	return c.decodeXML(resp, rootTag)
}
