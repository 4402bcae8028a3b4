package quickbooks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	appCenterBase     = "https://appcenter.intuit.com"
	v3SandboxBaseURL  = "https://sandbox-quickbooks.api.intuit.com/v3/company/"
	oauth2TokenURL    = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"
	oauth2RevokeURL   = "https://developer.api.intuit.com/v2/oauth2/tokens/revoke"
	oauth1RequestURL  = "https://oauth.intuit.com/oauth/v1/get_request_token"
	oauth1AccessURL   = "https://oauth.intuit.com/oauth/v1/get_access_token"
	discoverySandbox  = "https://developer.intuit.com/.well-known/openid_sandbox_configuration/"
	discoveryProd     = "https://developer.api.intuit.com/.well-known/openid_configuration/"
)

// EndpointSet is the full set of QuickBooks URLs a client talks to. It is
// resolved once at construction and treated as an immutable value; there is
// no shared mutable endpoint state between clients.
type EndpointSet struct {
	// BaseURL is the company-scoped v3 resource base; RealmID and the
	// resource path are appended per request.
	BaseURL string

	TokenURL         string
	RevokeURL        string
	ReconnectURL     string
	DisconnectURL    string
	UserInfoURL      string
	AuthorizationURL string
	AppCenterURL     string
	RequestTokenURL  string
	AccessTokenURL   string
	DiscoveryURL     string
}

// ResolveEndpoints builds the endpoint set for the sandbox or production
// environment. Production is the sandbox base with the "sandbox-" subdomain
// prefix removed.
func ResolveEndpoints(useSandbox bool) EndpointSet {
	base := v3SandboxBaseURL
	discovery := discoverySandbox
	if !useSandbox {
		base = strings.Replace(base, "sandbox-", "", 1)
		discovery = discoveryProd
	}

	return EndpointSet{
		BaseURL:         base,
		TokenURL:        oauth2TokenURL,
		RevokeURL:       oauth2RevokeURL,
		ReconnectURL:    appCenterBase + "/api/v1/connection/reconnect",
		DisconnectURL:   appCenterBase + "/api/v1/connection/disconnect",
		AppCenterURL:    appCenterBase + "/Connect/Begin?oauth_token=",
		RequestTokenURL: oauth1RequestURL,
		AccessTokenURL:  oauth1AccessURL,
		DiscoveryURL:    discovery,
	}
}

type discoveryDocument struct {
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	RevocationEndpoint    string `json:"revocation_endpoint"`
}

// DiscoverEndpoints fetches the OpenID discovery document and returns a copy
// of the client's endpoint set with the authorization, token, userinfo, and
// revocation URLs overridden. The client's own endpoints are not modified;
// pass the result to WithEndpoints when constructing a client that should
// use the discovered values.
func (c *Client) DiscoverEndpoints(ctx context.Context) (EndpointSet, error) {
	c.logger.Info("Fetching OAuth discovery document", zap.String("url", c.endpoints.DiscoveryURL))

	resp, err := c.httpClient.Get(ctx, c.endpoints.DiscoveryURL, nil)
	if err != nil {
		c.logger.Error("Discovery request failed", zap.Error(err))
		return EndpointSet{}, &TransportError{Err: fmt.Errorf("discovery request failed: %w", err)}
	}
	if resp.StatusCode != 200 {
		return EndpointSet{}, &RemoteFault{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var doc discoveryDocument
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		c.logger.Error("Failed to parse discovery document", zap.Error(err))
		return EndpointSet{}, &ParseError{Expected: "discovery document", Err: err, Body: string(resp.Body)}
	}

	discovered := c.endpoints
	discovered.AuthorizationURL = doc.AuthorizationEndpoint
	discovered.TokenURL = doc.TokenEndpoint
	discovered.UserInfoURL = doc.UserinfoEndpoint
	discovered.RevokeURL = doc.RevocationEndpoint

	c.logger.Info("Discovered OAuth endpoints",
		zap.String("token_endpoint", doc.TokenEndpoint),
		zap.String("userinfo_endpoint", doc.UserinfoEndpoint))

	return discovered, nil
}
