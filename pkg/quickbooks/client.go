// Package quickbooks provides a client for the QuickBooks Online (QBO)
// v3 Accounting REST API.
//
// QuickBooks Online is Intuit's small-business accounting SaaS. Its v3 API
// exposes roughly forty entity types (Invoice, Bill, Payment, Customer,
// Vendor, ...) through a uniform resource scheme: every company-scoped URL
// is rooted at /v3/company/{realmId}, every entity response is wrapped in a
// single-key JSON envelope named after the entity, and updates are guarded
// by an optimistic-concurrency SyncToken.
//
// This package covers:
//   - generic CRUD plus void on any entity name, with envelope unwrapping
//   - batch requests, change-data-capture polling, and SQL-ish queries
//   - PDF retrieval and email delivery for printable entities
//   - multipart file attachment upload with entity linking
//   - OAuth 2.0 bearer auth with token refresh/revoke, and OAuth 1.0a
//     request signing for legacy connections
//
// A Client is scoped to one company realm and one credential set; create
// one client per connected company.
package quickbooks

import (
	"net/http"
	"sync"
	"time"

	"github.com/dghubble/oauth1"
	"go.uber.org/zap"

	"github.com/Excelzn/go-quickbooks/pkg/config"
	httpclient "github.com/Excelzn/go-quickbooks/pkg/http"
	"github.com/Excelzn/go-quickbooks/pkg/tokenstore"
)

// Version is reported in the User-Agent header of every request.
const Version = "1.0.0"

const userAgent = "go-quickbooks: version " + Version

// Client is the QuickBooks Online API client.
//
// All operations are single request/response round trips with no background
// work. The only mutable client state is the token pair, which
// RefreshAccessToken and RevokeAccess change under an internal mutex;
// everything else is read-only after construction, so a Client is safe for
// concurrent use.
type Client struct {
	cfg         *config.Config
	endpoints   EndpointSet
	httpClient  *httpclient.Client
	logger      *zap.Logger
	store       tokenstore.Store
	httpTimeout time.Duration

	// per-call minor version override; empty means the config default
	minorVersion string

	// guards AccessToken, RefreshToken, and RealmID in cfg; shared by
	// pointer so WithMinorVersion copies stay consistent
	tokenMu *sync.RWMutex
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithEndpoints overrides the resolved endpoint set, e.g. with the result
// of DiscoverEndpoints or a test server URL.
func WithEndpoints(endpoints EndpointSet) Option {
	return func(c *Client) {
		c.endpoints = endpoints
	}
}

// WithTokenStore attaches a persistent token store. Successful refreshes
// save the new token pair under the realm id; a successful revoke deletes it.
func WithTokenStore(store tokenstore.Store) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithHTTPTimeout overrides the default 30s transport timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpTimeout = d
	}
}

// New creates a new QuickBooks client with a default production logger.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	logger, _ := zap.NewProduction()
	return NewWithLogger(cfg, logger, opts...)
}

// NewWithLogger creates a new QuickBooks client with a custom logger.
func NewWithLogger(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:       cfg,
		endpoints: ResolveEndpoints(cfg.UseSandbox),
		logger:    logger,
		tokenMu:   &sync.RWMutex{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.OAuthVersion == config.OAuthVersion1 {
		// OAuth 1.0a signs every request; the signing round tripper wraps
		// the base transport so the retry loop still applies.
		oaCfg := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
		token := oauth1.NewToken(cfg.AccessToken, cfg.TokenSecret)
		signing := oaCfg.Client(oauth1.NoContext, token)
		signing.Timeout = c.httpTimeout
		c.httpClient = httpclient.NewClientWithHTTPClient(logger, signing)
	} else if c.httpTimeout != 0 {
		c.httpClient = httpclient.NewClientWithHTTPClient(logger, &http.Client{Timeout: c.httpTimeout})
	} else {
		c.httpClient = httpclient.NewClientWithLogger(logger)
	}

	return c, nil
}

// RealmID returns the company realm the client is bound to; empty after a
// successful RevokeAccess.
func (c *Client) RealmID() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.cfg.RealmID
}

// AccessToken returns the current access token.
func (c *Client) AccessToken() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.cfg.AccessToken
}

// RefreshToken returns the current refresh token.
func (c *Client) RefreshToken() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.cfg.RefreshToken
}

// Endpoints returns the endpoint set the client was constructed with.
func (c *Client) Endpoints() EndpointSet {
	return c.endpoints
}

// WithMinorVersion returns a copy of the client that sends the given API
// minor version instead of the configured default. The copy shares the
// original's credentials, transport, and token state.
func (c *Client) WithMinorVersion(version string) *Client {
	clone := *c
	clone.minorVersion = version
	return &clone
}
