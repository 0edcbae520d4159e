// Package client selects between the anonymous and the authenticated HTTP
// client for a request.
package client

import (
	"context"
	"errors"

	"github.com/kbukum/adminkit/credential"
	"github.com/kbukum/adminkit/httpclient"
	"github.com/kbukum/adminkit/logger"
)

// Source hands out the client for a request's security requirement.
type Source interface {
	Client(secure bool) httpclient.Doer
}

// Selector holds two adapters built from the same configuration. The secure
// one carries the bearer token read when the Selector was built.
type Selector struct {
	public        *httpclient.Adapter
	secure        *httpclient.Adapter
	authenticated bool
}

// New builds a Selector. The token is read from creds exactly once; a
// missing token leaves the secure adapter without auth.
func New(ctx context.Context, cfg httpclient.Config, creds credential.Provider, opts ...httpclient.Option) (*Selector, error) {
	log := logger.Get("client")

	token := ""
	if creds != nil {
		t, err := creds.Token(ctx)
		switch {
		case err == nil:
			token = t
		case errors.Is(err, credential.ErrNoToken):
			log.Debug("no stored credential, secure client is anonymous")
		default:
			return nil, err
		}
	}

	publicCfg := cfg
	publicCfg.Name = "public"
	publicCfg.Auth = nil
	public, err := httpclient.New(publicCfg, opts...)
	if err != nil {
		return nil, err
	}

	secureCfg := cfg
	secureCfg.Name = "secure"
	secureCfg.Auth = nil
	if token != "" {
		secureCfg.Auth = httpclient.BearerAuth(token)
	}
	secure, err := httpclient.New(secureCfg, opts...)
	if err != nil {
		return nil, err
	}

	return &Selector{
		public:        public,
		secure:        secure,
		authenticated: token != "",
	}, nil
}

// Client returns the secure adapter when secure is true, else the public one.
func (s *Selector) Client(secure bool) httpclient.Doer {
	if secure {
		return s.secure
	}
	return s.public
}

// Authenticated reports whether a token was available at construction.
func (s *Selector) Authenticated() bool {
	return s.authenticated
}

// Close releases idle connections of both adapters.
func (s *Selector) Close() {
	s.public.Close()
	s.secure.Close()
}

// Pair is a Source over two fixed Doers.
type Pair struct {
	Public httpclient.Doer
	Secure httpclient.Doer
}

// Client returns Secure when secure is true, else Public.
func (p Pair) Client(secure bool) httpclient.Doer {
	if secure {
		return p.Secure
	}
	return p.Public
}
