// Package whoisnet provides a whois.Client implementation that talks to
// whois servers directly over the network, with no external binary required.
package whoisnet

import (
	"context"
	"dropwatch/pkg/serrors"
	"dropwatch/pkg/whois"
	"time"

	likexian "github.com/likexian/whois"
)

// Client performs whois lookups over TCP with its own connection handling.
// It is safe for concurrent use.
type Client struct {
	inner *likexian.Client
}

// New returns a Client whose individual queries are bounded by timeout.
func New(timeout time.Duration) *Client {
	inner := likexian.NewClient()
	if timeout > 0 {
		inner.SetTimeout(timeout)
	}

	return &Client{inner: inner}
}

// Query looks up domain against server and returns the raw response. The
// underlying dial honors the configured timeout rather than ctx; ctx is still
// checked so a cancelled run does not start fresh lookups.
func (c *Client) Query(ctx context.Context, domain string, server string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", serrors.Wrap(serrors.ErrInterrupted, err, "lookup of %s cancelled", domain)
	}

	raw, err := c.inner.Whois(domain, server)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrQueryFailed, err, "lookup of %s against %s failed", domain, server)
	}

	return raw, nil
}

// Ensure Client conforms to the whois.Client interface at compile time.
var _ whois.Client = (*Client)(nil)
