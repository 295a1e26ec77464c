// Package whoisexec provides a whois.Client implementation backed by the
// system whois binary.
package whoisexec

import (
	"bytes"
	"context"
	"dropwatch/pkg/serrors"
	"dropwatch/pkg/whois"
	"os/exec"
	"strings"
	"time"
)

// DefaultBinary is the lookup client searched for on PATH when none is
// configured explicitly.
const DefaultBinary = "whois"

// Client runs the system whois binary, one invocation per query. It is safe
// for concurrent use.
type Client struct {
	binary  string        // binary is the resolved path of the whois executable
	timeout time.Duration // timeout bounds a single invocation; zero disables it
}

// New resolves binary on PATH and returns a Client using it. It fails with
// ErrDependencyMissing when the binary cannot be found, so a missing lookup
// client surfaces before any polling starts.
func New(binary string, timeout time.Duration) (*Client, error) {
	if binary == "" {
		binary = DefaultBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrDependencyMissing, err, "lookup client %q not found on PATH", binary)
	}

	return &Client{binary: path, timeout: timeout}, nil
}

// Query runs `whois -h <server> <domain>` and returns its stdout verbatim.
// Some registries make the client exit non-zero while still printing a usable
// response; any non-empty output wins over the exit status.
func (c *Client) Query(ctx context.Context, domain string, server string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.binary, "-h", server, domain)
	// A killed client can leave a child resolver holding the output pipes;
	// WaitDelay keeps Run from blocking on them past cancellation.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && stdout.Len() == 0 {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", serrors.Wrap(serrors.ErrQueryFailed, ctxErr, "lookup of %s against %s did not finish", domain, server)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", serrors.With(serrors.ErrQueryFailed, "lookup of %s against %s failed: %s", domain, server, msg)
		}

		return "", serrors.Wrap(serrors.ErrQueryFailed, err, "lookup of %s against %s failed", domain, server)
	}

	return stdout.String(), nil
}

// Ensure Client conforms to the whois.Client interface at compile time.
var _ whois.Client = (*Client)(nil)
