// Package whois defines the lookup client abstraction used to query domain
// registration data, plus the matching logic that turns a raw response into
// an availability verdict.
package whois

import (
	"context"
)

// Client is the abstraction for whois lookups. Implementations perform one
// synchronous query and return the raw response text verbatim; retry policy
// belongs to the caller.
//
//go:generate mockgen -package mockwhois -source=interface.go -destination=mock/mockwhois.go *
type Client interface {
	// Query looks up domain against the given whois server and returns the
	// unparsed response text.
	Query(ctx context.Context, domain string, server string) (string, error)
}
