package whois

import (
	"dropwatch/pkg/serrors"
	"regexp"
	"strings"
)

// Matcher decides whether a raw whois response indicates an available domain.
// The pattern is compiled once at construction so malformed patterns surface
// before any network activity.
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher compiles pattern as a case-insensitive regular expression.
// Blank or invalid patterns fail with ErrValidation.
func NewMatcher(pattern string) (Matcher, error) {
	if strings.TrimSpace(pattern) == "" {
		return Matcher{}, serrors.With(serrors.ErrValidation, "availability pattern is empty")
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return Matcher{}, serrors.Wrap(serrors.ErrValidation, err, "invalid availability pattern %q", pattern)
	}

	return Matcher{re: re}, nil
}

// Available reports whether raw contains the availability pattern anywhere.
// This is a search, not a full match, over the entire response text.
func (m Matcher) Available(raw string) bool {
	return m.re.MatchString(raw)
}

// Pattern returns the source text of the compiled pattern.
func (m Matcher) Pattern() string {
	if m.re == nil {
		return ""
	}

	return strings.TrimPrefix(m.re.String(), "(?i)")
}

// rateLimitPhrases are the throttle indicators seen across registry whois
// servers. Matching is case-insensitive substring containment; phrases stay
// multi-word so registrant names like "Example Limited" cannot trip them.
var rateLimitPhrases = []string{
	"rate limit",
	"limit exceeded",
	"quota exceeded",
	"excessive queries",
	"number of allowed queries",
	"too many requests",
	"try again later",
}

// RateLimited reports whether raw looks like a throttled response. Callers
// must screen with it before testing availability so a throttle message is
// surfaced as its own condition instead of a false "registered" verdict.
func RateLimited(raw string) bool {
	lower := strings.ToLower(raw)
	for _, phrase := range rateLimitPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	return false
}
